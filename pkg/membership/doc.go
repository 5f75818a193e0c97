// Package membership owns the data binding principals to tenants: the
// Membership record, the Store interface the authorization engine reads
// through, and the Postgres and in-memory implementations.
//
// Two invariants matter here:
//
//   - At most one active membership exists per (principal, tenant). The
//     Postgres schema enforces it with a partial unique index; the memory
//     store mirrors the behavior.
//   - Memberships are never hard-deleted. Removal deactivates the row
//     (is_active = false), preserving history for audit.
//
// Every mutation - role change, deactivation, tenant-selection change -
// fires the store's registered InvalidationHooks synchronously before the
// write returns. The authz package wires its permission cache into these
// hooks, which is what closes the staleness window for mutations that go
// through the application write path. Mutations that bypass the store
// (direct database edits) are only bounded by the cache TTL.
package membership
