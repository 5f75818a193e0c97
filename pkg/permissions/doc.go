// Package permissions defines the permission-key grammar used across the
// authorization engine and provides matching helpers for checking keys
// against role grants.
//
// A permission is a plain string of the form "resource:action:scope",
// e.g. "contracts:read:own" or "company:manage:all". The scope part is
// restricted to "own" (resources the principal owns) and "all" (every
// resource inside the tenant). Grant patterns stored in the role catalog
// may additionally use a trailing "*" to cover a whole subtree:
//
//   - "contracts:*" covers every contract permission
//   - "contracts:read:*" covers both the own and all scope
//   - "*" covers everything (reserved for the platform super role)
//
// Concrete keys arriving from call sites never carry wildcards; Validate
// enforces that at the boundary.
//
// Usage:
//
//	grants := []string{"contracts:*", "workforce:read:own"}
//
//	permissions.Granted(grants, "contracts:read:own") // true
//	permissions.GrantedAny(grants, []string{"company:manage:all", "workforce:read:own"}) // true
//	permissions.GrantedAll(grants, []string{"contracts:read:own", "company:manage:all"}) // false
//
// All helpers are pure and allocation-free on the read path; Normalize is
// intended for catalog construction, not per-request checks.
package permissions
