// Package authz enforces tenant-scoped role authorization at the HTTP
// boundary.
//
// The package composes three pieces. The Resolver answers "what role does
// this principal hold in this tenant" from the membership store, through
// a TTL cache so repeated checks within a request burst cost one lookup.
// The Guard wraps handlers: it extracts the authenticated principal,
// resolves the role, consults the permission catalog, and either runs the
// wrapped handler with the Resolution in context or writes an opaque
// denial. The audit sink receives every decision, allow and deny alike,
// without ever blocking the request.
//
//	store := membership.NewMemoryStore()
//	resolver := authz.NewResolver(store)
//	store.AddHook(authz.NewInvalidationHook(resolver.Cache()))
//
//	guard := authz.NewGuard(resolver, roles.DefaultCatalog(),
//		authz.WithTenantHint(authz.HeaderTenantHint("")),
//		authz.WithAuditSink(sink),
//	)
//
//	r.With(guard.Require("invoices:create:all")).Post("/invoices", createInvoice)
//
// Everything fails closed: unknown roles carry no grants, resolution
// transport errors deny, and denial responses never reveal which
// permission was missing or whether the tenant resolved.
package authz
