package authz

import "errors"

// Denial taxonomy. All four surface to HTTP clients as an identical opaque
// 401/403; the distinctions exist for logs and the audit trail only.
var (
	// ErrUnauthenticated means no principal was attached to the request.
	ErrUnauthenticated = errors.New("authz: no authenticated principal")

	// ErrTenantUnresolved means a tenant-scoped check ran with no explicit
	// tenant and no active tenant selection.
	ErrTenantUnresolved = errors.New("authz: tenant unresolved")

	// ErrStoreUnavailable wraps transport failures against the membership
	// store. Always treated as denial, never as success.
	ErrStoreUnavailable = errors.New("authz: membership store unavailable")

	// ErrPermissionDenied means the role resolved but its grants do not
	// cover the required permission.
	ErrPermissionDenied = errors.New("authz: permission denied")
)
