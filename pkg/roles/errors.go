package roles

import "errors"

var (
	// ErrUnknownRole is returned when a role string is outside the closed set.
	ErrUnknownRole = errors.New("roles: unknown role")

	// ErrCircularInheritance is returned when role definitions inherit from
	// each other in a cycle.
	ErrCircularInheritance = errors.New("roles: circular inheritance")

	// ErrCatalogMisconfigured is returned by Catalog.Verify when a permission
	// required by an operation is granted to no role. This indicates a
	// programming defect, not an access-control event.
	ErrCatalogMisconfigured = errors.New("roles: catalog misconfigured")

	// ErrInvalidCatalog is returned when catalog definitions are malformed.
	ErrInvalidCatalog = errors.New("roles: invalid catalog")

	// ErrPermissionNotGranted is returned by Can and CanAny when the role's
	// grants do not cover the requested permission.
	ErrPermissionNotGranted = errors.New("roles: permission not granted")
)
