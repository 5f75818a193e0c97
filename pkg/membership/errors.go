package membership

import "errors"

var (
	// ErrNotFound is returned when no active membership exists for the pair.
	ErrNotFound = errors.New("membership: not found")

	// ErrNoActiveTenant is returned when the principal has no tenant
	// selection set.
	ErrNoActiveTenant = errors.New("membership: no active tenant selection")

	// ErrNoPlatformRole is returned when the principal record carries no
	// platform-wide role.
	ErrNoPlatformRole = errors.New("membership: no platform role")

	// ErrPrincipalNotFound is returned when the principal record itself
	// does not exist.
	ErrPrincipalNotFound = errors.New("membership: principal not found")

	// ErrInvalidRole is returned when a mutation carries a role outside
	// the closed set.
	ErrInvalidRole = errors.New("membership: invalid role")
)
