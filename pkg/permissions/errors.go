package permissions

import "errors"

var (
	// ErrInvalidPermission is returned when a permission key is not a
	// well-formed "resource:action:scope" triple.
	ErrInvalidPermission = errors.New("permissions: invalid permission key")
)
