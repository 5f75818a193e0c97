package roles

// Role is a named, ranked privilege category. The set of roles is closed:
// store strings are decoded into this type at a single validation boundary
// and unknown values fail closed to RoleUnknown, which ranks below every
// real role and carries no grants.
type Role string

const (
	// RoleUnknown is the zero role. It is what ParseRole returns for
	// unrecognized input and what an unresolved membership carries.
	RoleUnknown Role = ""

	// RoleClient is an external customer of a tenant.
	RoleClient Role = "client"

	// RoleProvider is a workforce member delivering services for a tenant.
	RoleProvider Role = "provider"

	// RoleManager runs day-to-day operations inside a tenant.
	RoleManager Role = "manager"

	// RoleAdmin administers a single tenant.
	RoleAdmin Role = "admin"

	// RoleSuperAdmin is the platform operator role. It is not scoped to a
	// tenant and is stored on the principal record, not on a membership.
	RoleSuperAdmin Role = "super_admin"
)

// ranks defines the total order over the closed role set. RoleUnknown is
// intentionally absent so it ranks at zero, below everything.
var ranks = map[Role]int{
	RoleClient:     1,
	RoleProvider:   2,
	RoleManager:    3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// ParseRole decodes a free-form role string from the membership store into
// the closed role set. Unknown strings return RoleUnknown together with
// ErrUnknownRole so callers deny rather than guess.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := ranks[r]; !ok {
		return RoleUnknown, ErrUnknownRole
	}
	return r, nil
}

// Rank returns the role's position in the hierarchy. Higher means more
// privileged. RoleUnknown and any value outside the closed set rank zero.
func (r Role) Rank() int {
	return ranks[r]
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

// IsSuper reports whether the role is the platform super role.
func (r Role) IsSuper() bool {
	return r == RoleSuperAdmin
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// All returns the closed role set ordered by rank, least privileged first.
func All() []Role {
	return []Role{RoleClient, RoleProvider, RoleManager, RoleAdmin, RoleSuperAdmin}
}
