package authz

import (
	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/roles"
)

// Key identifies a cached resolution. A zero TenantID keys resolutions
// that relied on the principal's stored tenant selection rather than an
// explicit tenant, so selection changes can invalidate them independently.
type Key struct {
	PrincipalID uuid.UUID
	TenantID    uuid.UUID
}

// Resolution is the authoritative answer to "who is this principal inside
// which tenant". A zero Resolution (RoleUnknown, nil tenant) is a valid
// outcome meaning nothing resolved - every scoped check denies on it.
type Resolution struct {
	Role         roles.Role `json:"role"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	MembershipID uuid.UUID  `json:"membership_id"`

	// SuperRole is set when the role came from the platform-wide field on
	// the principal record rather than a tenant membership.
	SuperRole bool `json:"super_role"`
}

// Scoped reports whether the resolution is backed by an actual tenant
// membership. Super-role resolutions are unscoped even when a target
// tenant was named.
func (r Resolution) Scoped() bool {
	return r.MembershipID != uuid.Nil
}

// Resolved reports whether any role resolved at all.
func (r Resolution) Resolved() bool {
	return r.Role != roles.RoleUnknown
}
