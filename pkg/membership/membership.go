package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/roles"
)

// Membership binds a principal to a tenant with a role. At most one active
// membership exists per (principal, tenant); role changes mutate the active
// row, removal flips is_active to false. Rows are never hard-deleted so the
// history stays available for audit.
type Membership struct {
	ID          uuid.UUID
	PrincipalID uuid.UUID
	TenantID    uuid.UUID
	Role        roles.Role
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the engine's view of the membership data. Reads feed the role
// resolver; writes are the mutation path that must synchronously drive
// cache invalidation, which implementations do by firing their registered
// InvalidationHooks after each successful write.
type Store interface {
	// ActiveMembership returns the single active membership for the pair,
	// or ErrNotFound when none exists.
	ActiveMembership(ctx context.Context, principalID, tenantID uuid.UUID) (*Membership, error)

	// ActiveTenant returns the tenant the principal currently acts as,
	// or ErrNoActiveTenant when no selection is set.
	ActiveTenant(ctx context.Context, principalID uuid.UUID) (uuid.UUID, error)

	// PlatformRole returns the platform-wide super role stored on the
	// principal record, or ErrNoPlatformRole when the principal has none.
	// Consulted only when no membership resolves.
	PlatformRole(ctx context.Context, principalID uuid.UUID) (roles.Role, error)

	// UpsertRole sets the principal's role inside the tenant, creating the
	// membership when absent and bumping UpdatedAt when present.
	UpsertRole(ctx context.Context, principalID, tenantID uuid.UUID, role roles.Role) (*Membership, error)

	// Deactivate soft-removes the active membership. Deactivating an
	// already-inactive pair returns ErrNotFound.
	Deactivate(ctx context.Context, principalID, tenantID uuid.UUID) error

	// SetActiveTenant records which tenant the principal acts as.
	SetActiveTenant(ctx context.Context, principalID, tenantID uuid.UUID) error
}

// InvalidationHook is called synchronously after every membership mutation
// so cached authorization decisions for the pair are dropped before the
// write returns. A zero tenantID signals a tenant-selection change, which
// invalidates the principal's implicit (selection-based) resolutions.
type InvalidationHook func(ctx context.Context, principalID, tenantID uuid.UUID)

// hooks is the shared hook list embedded by store implementations.
type hooks struct {
	fns []InvalidationHook
}

func (h *hooks) add(fn InvalidationHook) {
	if fn != nil {
		h.fns = append(h.fns, fn)
	}
}

func (h *hooks) fire(ctx context.Context, principalID, tenantID uuid.UUID) {
	for _, fn := range h.fns {
		fn(ctx, principalID, tenantID)
	}
}
