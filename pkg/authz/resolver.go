package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/membership"
)

// Resolver answers "what role does this principal hold inside this tenant"
// by consulting the membership store through the permission cache. It is
// read-only and deterministic given consistent store state: ambiguity
// (no explicit tenant, no selection) resolves to nothing rather than a
// guess, and store failures surface as ErrStoreUnavailable so callers
// deny instead of proceeding.
//
// The resolver imposes no timeout of its own; retry and deadline policy
// belong to the store client, and the enclosing request's context governs
// cancellation.
type Resolver struct {
	store membership.Store
	cache Cache
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache sets the resolution cache. Defaults to NewMemoryCache().
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// NewResolver creates a Resolver over the membership store.
func NewResolver(store membership.Store, opts ...ResolverOption) *Resolver {
	if store == nil {
		panic("authz: membership store cannot be nil")
	}
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	return r
}

// Cache exposes the resolver's cache so callers can wire invalidation
// hooks and operational flushes.
func (r *Resolver) Cache() Cache {
	return r.cache
}

// Resolve determines the principal's effective role. A zero tenantID asks
// for the principal's active tenant selection; the result is then cached
// under the selection key (principal, zero) so selection changes can
// invalidate it without touching explicit-pair entries.
//
// Resolution order: explicit tenant, else stored selection, else no
// tenant; active membership in the target tenant; else the platform-wide
// role on the principal record. When nothing resolves the returned
// Resolution carries RoleUnknown and scoped checks deny on it.
func (r *Resolver) Resolve(ctx context.Context, principalID, tenantID uuid.UUID) (Resolution, error) {
	key := Key{PrincipalID: principalID, TenantID: tenantID}
	if res, ok := r.cache.Get(ctx, key); ok {
		return res, nil
	}

	res, err := r.resolve(ctx, principalID, tenantID)
	if err != nil {
		// Transient failures are never cached; the next attempt goes back
		// to the store.
		return Resolution{}, err
	}

	r.cache.Set(ctx, key, res)
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, principalID, tenantID uuid.UUID) (Resolution, error) {
	target := tenantID
	if target == uuid.Nil {
		selected, err := r.store.ActiveTenant(ctx, principalID)
		switch {
		case err == nil:
			target = selected
		case errors.Is(err, membership.ErrNoActiveTenant),
			errors.Is(err, membership.ErrPrincipalNotFound):
			// No selection: only the platform role can still apply.
		default:
			return Resolution{}, errors.Join(ErrStoreUnavailable, err)
		}
	}

	if target != uuid.Nil {
		m, err := r.store.ActiveMembership(ctx, principalID, target)
		switch {
		case err == nil:
			return Resolution{Role: m.Role, TenantID: target, MembershipID: m.ID}, nil
		case errors.Is(err, membership.ErrNotFound):
			// Fall through to the platform role.
		default:
			return Resolution{}, errors.Join(ErrStoreUnavailable, err)
		}
	}

	role, err := r.store.PlatformRole(ctx, principalID)
	switch {
	case err == nil:
		return Resolution{Role: role, TenantID: target, SuperRole: true}, nil
	case errors.Is(err, membership.ErrNoPlatformRole),
		errors.Is(err, membership.ErrPrincipalNotFound):
		return Resolution{TenantID: target}, nil
	default:
		return Resolution{}, errors.Join(ErrStoreUnavailable, err)
	}
}
