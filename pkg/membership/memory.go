package membership

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/roles"
)

// MemoryStore is an in-memory Store with the same invariants as the
// Postgres implementation: one active membership per (principal, tenant),
// soft deactivation, synchronous invalidation hooks. Safe for concurrent
// use; intended for tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	rows       []*Membership
	principals map[uuid.UUID]*principalRecord
	hooks      hooks
	now        func() time.Time
}

type principalRecord struct {
	platformRole roles.Role
	activeTenant uuid.UUID
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryHook registers an invalidation hook fired after each mutation.
func WithMemoryHook(fn InvalidationHook) MemoryOption {
	return func(s *MemoryStore) { s.hooks.add(fn) }
}

// WithMemoryClock overrides the store's time source for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory membership store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		principals: make(map[uuid.UUID]*principalRecord),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHook registers an invalidation hook after construction. The authz
// cache is usually built after the store, so wiring happens here.
func (s *MemoryStore) AddHook(fn InvalidationHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.add(fn)
}

// ActiveMembership implements Store.
func (s *MemoryStore) ActiveMembership(ctx context.Context, principalID, tenantID uuid.UUID) (*Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m := s.findActive(principalID, tenantID); m != nil {
		clone := *m
		return &clone, nil
	}
	return nil, ErrNotFound
}

// ActiveTenant implements Store.
func (s *MemoryStore) ActiveTenant(ctx context.Context, principalID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.principals[principalID]
	if !ok || rec.activeTenant == uuid.Nil {
		return uuid.Nil, ErrNoActiveTenant
	}
	return rec.activeTenant, nil
}

// PlatformRole implements Store.
func (s *MemoryStore) PlatformRole(ctx context.Context, principalID uuid.UUID) (roles.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.principals[principalID]
	if !ok || rec.platformRole == roles.RoleUnknown {
		return roles.RoleUnknown, ErrNoPlatformRole
	}
	return rec.platformRole, nil
}

// UpsertRole implements Store.
func (s *MemoryStore) UpsertRole(ctx context.Context, principalID, tenantID uuid.UUID, role roles.Role) (*Membership, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	s.mu.Lock()
	now := s.now()
	m := s.findActive(principalID, tenantID)
	if m != nil {
		m.Role = role
		m.UpdatedAt = now
	} else {
		m = &Membership{
			ID:          uuid.New(),
			PrincipalID: principalID,
			TenantID:    tenantID,
			Role:        role,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.rows = append(s.rows, m)
	}
	clone := *m
	s.mu.Unlock()

	s.hooks.fire(ctx, principalID, tenantID)
	return &clone, nil
}

// Deactivate implements Store.
func (s *MemoryStore) Deactivate(ctx context.Context, principalID, tenantID uuid.UUID) error {
	s.mu.Lock()
	m := s.findActive(principalID, tenantID)
	if m == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	m.IsActive = false
	m.UpdatedAt = s.now()
	s.mu.Unlock()

	s.hooks.fire(ctx, principalID, tenantID)
	return nil
}

// SetActiveTenant implements Store.
func (s *MemoryStore) SetActiveTenant(ctx context.Context, principalID, tenantID uuid.UUID) error {
	s.mu.Lock()
	s.principal(principalID).activeTenant = tenantID
	s.mu.Unlock()

	// Zero tenant marks a selection change: implicit resolutions for the
	// principal are what went stale, not any particular pair.
	s.hooks.fire(ctx, principalID, uuid.Nil)
	return nil
}

// SetPlatformRole assigns the platform-wide super role to a principal.
// Not part of Store: platform-role assignment is operator tooling, the
// engine only ever reads it.
func (s *MemoryStore) SetPlatformRole(ctx context.Context, principalID uuid.UUID, role roles.Role) error {
	if role != roles.RoleUnknown && !role.Valid() {
		return ErrInvalidRole
	}

	s.mu.Lock()
	s.principal(principalID).platformRole = role
	s.mu.Unlock()

	s.hooks.fire(ctx, principalID, uuid.Nil)
	return nil
}

// History returns every membership row for the pair, inactive ones
// included, newest first. Soft deactivation keeps these around for audit.
func (s *MemoryStore) History(ctx context.Context, principalID, tenantID uuid.UUID) []Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Membership
	for i := len(s.rows) - 1; i >= 0; i-- {
		m := s.rows[i]
		if m.PrincipalID == principalID && m.TenantID == tenantID {
			result = append(result, *m)
		}
	}
	return result
}

func (s *MemoryStore) findActive(principalID, tenantID uuid.UUID) *Membership {
	for _, m := range s.rows {
		if m.IsActive && m.PrincipalID == principalID && m.TenantID == tenantID {
			return m
		}
	}
	return nil
}

func (s *MemoryStore) principal(id uuid.UUID) *principalRecord {
	rec, ok := s.principals[id]
	if !ok {
		rec = &principalRecord{}
		s.principals[id] = rec
	}
	return rec
}
