package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldport/authzkit/pkg/pg"
	"github.com/fieldport/authzkit/pkg/roles"
)

// PostgresStore implements Store on top of pgx/v5. The schema (see the
// migrations directory) enforces the at-most-one-active-membership
// invariant with a partial unique index, so concurrent upserts cannot
// produce ambiguous rows.
type PostgresStore struct {
	pool  *pgxpool.Pool
	hooks hooks
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresHook registers an invalidation hook fired after each mutation.
func WithPostgresHook(fn InvalidationHook) PostgresOption {
	return func(s *PostgresStore) { s.hooks.add(fn) }
}

// NewPostgresStore creates a membership store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHook registers an invalidation hook after construction.
func (s *PostgresStore) AddHook(fn InvalidationHook) {
	s.hooks.add(fn)
}

// ActiveMembership implements Store.
func (s *PostgresStore) ActiveMembership(ctx context.Context, principalID, tenantID uuid.UUID) (*Membership, error) {
	const query = `
		SELECT id, principal_id, tenant_id, role, is_active, created_at, updated_at
		FROM memberships
		WHERE principal_id = $1 AND tenant_id = $2 AND is_active`

	var (
		m       Membership
		roleStr string
	)
	err := s.pool.QueryRow(ctx, query, principalID, tenantID).Scan(
		&m.ID, &m.PrincipalID, &m.TenantID, &roleStr, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Unknown role strings decode to RoleUnknown, which carries no grants.
	// The row is still returned so callers can surface the defect.
	m.Role, _ = roles.ParseRole(roleStr)
	return &m, nil
}

// ActiveTenant implements Store.
func (s *PostgresStore) ActiveTenant(ctx context.Context, principalID uuid.UUID) (uuid.UUID, error) {
	const query = `SELECT active_tenant_id FROM principals WHERE id = $1`

	var tenantID *uuid.UUID
	if err := s.pool.QueryRow(ctx, query, principalID).Scan(&tenantID); err != nil {
		if pg.IsNotFound(err) {
			return uuid.Nil, ErrPrincipalNotFound
		}
		return uuid.Nil, err
	}
	if tenantID == nil || *tenantID == uuid.Nil {
		return uuid.Nil, ErrNoActiveTenant
	}
	return *tenantID, nil
}

// PlatformRole implements Store.
func (s *PostgresStore) PlatformRole(ctx context.Context, principalID uuid.UUID) (roles.Role, error) {
	const query = `SELECT platform_role FROM principals WHERE id = $1`

	var roleStr *string
	if err := s.pool.QueryRow(ctx, query, principalID).Scan(&roleStr); err != nil {
		if pg.IsNotFound(err) {
			return roles.RoleUnknown, ErrPrincipalNotFound
		}
		return roles.RoleUnknown, err
	}
	if roleStr == nil || *roleStr == "" {
		return roles.RoleUnknown, ErrNoPlatformRole
	}

	role, err := roles.ParseRole(*roleStr)
	if err != nil {
		return roles.RoleUnknown, errors.Join(ErrNoPlatformRole, err)
	}
	return role, nil
}

// UpsertRole implements Store. The active row is updated in place; when no
// active row exists a new one is inserted. A concurrent insert losing the
// race against the partial unique index retries as an update.
func (s *PostgresStore) UpsertRole(ctx context.Context, principalID, tenantID uuid.UUID, role roles.Role) (*Membership, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	m, err := s.updateActiveRole(ctx, principalID, tenantID, role)
	if errors.Is(err, pgx.ErrNoRows) {
		m, err = s.insertMembership(ctx, principalID, tenantID, role)
		if pg.IsUniqueViolation(err) {
			m, err = s.updateActiveRole(ctx, principalID, tenantID, role)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("membership: upsert role: %w", err)
	}

	s.hooks.fire(ctx, principalID, tenantID)
	return m, nil
}

func (s *PostgresStore) updateActiveRole(ctx context.Context, principalID, tenantID uuid.UUID, role roles.Role) (*Membership, error) {
	const query = `
		UPDATE memberships
		SET role = $3, updated_at = now()
		WHERE principal_id = $1 AND tenant_id = $2 AND is_active
		RETURNING id, principal_id, tenant_id, role, is_active, created_at, updated_at`

	return s.scanMembership(s.pool.QueryRow(ctx, query, principalID, tenantID, string(role)))
}

func (s *PostgresStore) insertMembership(ctx context.Context, principalID, tenantID uuid.UUID, role roles.Role) (*Membership, error) {
	const query = `
		INSERT INTO memberships (principal_id, tenant_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, principal_id, tenant_id, role, is_active, created_at, updated_at`

	return s.scanMembership(s.pool.QueryRow(ctx, query, principalID, tenantID, string(role)))
}

func (s *PostgresStore) scanMembership(row pgx.Row) (*Membership, error) {
	var (
		m       Membership
		roleStr string
	)
	if err := row.Scan(&m.ID, &m.PrincipalID, &m.TenantID, &roleStr, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Role, _ = roles.ParseRole(roleStr)
	return &m, nil
}

// Deactivate implements Store.
func (s *PostgresStore) Deactivate(ctx context.Context, principalID, tenantID uuid.UUID) error {
	const query = `
		UPDATE memberships
		SET is_active = false, updated_at = now()
		WHERE principal_id = $1 AND tenant_id = $2 AND is_active`

	tag, err := s.pool.Exec(ctx, query, principalID, tenantID)
	if err != nil {
		return fmt.Errorf("membership: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.hooks.fire(ctx, principalID, tenantID)
	return nil
}

// SetActiveTenant implements Store.
func (s *PostgresStore) SetActiveTenant(ctx context.Context, principalID, tenantID uuid.UUID) error {
	const query = `UPDATE principals SET active_tenant_id = $2, updated_at = now() WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, principalID, tenantID)
	if err != nil {
		return fmt.Errorf("membership: set active tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPrincipalNotFound
	}

	s.hooks.fire(ctx, principalID, uuid.Nil)
	return nil
}

// SetPlatformRole assigns or clears (RoleUnknown) the platform super role.
func (s *PostgresStore) SetPlatformRole(ctx context.Context, principalID uuid.UUID, role roles.Role) error {
	if role != roles.RoleUnknown && !role.Valid() {
		return ErrInvalidRole
	}

	const query = `UPDATE principals SET platform_role = NULLIF($2, ''), updated_at = now() WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, principalID, string(role))
	if err != nil {
		return fmt.Errorf("membership: set platform role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPrincipalNotFound
	}

	s.hooks.fire(ctx, principalID, uuid.Nil)
	return nil
}
