package authz_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldport/authzkit/pkg/audit"
	"github.com/fieldport/authzkit/pkg/authz"
	"github.com/fieldport/authzkit/pkg/membership"
	"github.com/fieldport/authzkit/pkg/roles"
)

type guardFixture struct {
	store *membership.MemoryStore
	sink  *audit.MemorySink
	guard *authz.Guard
}

func newGuardFixture(t *testing.T, opts ...authz.GuardOption) *guardFixture {
	t.Helper()

	store := membership.NewMemoryStore()
	cache := authz.NewMemoryCache()
	t.Cleanup(func() { _ = cache.Close() })
	store.AddHook(authz.NewInvalidationHook(cache))

	sink := audit.NewMemorySink()
	resolver := authz.NewResolver(store, authz.WithCache(cache))

	base := []authz.GuardOption{
		authz.WithAuditSink(sink),
		authz.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		authz.WithTenantHint(authz.HeaderTenantHint("")),
	}

	return &guardFixture{
		store: store,
		sink:  sink,
		guard: authz.NewGuard(resolver, roles.DefaultCatalog(), append(base, opts...)...),
	}
}

// okHandler records whether the protected handler ran and what resolution
// it saw.
type okHandler struct {
	ran bool
	res authz.Resolution
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ran = true
	h.res = authz.MustResolutionFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func doRequest(handler http.Handler, principalID, tenantID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	if principalID != uuid.Nil {
		req = req.WithContext(authz.WithPrincipal(req.Context(), principalID))
	}
	if tenantID != uuid.Nil {
		req.Header.Set(authz.DefaultTenantHeader, tenantID.String())
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("manager allowed to read contracts", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleManager)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("contracts:read:all", next), principal, tenant)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, next.ran)
		assert.Equal(t, roles.RoleManager, next.res.Role)
		assert.Equal(t, tenant, next.res.TenantID)

		events := fx.sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.OutcomeAllow, events[0].Outcome)
		assert.Equal(t, "contracts:read:all", events[0].Permission)
		assert.Equal(t, string(authz.StateAllowed), events[0].State)
	})

	t.Run("client denied manager permission", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleClient)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("contracts:write:all", next), principal, tenant)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.ran)

		events := fx.sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.OutcomeDeny, events[0].Outcome)
		assert.Equal(t, audit.ReasonPermissionDenied, events[0].Reason)
	})

	t.Run("unauthenticated gets 401", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("contracts:read:all", next), uuid.Nil, uuid.New())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, next.ran)

		events := fx.sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ReasonUnauthenticated, events[0].Reason)
		assert.Equal(t, string(authz.StateAnonymous), events[0].State)
	})

	t.Run("membership in another tenant does not leak", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, uuid.New(), roles.RoleAdmin)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("contracts:read:all", next), principal, uuid.New())

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.ran)
	})

	t.Run("no tenant context denies as tenant unresolved", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, uuid.New(), roles.RoleAdmin)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("contracts:read:all", next), principal, uuid.Nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		events := fx.sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ReasonTenantUnresolved, events[0].Reason)
	})

	t.Run("super admin passes any check", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		require.NoError(t, fx.store.SetPlatformRole(ctx, principal, roles.RoleSuperAdmin))

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("billing:manage:all", next), principal, uuid.New())

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, next.ran)
		assert.True(t, next.res.SuperRole)
	})

	t.Run("store outage denies with opaque 403", func(t *testing.T) {
		t.Parallel()

		resolver := authz.NewResolver(
			failingStore{err: errors.New("connection reset")},
			authz.WithCache(authz.NewNoopCache()),
		)
		sink := audit.NewMemorySink()
		guard := authz.NewGuard(resolver, roles.DefaultCatalog(),
			authz.WithAuditSink(sink),
			authz.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			authz.WithTenantHint(authz.HeaderTenantHint("")),
		)

		next := &okHandler{}
		rec := doRequest(guard.Guard("contracts:read:all", next), uuid.New(), uuid.New())

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.ran)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ReasonResolutionError, events[0].Reason)
	})

	t.Run("denial bodies are indistinguishable", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleClient)
		require.NoError(t, err)

		insufficientRole := doRequest(fx.guard.Guard("contracts:write:all", &okHandler{}), principal, tenant)
		noTenant := doRequest(fx.guard.Guard("contracts:write:all", &okHandler{}), uuid.New(), uuid.Nil)
		noMembership := doRequest(fx.guard.Guard("contracts:write:all", &okHandler{}), uuid.New(), uuid.New())

		assert.Equal(t, http.StatusForbidden, insufficientRole.Code)
		assert.Equal(t, insufficientRole.Body.String(), noTenant.Body.String())
		assert.Equal(t, insufficientRole.Body.String(), noMembership.Body.String())
	})

	t.Run("unknown permission fails closed", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleAdmin)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(fx.guard.Guard("time_travel:enable:all", next), principal, tenant)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.ran)
	})
}

func TestGuardAny(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("one of several suffices", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleProvider)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(
			fx.guard.GuardAny([]string{"workforce:manage:all", "timesheets:submit:own"}, next),
			principal, tenant,
		)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.ran)
	})

	t.Run("none of several denies", func(t *testing.T) {
		t.Parallel()

		fx := newGuardFixture(t)
		principal := uuid.New()
		tenant := uuid.New()
		_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleClient)
		require.NoError(t, err)

		next := &okHandler{}
		rec := doRequest(
			fx.guard.GuardAny([]string{"workforce:manage:all", "billing:manage:all"}, next),
			principal, tenant,
		)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, next.ran)
	})
}

func TestGuardRequire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fx := newGuardFixture(t, authz.WithTenantHint(authz.CompositeTenantHint(
		authz.PathTenantHint("tenantID"),
		authz.HeaderTenantHint(""),
	)))

	principal := uuid.New()
	tenant := uuid.New()
	_, err := fx.store.UpsertRole(ctx, principal, tenant, roles.RoleManager)
	require.NoError(t, err)

	next := &okHandler{}
	r := chi.NewRouter()
	r.With(fx.guard.Require("reports:read:all")).Get("/tenants/{tenantID}/reports", next.ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, "/tenants/"+tenant.String()+"/reports", nil)
	req = req.WithContext(authz.WithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.ran)
	assert.Equal(t, tenant, next.res.TenantID)
}

func TestGuardRepeatedChecksHitCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	mem := membership.NewMemoryStore()
	store := &countingStore{Store: mem}
	cache := authz.NewMemoryCache()
	defer cache.Close()

	principal := uuid.New()
	tenant := uuid.New()
	_, err := mem.UpsertRole(ctx, principal, tenant, roles.RoleManager)
	require.NoError(t, err)

	resolver := authz.NewResolver(store, authz.WithCache(cache))
	guard := authz.NewGuard(resolver, roles.DefaultCatalog(),
		authz.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		authz.WithTenantHint(authz.HeaderTenantHint("")),
	)

	handler := guard.Guard("contracts:read:all", &okHandler{})
	for i := 0; i < 5; i++ {
		rec := doRequest(handler, principal, tenant)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, store.membershipReads)
}
