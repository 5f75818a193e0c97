package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fieldport/authzkit/pkg/authz"
)

func TestHeaderTenantHint(t *testing.T) {
	t.Parallel()

	tenant := uuid.New()

	t.Run("reads the default header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(authz.DefaultTenantHeader, tenant.String())

		assert.Equal(t, tenant, authz.HeaderTenantHint("")(req))
	})

	t.Run("reads a custom header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Company-ID", tenant.String())

		assert.Equal(t, tenant, authz.HeaderTenantHint("X-Company-ID")(req))
	})

	t.Run("absent header means no explicit tenant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, uuid.Nil, authz.HeaderTenantHint("")(req))
	})

	t.Run("malformed value means no explicit tenant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(authz.DefaultTenantHeader, "not-a-uuid")

		assert.Equal(t, uuid.Nil, authz.HeaderTenantHint("")(req))
	})
}

func TestCompositeTenantHint(t *testing.T) {
	t.Parallel()

	headerTenant := uuid.New()

	hint := authz.CompositeTenantHint(
		authz.HeaderTenantHint("X-Primary"),
		authz.HeaderTenantHint("X-Fallback"),
	)

	t.Run("first non-zero hint wins", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Primary", headerTenant.String())
		req.Header.Set("X-Fallback", uuid.New().String())

		assert.Equal(t, headerTenant, hint(req))
	})

	t.Run("falls through empty hints", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Fallback", headerTenant.String())

		assert.Equal(t, headerTenant, hint(req))
	})

	t.Run("all empty yields zero", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, uuid.Nil, hint(req))
	})
}
