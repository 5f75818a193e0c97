package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fieldport/authzkit/pkg/authz"
	"github.com/fieldport/authzkit/pkg/config"
)

func TestConfig(t *testing.T) {
	t.Setenv("AUTHZ_CACHE_TTL", "90s")
	t.Setenv("AUTHZ_TENANT_HEADER", "X-Company-ID")

	var cfg authz.Config
	require.NoError(t, config.Load(&cfg))
	require.Equal(t, 90*time.Second, cfg.CacheTTL)
	require.Equal(t, 10000, cfg.CacheSize)
	require.Equal(t, "X-Company-ID", cfg.TenantHeader)
	require.Equal(t, 1024, cfg.AuditBuffer)

	cache := authz.NewMemoryCache(cfg.CacheOptions()...)
	require.NoError(t, cache.Close())

	hint := cfg.TenantHint()
	require.NotNil(t, hint)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Company-ID", id.String())
	require.Equal(t, id, hint(req))
}
