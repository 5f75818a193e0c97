package authz

import "time"

// Config holds the tunables of the resolution cache and audit pipeline,
// loaded from the environment via config.Load.
type Config struct {
	// CacheTTL bounds how stale a cached resolution may be when roles are
	// edited outside the invalidation hooks.
	CacheTTL time.Duration `env:"AUTHZ_CACHE_TTL" envDefault:"5m"`

	// CacheSize caps cached resolutions before LRU eviction.
	CacheSize int `env:"AUTHZ_CACHE_SIZE" envDefault:"10000"`

	// TenantHeader names the header carrying an explicit target tenant.
	TenantHeader string `env:"AUTHZ_TENANT_HEADER" envDefault:"X-Tenant-ID"`

	// AuditBuffer is the async audit sink's channel capacity. Events past
	// the buffer are dropped, never blocked on.
	AuditBuffer int `env:"AUTHZ_AUDIT_BUFFER" envDefault:"1024"`
}

// CacheOptions translates the env-derived settings into options for
// NewMemoryCache.
func (c Config) CacheOptions() []CacheOption {
	return []CacheOption{
		WithCacheTTL(c.CacheTTL),
		WithCacheSize(c.CacheSize),
	}
}

// TenantHint returns the header-based hint for the configured header name.
func (c Config) TenantHint() TenantHint {
	return HeaderTenantHint(c.TenantHeader)
}
