package authz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DefaultTenantHeader is the header HeaderTenantHint reads when no name
// is given.
const DefaultTenantHeader = "X-Tenant-ID"

// TenantHint extracts the explicitly requested target tenant from a
// request. Returning uuid.Nil means the request named no tenant and the
// resolver falls back to the principal's stored selection. Malformed
// values also map to uuid.Nil: an unparsable tenant id is treated the
// same as none at all and the request is judged on the selection, which
// denies unless one exists.
type TenantHint func(r *http.Request) uuid.UUID

// HeaderTenantHint reads the tenant id from a request header.
func HeaderTenantHint(header string) TenantHint {
	if header == "" {
		header = DefaultTenantHeader
	}
	return func(r *http.Request) uuid.UUID {
		id, err := uuid.Parse(r.Header.Get(header))
		if err != nil {
			return uuid.Nil
		}
		return id
	}
}

// PathTenantHint reads the tenant id from a chi route parameter, for
// routes shaped like /tenants/{tenantID}/invoices.
func PathTenantHint(param string) TenantHint {
	return func(r *http.Request) uuid.UUID {
		id, err := uuid.Parse(chi.URLParam(r, param))
		if err != nil {
			return uuid.Nil
		}
		return id
	}
}

// CompositeTenantHint tries each hint in order and returns the first
// non-zero tenant id.
func CompositeTenantHint(hints ...TenantHint) TenantHint {
	return func(r *http.Request) uuid.UUID {
		for _, hint := range hints {
			if id := hint(r); id != uuid.Nil {
				return id
			}
		}
		return uuid.Nil
	}
}
