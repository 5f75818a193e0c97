package authz

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// principalCtxKey is the context key for the authenticated principal id.
type principalCtxKey struct{}

// resolutionCtxKey is the context key for the guard's resolution.
type resolutionCtxKey struct{}

// WithPrincipal attaches the authenticated principal's id to the context.
// The authentication layer calls this before the guard runs.
func WithPrincipal(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, id)
}

// PrincipalFromContext returns the authenticated principal id, if any.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalCtxKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// withResolution attaches the guard's resolution for the wrapped handler.
func withResolution(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, resolutionCtxKey{}, res)
}

// ResolutionFromContext returns the resolution the guard attached after an
// allow decision. Handlers use it to scope their own data access to the
// resolved tenant - the guard authorizes the call, the handler's queries
// remain its own responsibility.
func ResolutionFromContext(ctx context.Context) (Resolution, bool) {
	res, ok := ctx.Value(resolutionCtxKey{}).(Resolution)
	return res, ok
}

// MustResolutionFromContext is ResolutionFromContext that panics when no
// resolution is present. Only for handlers that are always guard-wrapped;
// reaching the panic means a route bypassed the guard.
func MustResolutionFromContext(ctx context.Context) Resolution {
	res, ok := ResolutionFromContext(ctx)
	if !ok {
		panic("authz: no resolution in context, handler is not guard-wrapped")
	}
	return res
}

// PrincipalLogExtractor returns a slog context extractor adding the
// principal id to log records.
func PrincipalLogExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := PrincipalFromContext(ctx); ok {
			return slog.String("principal_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}

// TenantLogExtractor returns a slog context extractor adding the resolved
// tenant id to log records.
func TenantLogExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if res, ok := ResolutionFromContext(ctx); ok && res.TenantID != uuid.Nil {
			return slog.String("tenant_id", res.TenantID.String()), true
		}
		return slog.Attr{}, false
	}
}
