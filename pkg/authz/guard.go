package authz

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/audit"
	"github.com/fieldport/authzkit/pkg/roles"
)

// Guard is the single enforcement point wrapping every privileged
// operation. It composes the cache-checked Resolver with the permission
// catalog: extract principal, resolve role, check grants, then either
// delegate to the wrapped handler with the resolution in context or
// short-circuit with an opaque denial.
//
// Denials never disclose why at the permission level. An authenticated
// principal lacking a permission and one with no resolvable tenant get
// byte-identical 403 responses; only the authenticated/unauthenticated
// boundary is distinguished (401 vs 403). The reasons exist solely in
// logs and the audit trail.
type Guard struct {
	resolver   *Resolver
	catalog    *roles.Catalog
	sink       audit.Sink
	log        *slog.Logger
	tenantHint TenantHint
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithAuditSink sets the decision sink. Wrap it with audit.NewAsyncSink
// unless the sink is already non-blocking; the guard treats write errors
// as advisory either way.
func WithAuditSink(sink audit.Sink) GuardOption {
	return func(g *Guard) {
		if sink != nil {
			g.sink = sink
		}
	}
}

// WithLogger sets the guard's logger.
func WithLogger(log *slog.Logger) GuardOption {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithTenantHint sets how an explicit target tenant is extracted from the
// request. Without a hint every resolution falls back to the principal's
// stored selection.
func WithTenantHint(hint TenantHint) GuardOption {
	return func(g *Guard) {
		if hint != nil {
			g.tenantHint = hint
		}
	}
}

// NewGuard creates the enforcement middleware factory.
func NewGuard(resolver *Resolver, catalog *roles.Catalog, opts ...GuardOption) *Guard {
	if resolver == nil {
		panic("authz: resolver cannot be nil")
	}
	if catalog == nil {
		panic("authz: catalog cannot be nil")
	}

	g := &Guard{
		resolver: resolver,
		catalog:  catalog,
		sink:     audit.NoopSink{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Guard wraps handler so it only runs when the principal holds the
// required permission (or the platform super role). The returned handler
// has the exact same call signature as the wrapped one.
func (g *Guard) Guard(permission string, handler http.Handler) http.Handler {
	return g.guard([]string{permission}, handler)
}

// GuardAny wraps handler so it runs when the principal holds at least one
// of the listed permissions - operations reachable by multiple
// independent roles declare each role's key.
func (g *Guard) GuardAny(perms []string, handler http.Handler) http.Handler {
	return g.guard(perms, handler)
}

// Require returns chi-style middleware form of GuardAny.
func (g *Guard) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.guard(perms, next)
	}
}

func (g *Guard) guard(required []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		d := newDecision()

		d.advance(StateAuthenticating)
		principalID, ok := PrincipalFromContext(ctx)
		if !ok {
			d.advance(StateAnonymous)
			g.record(r, d, uuid.Nil, uuid.Nil, required, audit.OutcomeDeny, audit.ReasonUnauthenticated)
			writeDenial(w, http.StatusUnauthorized)
			return
		}
		d.advance(StateAuthenticated)

		var explicitTenant uuid.UUID
		if g.tenantHint != nil {
			explicitTenant = g.tenantHint(r)
		}

		d.advance(StateResolvingRole)
		res, err := g.resolver.Resolve(ctx, principalID, explicitTenant)
		if err != nil {
			d.advance(StateResolutionFailed)
			d.advance(StateDenied)
			// An outage, not an access-control event: logged under its own
			// category so operators can tell the two apart.
			g.log.ErrorContext(ctx, "authorization resolution failed",
				"error", err,
				"principal_id", principalID,
				"tenant_id", explicitTenant,
				"state", d.state,
			)
			g.record(r, d, principalID, explicitTenant, required, audit.OutcomeDeny, audit.ReasonResolutionError)
			writeDenial(w, http.StatusForbidden)
			return
		}
		d.advance(StateResolved)

		d.advance(StateCheckingPermission)
		allowed := res.SuperRole && res.Role.IsSuper() || g.catalog.CanAny(res.Role, required...) == nil
		if !allowed {
			d.advance(StateDenied)
			g.logDenial(r, principalID, res, required)
			g.record(r, d, principalID, res.TenantID, required, audit.OutcomeDeny, denialReason(res))
			writeDenial(w, http.StatusForbidden)
			return
		}
		d.advance(StateAllowed)

		g.record(r, d, principalID, res.TenantID, required, audit.OutcomeAllow, "")
		next.ServeHTTP(w, r.WithContext(withResolution(ctx, res)))
	})
}

// logDenial separates three log categories: catalog misconfiguration
// (loud, it is a defect), tenant-unresolved, and plain insufficient role.
func (g *Guard) logDenial(r *http.Request, principalID uuid.UUID, res Resolution, required []string) {
	ctx := r.Context()

	if err := g.catalog.Verify(required...); err != nil {
		// No role could ever satisfy this requirement: the operation or
		// the catalog is wrong. Still denied (fail closed) but this must
		// not drown among routine access-control noise.
		g.log.ErrorContext(ctx, "required permission absent from catalog",
			"error", err,
			"required", required,
			"path", r.URL.Path,
		)
		return
	}

	g.log.InfoContext(ctx, "access denied",
		"principal_id", principalID,
		"tenant_id", res.TenantID,
		"role", res.Role.String(),
		"required", required,
		"reason", denialReason(res),
	)
}

func denialReason(res Resolution) string {
	if res.TenantID == uuid.Nil && !res.Resolved() {
		return audit.ReasonTenantUnresolved
	}
	return audit.ReasonPermissionDenied
}

// record emits the decision event. Failures are advisory; the request
// outcome is already settled.
func (g *Guard) record(r *http.Request, d *decision, principalID, tenantID uuid.UUID, required []string, outcome audit.Outcome, reason string) {
	event := audit.NewEvent(principalID, tenantID, strings.Join(required, " "), outcome, reason)
	event.State = string(d.state)
	if err := g.sink.Write(r.Context(), event); err != nil {
		g.log.DebugContext(r.Context(), "audit write skipped", "error", err)
	}
}

// denialBody is the uniform denial response. No permission names, no role
// hierarchy detail - the body is identical for every 403 cause.
type denialBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeDenial(w http.ResponseWriter, status int) {
	msg := "forbidden"
	if status == http.StatusUnauthorized {
		msg = "unauthorized"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(denialBody{Success: false, Error: msg})
}
