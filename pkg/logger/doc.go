// Package logger configures slog for the authorization engine: a factory
// with functional options, attribute constructors for the domain's keys,
// and a handler decorator that injects context-scoped attributes (the
// acting principal, the resolved tenant) into every record.
//
//	log := logger.New(
//		logger.WithAttr(slog.String("service", "authzkit")),
//		logger.WithContextExtractors(
//			authz.PrincipalLogExtractor(),
//			authz.TenantLogExtractor(),
//		),
//	)
package logger
