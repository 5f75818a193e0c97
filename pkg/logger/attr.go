package logger

import "log/slog"

// Error records a single error under the key "error". Nil yields an empty
// attribute, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// PrincipalID records the acting principal under the key "principal_id".
func PrincipalID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("principal_id", id)
}

// TenantID records the tenant under the key "tenant_id".
func TenantID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("tenant_id", id)
}

// Role records a role name under the key "role".
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// Permission records the permission key under check.
func Permission(key string) slog.Attr {
	return slog.String("permission", key)
}

// Outcome records an authorization decision outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// Component records the emitting component's name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
