package handle

import (
	"context"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/domain/model"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	loggerKey
)

func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the caller set by the auth middleware.
func PrincipalFrom(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

func WithLogger(ctx context.Context, log mylogger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// loggerFrom prefers the request logger, which carries the request id.
func loggerFrom(ctx context.Context, fallback mylogger.Logger) mylogger.Logger {
	if l, ok := ctx.Value(loggerKey).(mylogger.Logger); ok {
		return l
	}
	return fallback
}
