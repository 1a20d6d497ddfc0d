// Package logging defines the structured logger shared by the HTTP layer and
// the services. The default implementation writes JSON through log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs, e.g.:
//
//	log.Info(ctx, "user provisioned", "user_id", id, "role", role)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
