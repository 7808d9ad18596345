package pg

import "context"

// logger is the minimal structured-logging surface this package needs.
// *slog.Logger satisfies it; goose migration output is routed through it
// instead of stdout.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
