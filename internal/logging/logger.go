// Package logging is the structured logger every mitteie component takes
// as a dependency. Components receive a Logger and never construct slog
// handlers themselves; the CLI root picks the sink and level once.
package logging

import "context"

// Logger writes leveled records with key-value attributes:
//
//	log.Warn(ctx, "payment check failed", "attempt", n, "error", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
