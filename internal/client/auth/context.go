package auth

import "context"

var statusCtxKey = &contextKey{"auth-status"}

type contextKey struct {
	name string
}

// WithStatus returns a context carrying the status cache.
func WithStatus(ctx context.Context, c *StatusCache) context.Context {
	return context.WithValue(ctx, statusCtxKey, c)
}

// StatusFromContext finds the status cache in ctx.
func StatusFromContext(ctx context.Context) (*StatusCache, bool) {
	c, ok := ctx.Value(statusCtxKey).(*StatusCache)
	return c, ok && c != nil
}

// StateFromContext is a shortcut for the current state; Unknown when no
// cache is attached.
func StateFromContext(ctx context.Context) AuthState {
	if c, ok := StatusFromContext(ctx); ok {
		return c.State()
	}
	return Unknown()
}
