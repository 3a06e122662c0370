package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/mitteie/internal/client/client"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

// StatusAPI is the part of the server the cache talks to.
type StatusAPI interface {
	Me(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
}

// StatusCache owns the auth state of the running client. It is written by
// its own resolution and logout paths and by Handoff; everything else
// reads snapshots.
//
// Every write that starts a new lifetime (Handoff, Logout, Reset) bumps a
// generation counter. A status check started in an older generation never
// overwrites the newer state.
type StatusCache struct {
	api StatusAPI
	log logging.Logger

	mu    sync.RWMutex
	state AuthState
	gen   uint64

	flight singleflight.Group
}

func NewStatusCache(api StatusAPI, log logging.Logger) *StatusCache {
	if log == nil {
		log = logging.Discard()
	}
	return &StatusCache{api: api, log: log, state: Unknown()}
}

// State returns the current snapshot. Unknown means "still loading".
func (c *StatusCache) State() AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Resolve settles the state. A handed-off user is adopted without a
// request; otherwise one GET /api/auth/me is shared by every concurrent
// caller. A failed check means Anonymous and is not an error. The only
// error is ctx ending before the check completes; the check itself keeps
// running and still settles the state for later callers.
func (c *StatusCache) Resolve(ctx context.Context) (AuthState, error) {
	c.mu.RLock()
	state, gen := c.state, c.gen
	c.mu.RUnlock()
	if state.Resolved() {
		return state, nil
	}

	reqCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fmt.Sprintf("me:%d", gen), func() (any, error) {
		return c.check(reqCtx, gen), nil
	})

	select {
	case res := <-ch:
		return res.Val.(AuthState), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

func (c *StatusCache) check(ctx context.Context, gen uint64) AuthState {
	next := Anonymous()
	u, err := c.api.Me(ctx)
	switch {
	case err == nil:
		next = Authenticated(u)
	case errors.Is(err, client.ErrUnauthorized):
		c.log.Debug(ctx, "not signed in")
	default:
		c.log.Warn(ctx, "status check failed, treating visitor as anonymous", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// a newer lifetime began while the check was in flight
		if c.state.Resolved() {
			return c.state
		}
		return next
	}
	if !c.state.Resolved() {
		c.state = next
	}
	return c.state
}

// Handoff adopts the user produced by a login or session exchange.
func (c *StatusCache) Handoff(u models.User) {
	c.mu.Lock()
	c.state = Authenticated(u)
	c.gen++
	c.mu.Unlock()
}

// Logout asks the server to end the session and then, whatever the answer,
// drops the local user. The returned error is informational only.
func (c *StatusCache) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)

	c.mu.Lock()
	c.state = Anonymous()
	c.gen++
	c.mu.Unlock()

	if err != nil {
		c.log.Warn(ctx, "server logout failed, local session cleared anyway", "error", err)
		return fmt.Errorf("server logout: %w", err)
	}
	return nil
}

// Refresh re-reads the signed-in user, typically after a payment changed
// the subscription. It is a no-op unless authenticated and keeps the
// current state when the check fails.
func (c *StatusCache) Refresh(ctx context.Context) (AuthState, error) {
	c.mu.RLock()
	state, gen := c.state, c.gen
	c.mu.RUnlock()
	if !state.IsAuthenticated() {
		return state, nil
	}

	u, err := c.api.Me(ctx)
	if err != nil {
		return state, fmt.Errorf("refresh user: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.state.IsAuthenticated() {
		c.state = Authenticated(u)
	}
	return c.state, nil
}

// Reset starts a new lifetime in the Unknown state.
func (c *StatusCache) Reset() {
	c.mu.Lock()
	c.state = Unknown()
	c.gen++
	c.mu.Unlock()
}
