package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/nav"
	"github.com/dmitrijs2005/mitteie/internal/client/notify"
	"github.com/dmitrijs2005/mitteie/internal/common"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

// ExchangeAPI trades a one-time login token for a session cookie.
type ExchangeAPI interface {
	ExchangeSession(ctx context.Context, sessionID string) (models.User, error)
}

// UserSink receives the user produced by a successful exchange.
type UserSink interface {
	Handoff(u models.User)
}

// Exchanger turns the one-time token of a login redirect into a session,
// at most once per token.
//
// Tokens are claimed before the request is sent. Only a digest of each
// claimed token is kept, so no token material outlives the call.
type Exchanger struct {
	api      ExchangeAPI
	sink     UserSink
	nav      nav.Navigator
	notifier notify.Notifier
	log      logging.Logger

	mu      sync.Mutex
	claimed map[[32]byte]struct{}
}

func NewExchanger(api ExchangeAPI, sink UserSink, n nav.Navigator, notifier notify.Notifier, log logging.Logger) *Exchanger {
	if log == nil {
		log = logging.Discard()
	}
	return &Exchanger{
		api:      api,
		sink:     sink,
		nav:      n,
		notifier: notifier,
		log:      log,
		claimed:  make(map[[32]byte]struct{}),
	}
}

// Exchange consumes the token found in loc's fragment.
//
// A duplicate call for a token already claimed returns ErrAlreadyClaimed
// without sending anything. A missing token yields ErrMissingToken and a
// failed request ErrExchangeFailed; both notify the user and replace the
// current entry with the login view. On success the user is handed to the
// sink and the current entry is replaced by the dashboard, so the fragment
// cannot be revisited.
//
// If ctx ends while the request is in flight the request still completes,
// but its result is dropped: no hand-off, no navigation.
func (e *Exchanger) Exchange(ctx context.Context, loc nav.Location) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	token := loc.FragmentValues().Get(common.SessionFragmentKey)
	if token == "" {
		e.notifier.Error("The login link is incomplete. Please sign in again.")
		e.nav.Replace(nav.At(nav.PathLogin))
		return models.User{}, ErrMissingToken
	}

	if !e.claim(token) {
		e.log.Debug(ctx, "duplicate session exchange ignored")
		return models.User{}, ErrAlreadyClaimed
	}

	u, err := e.api.ExchangeSession(context.WithoutCancel(ctx), token)
	if ctx.Err() != nil {
		e.log.Debug(ctx, "session exchange finished after the callback view closed; result dropped")
		return models.User{}, ctx.Err()
	}
	if err != nil {
		e.log.Warn(ctx, "session exchange failed", "error", err)
		e.notifier.Error("Sign-in failed. Please try again.")
		e.nav.Replace(nav.At(nav.PathLogin))
		return models.User{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	e.sink.Handoff(u)
	e.nav.Replace(nav.At(nav.PathDashboard))
	e.notifier.Success("Signed in as " + u.DisplayName())
	return u, nil
}

// claim marks token as used; it reports false when it already was.
func (e *Exchanger) claim(token string) bool {
	key := blake3.Sum256([]byte(token))

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.claimed[key]; ok {
		return false
	}
	e.claimed[key] = struct{}{}
	return true
}
