// Package services composes the client building blocks into the use cases
// the CLI exposes: signing in and out, and keeping item forms that could
// not be submitted.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

// AuthService covers the password flows and the local session lifetime.
//
//   - Login/Signup: authenticate against the server and hand the user to
//     the auth cache.
//   - Logout: end the server session and wipe every local trace of it.
//   - LastSignIn: the account that signed in most recently on this machine.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	Signup(ctx context.Context, email, name string, password []byte) (models.User, error)
	Logout(ctx context.Context) error
	LastSignIn(ctx context.Context) (SignIn, bool, error)
}

// SignIn is the remembered account and when it signed in.
type SignIn struct {
	User models.User
	At   time.Time
}

// CredentialsAPI is the part of the server client used here.
type CredentialsAPI interface {
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	Signup(ctx context.Context, email, name string, password []byte) (models.User, error)
}

// SessionCache is implemented by *auth.StatusCache.
type SessionCache interface {
	Handoff(u models.User)
	Logout(ctx context.Context) error
}

// CookieStore is implemented by *session.PersistentJar.
type CookieStore interface {
	Clear(ctx context.Context) error
}

type authService struct {
	api     CredentialsAPI
	cache   SessionCache
	cookies CookieStore
	meta    metadata.Repository
	log     logging.Logger
}

func NewAuthService(api CredentialsAPI, cache SessionCache, cookies CookieStore, meta metadata.Repository, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{api: api, cache: cache, cookies: cookies, meta: meta, log: log}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}
	a.signedIn(ctx, u)
	return u, nil
}

func (a *authService) Signup(ctx context.Context, email, name string, password []byte) (models.User, error) {
	u, err := a.api.Signup(ctx, email, name, password)
	if err != nil {
		return models.User{}, fmt.Errorf("signup error: %w", err)
	}
	a.signedIn(ctx, u)
	return u, nil
}

// signedIn adopts u. Failing to remember the last user is not fatal.
func (a *authService) signedIn(ctx context.Context, u models.User) {
	a.cache.Handoff(u)
	if err := metadata.StoreJSON(ctx, a.meta, metadata.KeyLastUser, u); err != nil {
		a.log.Warn(ctx, "failed to remember last user", "error", err)
	}
}

// Logout always clears the local session. Errors from the server and from
// the local store are joined and returned for display.
func (a *authService) Logout(ctx context.Context) error {
	var errs []error
	if err := a.cache.Logout(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.cookies.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear cookies: %w", err))
	}
	n, err := a.meta.DeletePrefix(ctx, metadata.SessionPrefix)
	if err != nil {
		errs = append(errs, fmt.Errorf("clear session data: %w", err))
	}
	a.log.Debug(ctx, "local session data removed", "keys", n)
	return errors.Join(errs...)
}

// LastSignIn reports the user remembered by the last password sign-in and
// when it happened. Logout forgets it.
func (a *authService) LastSignIn(ctx context.Context) (SignIn, bool, error) {
	rec, ok, err := a.meta.Lookup(ctx, metadata.KeyLastUser)
	if err != nil || !ok {
		return SignIn{}, false, err
	}
	var u models.User
	if err := json.Unmarshal(rec.Value, &u); err != nil {
		return SignIn{}, false, fmt.Errorf("decode last user: %w", err)
	}
	return SignIn{User: u, At: rec.UpdatedAt}, true, nil
}
