package auth

import "github.com/dmitrijs2005/mitteie/internal/client/models"

// Status is the tri-state of the current visitor.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// AuthState is an immutable snapshot. The user record is only present when
// the status is StatusAuthenticated.
type AuthState struct {
	status Status
	user   models.User
}

func Unknown() AuthState   { return AuthState{status: StatusUnknown} }
func Anonymous() AuthState { return AuthState{status: StatusAnonymous} }

func Authenticated(u models.User) AuthState {
	return AuthState{status: StatusAuthenticated, user: u}
}

func (s AuthState) Status() Status { return s.status }

// Resolved reports whether gated decisions may be taken.
func (s AuthState) Resolved() bool { return s.status != StatusUnknown }

func (s AuthState) IsAuthenticated() bool { return s.status == StatusAuthenticated }

// User returns the signed-in user; ok is false unless authenticated.
func (s AuthState) User() (u models.User, ok bool) {
	return s.user, s.status == StatusAuthenticated
}

func (s AuthState) String() string {
	if s.status == StatusAuthenticated {
		return "authenticated as " + s.user.DisplayName()
	}
	return s.status.String()
}

// StateReader exposes the current snapshot. *StatusCache implements it.
type StateReader interface {
	State() AuthState
}

// RequireUser returns the signed-in user or ErrAuthRequired. Unknown counts
// as not signed in: nothing gated runs while the state is loading.
func RequireUser(r StateReader) (models.User, error) {
	u, ok := r.State().User()
	if !ok {
		return models.User{}, ErrAuthRequired
	}
	return u, nil
}
