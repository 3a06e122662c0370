package auth

import "errors"

var (
	// ErrAuthRequired blocks an action that needs a signed-in user.
	ErrAuthRequired = errors.New("authentication required")

	ErrMissingToken   = errors.New("login token missing from callback")
	ErrExchangeFailed = errors.New("session exchange failed")
	ErrAlreadyClaimed = errors.New("login token already being exchanged")
)
