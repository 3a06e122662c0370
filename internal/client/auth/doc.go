// Package auth owns who the current visitor is.
//
// StatusCache holds the tri-state AuthState (Unknown, Authenticated,
// Anonymous). It settles once per lifetime, either from a hand-off or from
// a single shared status check, and is reset to Unknown only by Reset.
// Logout always lands in Anonymous.
//
// Exchanger consumes the one-time token of an external login redirect.
// It runs before any other view for a location whose fragment carries
// session_id (see nav.Resolve), claims the token before sending it and
// hands the resulting user to the cache.
//
// Consumers receive the cache through the context (WithStatus,
// StatusFromContext) rather than a package variable.
package auth
