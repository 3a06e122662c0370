// Package client is the transport of the mitteie CLI.
//
// HTTPClient implements the Client contract against the inventory server's
// JSON API: the session exchange, status check and logout, password
// login and signup, item CRUD, checkout and payment status, and the asset
// upload signature. Credentials are cookies, so the caller supplies an
// http.Client with a jar (see package session for the persistent one).
//
// Every request carries an X-Request-ID correlation id. Only method, path,
// status and that id are logged.
//
// # Errors
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are *StatusError
// values that unwrap to ErrUnauthorized (401/403), ErrNotFound (404) or
// ErrUnavailable (5xx), so callers match them with errors.Is.
//
// The package also bootstraps the local SQLite store (InitDatabase,
// RunMigrations, NewRepositories).
package client
