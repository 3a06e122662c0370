// Package common contains shared constants and small helpers used across
// mitteie client components.
package common

// SessionFragmentKey is the key of the one-time login token inside the
// navigation fragment (#session_id=...). It is also the query key of the
// checkout session id on the payment return URL.
const SessionFragmentKey = "session_id"

// RequestIDHeaderName carries the per-request correlation id on outbound
// HTTP requests.
const RequestIDHeaderName = "X-Request-ID"

// DefaultCurrency is applied to items saved without an explicit currency.
const DefaultCurrency = "NOK"
