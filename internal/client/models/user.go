// Package models defines the records exchanged with the inventory server
// and persisted locally by the CLI.
package models

import "strings"

// User is the account record returned by the auth endpoints.
type User struct {
	ID                 string `json:"user_id" yaml:"user_id"`
	Email              string `json:"email" yaml:"email"`
	Name               string `json:"name" yaml:"name"`
	Picture            string `json:"picture,omitempty" yaml:"picture,omitempty"`
	SubscriptionStatus string `json:"subscription_status,omitempty" yaml:"subscription_status,omitempty"`
}

// Subscribed reports whether the account carries any subscription status.
func (u User) Subscribed() bool {
	return strings.TrimSpace(u.SubscriptionStatus) != ""
}

// DisplayName falls back to the email when no name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
