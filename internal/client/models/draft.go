package models

import "time"

// Draft is an item form kept locally because it could not be submitted,
// typically while the visitor was not signed in. ItemID is empty for a
// create and set for an update.
type Draft struct {
	ID        string
	ItemID    string
	Input     ItemInput
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
