// Package model defines the data structures shared across the application
// layers. Struct tags drive the JSON shapes the API exposes.
package model

import "time"

// Snippet is a saved piece of playground code. Language is one of the
// executor's catalog identifiers so a loaded snippet can be re-run as-is.
// UserID is empty for snippets saved anonymously.
type Snippet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	UserID      string    `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
