package domain

import "time"

// Chowon is a supervisory grouping of several mokjang units, each with an
// assigned pastor or leader.
type Chowon struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Leader    string    `json:"leader,omitempty"` // pastor/leader display name
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
