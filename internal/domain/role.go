package domain

import "time"

// Role is a named taxonomy entry for member positions (집사, 권사, 장로...).
// The colors are purely presentational.
type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BgColor   string    `json:"bg_color,omitempty"`
	TextColor string    `json:"text_color,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
