package domain

import "time"

// Built-in parent list types. The Type field is a free string because admins
// can retype categories at runtime; these are the four kinds the resolver
// knows how to fall back on.
const (
	TaxonomyMokjang = "mokjang"
	TaxonomyRole    = "role"
	TaxonomyStatus  = "status"
	TaxonomyTag     = "tag"
)

// ParentList is the top level of the admin-configurable two-level taxonomy
// driving the sidebar filters. Type tags what member attribute the category
// is about; Name is the display label shown to admins.
type ParentList struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChildList is a selectable value under a parent taxonomy (e.g. a specific
// mokjang name). Ordering is explicit and user-adjustable. ChowonID links a
// mokjang-type child to its supervising chowon group; it is empty for other
// taxonomy kinds.
type ChildList struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	BgColor   string    `json:"bg_color,omitempty"`
	TextColor string    `json:"text_color,omitempty"`
	ChowonID  string    `json:"chowon_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
