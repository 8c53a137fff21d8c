package domain

import (
	"strings"
	"time"
)

// Gender is a member's registered gender.
type Gender string

// Gender values. Unset is valid: many legacy rows never recorded one.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderUnset  Gender = ""
)

// Conventional status values. Status is a free string at the storage level;
// these are the values the dashboard filters understand.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

// PlaceholderName is substituted when a row arrives without a Korean name.
// It must be visibly wrong so broken rows surface in the UI instead of
// silently disappearing.
const PlaceholderName = "(이름 없음)"

// Member is a person record in the congregation.
type Member struct {
	ID               string     `json:"id"`
	FamilyID         string     `json:"family_id,omitempty"` // empty = not grouped into a family
	KoreanName       string     `json:"korean_name"`         // never empty after normalization
	EnglishName      string     `json:"english_name,omitempty"`
	Gender           Gender     `json:"gender,omitempty"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	Address          string     `json:"address,omitempty"`
	Relationship     string     `json:"relationship,omitempty"` // "head"/"self"/"spouse"/"son"/"daughter"/free text
	Role             string     `json:"role,omitempty"`         // references a Role by name
	Mokjang          string     `json:"mokjang,omitempty"`      // cell group name
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Baptized         bool       `json:"baptized"`
	BaptismDate      *time.Time `json:"baptism_date,omitempty"`
	Status           string     `json:"status,omitempty"`
	OfferingNumber   string     `json:"offering_number,omitempty"`
	SlipReference    string     `json:"slip_reference,omitempty"`
	Tags             []string   `json:"tags"` // never nil; may carry upstream duplicates
	Memo             string     `json:"memo,omitempty"`
	PhotoPath        string     `json:"photo_path,omitempty"`
	PhotoBlurHash    string     `json:"photo_blurhash,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsActive reports whether the member's status is the conventional "Active".
// Comparison is case-insensitive to tolerate hand-entered values.
func (m *Member) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(m.Status), StatusActive)
}

// IsHead reports whether this member is the family's primary registered
// member. Both "head" and "self" mark the representative.
func (m *Member) IsHead() bool {
	rel := strings.ToLower(strings.TrimSpace(m.Relationship))
	return rel == "head" || rel == "self"
}

// UniqueTags returns the member's tags de-duplicated, preserving first-seen
// order. The raw Tags slice may contain duplicates from upstream imports.
func (m *Member) UniqueTags() []string {
	seen := make(map[string]bool, len(m.Tags))
	out := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// HasTag reports whether the member carries the given tag,
// compared case-insensitively after trimming.
func (m *Member) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range m.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			return true
		}
	}
	return false
}
