package domain

import "time"

// PlaceholderFamilyLabel is used when a family has no explicit name and no
// resolvable head member.
const PlaceholderFamilyLabel = "(가족명 없음)"

// Family groups members sharing a family identifier. Families are implicit:
// a member's family_id need not resolve to a Family row, and absence only
// affects the display label.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"` // optional explicit label
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label resolves the display label for a family. The explicit name wins;
// otherwise the head member's Korean name; otherwise a generic placeholder.
// family may be nil (unresolved family row), as may head.
func Label(family *Family, head *Member) string {
	if family != nil && family.Name != "" {
		return family.Name
	}
	if head != nil && head.KoreanName != "" {
		return head.KoreanName
	}
	return PlaceholderFamilyLabel
}
