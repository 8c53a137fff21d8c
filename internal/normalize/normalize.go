// Package normalize coerces raw backend rows into canonical domain records.
//
// Rows arrive as loosely-typed maps: numeric IDs, null tags, missing names,
// stringly-typed booleans. Normalization is total — it never returns an
// error. A row that cannot be repaired at all comes back as a sentinel
// member with a visible error-marker name, so a bad import produces a
// visibly-broken dashboard row instead of a crash.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

// ErrorMarkerName tags the sentinel member produced when normalization
// panics on malformed input.
const ErrorMarkerName = "(오류: 손상된 행)"

// Member coerces a raw row into a fully-populated domain.Member.
// Every field gets a deterministic default. Never panics outward.
func Member(raw map[string]any) (m *domain.Member) {
	defer func() {
		if r := recover(); r != nil {
			m = &domain.Member{
				KoreanName: ErrorMarkerName,
				Tags:       []string{},
			}
		}
	}()

	if raw == nil {
		return &domain.Member{
			KoreanName: domain.PlaceholderName,
			Tags:       []string{},
		}
	}

	m = &domain.Member{
		ID:               String(raw["id"]),
		FamilyID:         String(raw["family_id"]),
		KoreanName:       String(raw["korean_name"]),
		EnglishName:      String(raw["english_name"]),
		Gender:           gender(raw["gender"]),
		Birthday:         Time(raw["birthday"]),
		Phone:            String(raw["phone"]),
		Email:            String(raw["email"]),
		Address:          String(raw["address"]),
		Relationship:     String(raw["relationship"]),
		Role:             String(raw["role"]),
		Mokjang:          String(raw["mokjang"]),
		RegistrationDate: Time(raw["registration_date"]),
		Baptized:         Bool(raw["baptized"]),
		BaptismDate:      Time(raw["baptism_date"]),
		Status:           String(raw["status"]),
		OfferingNumber:   String(raw["offering_number"]),
		SlipReference:    String(raw["slip_reference"]),
		Tags:             Tags(raw["tags"]),
		Memo:             String(raw["memo"]),
		PhotoPath:        String(raw["photo_path"]),
		PhotoBlurHash:    String(raw["photo_blurhash"]),
	}

	if t := Time(raw["created_at"]); t != nil {
		m.CreatedAt = *t
	}
	if t := Time(raw["updated_at"]); t != nil {
		m.UpdatedAt = *t
	}

	if strings.TrimSpace(m.KoreanName) == "" {
		m.KoreanName = domain.PlaceholderName
	}

	return m
}

// String coerces a raw value to a string. Numeric IDs from the backend
// (JSON numbers decode as float64) are rendered without a decimal point.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// Bool coerces a raw value to a bool, accepting the usual string spellings.
func Bool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "true" || s == "1" || s == "yes" || s == "y"
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}

// timeLayouts are tried in order when parsing date fields.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// Time parses a raw date value. Returns nil for absent or unparseable input.
func Time(v any) *time.Time {
	s := String(v)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Tags coerces a raw tags value to a non-nil string slice. Null and
// undefined become an empty slice; upstream duplicates are preserved
// (de-duplication happens at render time).
func Tags(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, 0, len(val))
		for _, t := range val {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := String(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Some legacy rows stored tags as a comma-joined string.
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{}
	}
}

func gender(v any) domain.Gender {
	switch strings.ToLower(String(v)) {
	case "male", "m", "남", "남자":
		return domain.GenderMale
	case "female", "f", "여", "여자":
		return domain.GenderFemale
	default:
		return domain.GenderUnset
	}
}
