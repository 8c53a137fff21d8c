package roster

import (
	"strings"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

// FallbackKeywords configures the heuristic taxonomy matching used
// when a parent list's type string does not name a member field
// directly. Admins rename categories at runtime, so the keyword sets
// are configuration rather than hardcoded logic.
type FallbackKeywords struct {
	Mokjang []string
	Role    []string
	Status  []string
	Tag     []string
}

// DefaultFallbackKeywords covers the four built-in taxonomy kinds in
// both Korean and English.
func DefaultFallbackKeywords() FallbackKeywords {
	return FallbackKeywords{
		Mokjang: []string{"mokjang", "cell", "목장", "셀"},
		Role:    []string{"role", "position", "직분", "역할"},
		Status:  []string{"status", "상태"},
		Tag:     []string{"tag", "태그"},
	}
}

// fieldValues maps a normalized taxonomy type to the member values it
// selects. Array-valued fields return every element.
var fieldValues = map[string]func(m *domain.Member) []string{
	"mokjang":      func(m *domain.Member) []string { return []string{m.Mokjang} },
	"role":         func(m *domain.Member) []string { return []string{m.Role} },
	"status":       func(m *domain.Member) []string { return []string{m.Status} },
	"tag":          func(m *domain.Member) []string { return m.Tags },
	"tags":         func(m *domain.Member) []string { return m.Tags },
	"relationship": func(m *domain.Member) []string { return []string{m.Relationship} },
	"gender":       func(m *domain.Member) []string { return []string{string(m.Gender)} },
}

// Resolver decides whether a member belongs to a child category of a
// parent taxonomy. Matching first tries the explicit field accessor
// for the parent's type, then falls back to keyword heuristics over
// the type and display name. Unknown types never match; they are not
// errors.
type Resolver struct {
	keywords FallbackKeywords
}

func NewResolver(keywords FallbackKeywords) *Resolver {
	return &Resolver{keywords: keywords}
}

// Matches reports whether m falls under the child category named
// childName of the given parent taxonomy.
func (r *Resolver) Matches(parent domain.ParentList, childName string, m *domain.Member) bool {
	if m == nil {
		return false
	}
	want := normalizeValue(childName)
	if want == "" {
		return false
	}

	typ := strings.ToLower(strings.TrimSpace(parent.Type))
	if values, ok := fieldValues[typ]; ok {
		if matchAny(values(m), want) {
			return true
		}
	}

	// Heuristic fallback keyed on the type string or the display
	// name, so admin-renamed categories keep resolving.
	haystack := typ + " " + strings.ToLower(parent.Name)
	switch {
	case containsAny(haystack, r.keywords.Mokjang):
		return matchAny([]string{m.Mokjang}, want)
	case containsAny(haystack, r.keywords.Role):
		return matchAny([]string{m.Role}, want)
	case containsAny(haystack, r.keywords.Status):
		return matchAny([]string{m.Status}, want)
	case containsAny(haystack, r.keywords.Tag):
		return matchAny(m.Tags, want)
	}
	return false
}

// normalizeValue lowers, trims, and strips all internal whitespace,
// so taxonomy display names may diverge cosmetically from stored
// member values.
func normalizeValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

func matchAny(values []string, want string) bool {
	for _, v := range values {
		if normalizeValue(v) == want {
			return true
		}
	}
	return false
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
