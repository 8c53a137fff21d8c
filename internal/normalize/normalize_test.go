package normalize

import (
	"testing"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

func TestMember_Defaults(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"nil row", nil},
		{"empty row", map[string]any{}},
		{"null fields", map[string]any{
			"id":          nil,
			"korean_name": nil,
			"tags":        nil,
			"birthday":    nil,
		}},
		{"wrong types", map[string]any{
			"id":          12345.0,
			"korean_name": 99,
			"tags":        42,
			"birthday":    "definitely not a date",
			"baptized":    "banana",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Member(tt.raw)
			if m == nil {
				t.Fatal("Member returned nil")
			}
			if m.Tags == nil {
				t.Error("Tags must never be nil")
			}
			if m.KoreanName == "" {
				t.Error("KoreanName must never be empty after normalization")
			}
		})
	}
}

func TestMember_NumericIDCoercion(t *testing.T) {
	m := Member(map[string]any{
		"id":          1042.0, // JSON numbers decode as float64
		"family_id":   77.0,
		"korean_name": "김철수",
	})

	if m.ID != "1042" {
		t.Errorf("ID: got %q, want %q", m.ID, "1042")
	}
	if m.FamilyID != "77" {
		t.Errorf("FamilyID: got %q, want %q", m.FamilyID, "77")
	}
}

func TestMember_FullRow(t *testing.T) {
	m := Member(map[string]any{
		"id":                "mem-abc",
		"family_id":         "fam-1",
		"korean_name":       "이영희",
		"english_name":      "Younghee Lee",
		"gender":            "Female",
		"birthday":          "1985-03-15",
		"phone":             "604-555-1234",
		"relationship":      "head",
		"mokjang":           "사랑 목장",
		"registration_date": "2020-01-05",
		"baptized":          true,
		"status":            "Active",
		"tags":              []any{"새가족", "찬양팀", "새가족"},
	})

	if m.KoreanName != "이영희" {
		t.Errorf("KoreanName: got %q", m.KoreanName)
	}
	if m.Gender != domain.GenderFemale {
		t.Errorf("Gender: got %q", m.Gender)
	}
	if m.Birthday == nil || m.Birthday.Year() != 1985 {
		t.Errorf("Birthday: got %v", m.Birthday)
	}
	if !m.Baptized {
		t.Error("Baptized: got false")
	}
	if !m.IsHead() {
		t.Error("IsHead: got false for relationship=head")
	}
	if len(m.Tags) != 3 {
		t.Errorf("Tags: got %d entries, want 3 (dupes preserved)", len(m.Tags))
	}
	if got := m.UniqueTags(); len(got) != 2 {
		t.Errorf("UniqueTags: got %v, want 2 entries", got)
	}
}

func TestTags_Coercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"nil", nil, 0},
		{"string slice", []string{"a", "b"}, 2},
		{"any slice", []any{"a", 1.0}, 2},
		{"comma string", "a, b, c", 3},
		{"blank entries dropped", []any{"a", "", "  "}, 1},
		{"garbage", 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.in)
			if got == nil {
				t.Fatal("Tags returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("got %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestTime_Formats(t *testing.T) {
	for _, s := range []string{"2024-06-01", "2024/06/01", "2024.06.01", "2024-06-01T10:30:00Z"} {
		if Time(s) == nil {
			t.Errorf("Time(%q) = nil, want parsed", s)
		}
	}
	for _, s := range []string{"", "unknown", "31-31-2024"} {
		if got := Time(s); got != nil {
			t.Errorf("Time(%q) = %v, want nil", s, got)
		}
	}
}
