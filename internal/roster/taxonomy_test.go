package roster

import (
	"testing"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

func TestResolver_DirectField(t *testing.T) {
	r := NewResolver(DefaultFallbackKeywords())
	m := &domain.Member{
		KoreanName: "김철수",
		Mokjang:    "사랑 목장",
		Role:       "집사",
		Status:     "Active",
		Tags:       []string{"청년부", "찬양팀"},
	}

	tests := []struct {
		name   string
		parent domain.ParentList
		child  string
		want   bool
	}{
		{"mokjang exact", domain.ParentList{Type: "mokjang"}, "사랑 목장", true},
		{"mokjang whitespace-insensitive", domain.ParentList{Type: "mokjang"}, "사랑목장", true},
		{"mokjang case-insensitive type", domain.ParentList{Type: " Mokjang "}, "사랑 목장", true},
		{"role", domain.ParentList{Type: "role"}, "집사", true},
		{"tags array element", domain.ParentList{Type: "tags"}, "찬양팀", true},
		{"status case-insensitive value", domain.ParentList{Type: "status"}, "active", true},
		{"non-member value", domain.ParentList{Type: "mokjang"}, "은혜 목장", false},
		{"unknown type no keywords", domain.ParentList{Type: "building", Name: "건물"}, "본관", false},
		{"empty child name", domain.ParentList{Type: "mokjang"}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Matches(tc.parent, tc.child, m); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolver_KeywordFallback(t *testing.T) {
	r := NewResolver(DefaultFallbackKeywords())
	m := &domain.Member{Mokjang: "은혜 목장", Role: "권사", Tags: []string{"새가족"}}

	// The admin renamed the type string, but the display name still
	// carries a recognizable keyword.
	cellLike := domain.ParentList{Type: "group", Name: "우리 목장 목록"}
	if !r.Matches(cellLike, "은혜목장", m) {
		t.Error("display-name keyword should route to the mokjang field")
	}

	roleLike := domain.ParentList{Type: "position", Name: "Positions"}
	if !r.Matches(roleLike, "권사", m) {
		t.Error("english keyword should route to the role field")
	}

	tagLike := domain.ParentList{Type: "custom", Name: "태그 모음"}
	if !r.Matches(tagLike, "새가족", m) {
		t.Error("tag keyword should route to the tag set")
	}
}

func TestResolver_NilMember(t *testing.T) {
	r := NewResolver(DefaultFallbackKeywords())
	if r.Matches(domain.ParentList{Type: "mokjang"}, "사랑", nil) {
		t.Error("nil member should never match")
	}
}
