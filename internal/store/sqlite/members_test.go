package sqlite

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

func testMember(id string) *domain.Member {
	now := time.Now().UTC().Truncate(time.Millisecond)
	birthday := time.Date(1985, time.March, 12, 0, 0, 0, 0, time.UTC)
	registered := time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC)
	return &domain.Member{
		ID:               id,
		FamilyID:         "fam-1",
		KoreanName:       "김철수",
		EnglishName:      "Chulsoo Kim",
		Gender:           domain.GenderMale,
		Birthday:         &birthday,
		Phone:            "604-555-1234",
		Email:            "chulsoo@example.com",
		Relationship:     "head",
		Role:             "집사",
		Mokjang:          "사랑 목장",
		RegistrationDate: &registered,
		Baptized:         true,
		Status:           domain.StatusActive,
		Tags:             []string{"청년부", "찬양팀"},
		Memo:             "[2024-01-15 09:00] 새가족 등록",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestMemberCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testMember("mem-1")
	if err := s.CreateMember(ctx, m); err != nil {
		t.Fatalf("create member: %v", err)
	}

	got, err := s.GetMember(ctx, "mem-1")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.KoreanName != m.KoreanName || got.Mokjang != m.Mokjang {
		t.Errorf("got %q/%q, want %q/%q", got.KoreanName, got.Mokjang, m.KoreanName, m.Mokjang)
	}
	if !reflect.DeepEqual(got.Tags, m.Tags) {
		t.Errorf("tags = %v, want %v", got.Tags, m.Tags)
	}
	if got.Birthday == nil || !got.Birthday.Equal(*m.Birthday) {
		t.Errorf("birthday = %v, want %v", got.Birthday, m.Birthday)
	}
	if !got.Baptized {
		t.Error("baptized flag lost")
	}

	got.Status = domain.StatusInactive
	got.UpdatedAt = time.Now().UTC()
	if err := s.UpdateMember(ctx, got); err != nil {
		t.Fatalf("update member: %v", err)
	}
	got, err = s.GetMember(ctx, "mem-1")
	if err != nil {
		t.Fatalf("re-get member: %v", err)
	}
	if got.Status != domain.StatusInactive {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusInactive)
	}

	if err := s.DeleteMember(ctx, "mem-1"); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	if _, err := s.GetMember(ctx, "mem-1"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetMember_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetMember(context.Background(), "mem-missing"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMember_NilTagsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testMember("mem-2")
	m.Tags = nil
	if err := s.CreateMember(ctx, m); err != nil {
		t.Fatalf("create member: %v", err)
	}

	got, err := s.GetMember(ctx, "mem-2")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", got.Tags)
	}
}

func TestListMembersByFamily(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testMember("mem-a")
	b := testMember("mem-b")
	b.KoreanName = "김영희"
	c := testMember("mem-c")
	c.FamilyID = "fam-2"

	for _, m := range []*domain.Member{a, b, c} {
		if err := s.CreateMember(ctx, m); err != nil {
			t.Fatalf("create member %s: %v", m.ID, err)
		}
	}

	got, err := s.ListMembersByFamily(ctx, "fam-1")
	if err != nil {
		t.Fatalf("list by family: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d members, want 2", len(got))
	}

	all, err := s.ListMembers(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d members, want 3", len(all))
	}
}

func TestUpdateMemberFieldHelpers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testMember("mem-3")
	if err := s.CreateMember(ctx, m); err != nil {
		t.Fatalf("create member: %v", err)
	}

	if err := s.UpdateMemberMokjang(ctx, "mem-3", "은혜 목장"); err != nil {
		t.Fatalf("update mokjang: %v", err)
	}
	if err := s.UpdateMemberMemo(ctx, "mem-3", "[2024-02-01 10:00] 이사"); err != nil {
		t.Fatalf("update memo: %v", err)
	}
	if err := s.UpdateMemberTags(ctx, "mem-3", []string{"새가족"}); err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if err := s.UpdateMemberPhoto(ctx, "mem-3", "photos/abc.webp", "LKO2?U%2Tw=w"); err != nil {
		t.Fatalf("update photo: %v", err)
	}

	got, err := s.GetMember(ctx, "mem-3")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.Mokjang != "은혜 목장" {
		t.Errorf("mokjang = %q", got.Mokjang)
	}
	if got.Memo != "[2024-02-01 10:00] 이사" {
		t.Errorf("memo = %q", got.Memo)
	}
	if !reflect.DeepEqual(got.Tags, []string{"새가족"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.PhotoPath != "photos/abc.webp" || got.PhotoBlurHash == "" {
		t.Errorf("photo fields = %q/%q", got.PhotoPath, got.PhotoBlurHash)
	}

	// Field helpers on a missing member report not found.
	if err := s.UpdateMemberMokjang(ctx, "mem-missing", "x"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
