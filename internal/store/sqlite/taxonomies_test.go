package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

func testParent(id, typ, name string, order int) *domain.ParentList {
	now := time.Now().UTC()
	return &domain.ParentList{
		ID: id, Type: typ, Name: name, SortOrder: order,
		CreatedAt: now, UpdatedAt: now,
	}
}

func testChild(id, parentID, name string, order int) *domain.ChildList {
	now := time.Now().UTC()
	return &domain.ChildList{
		ID: id, ParentID: parentID, Name: name, SortOrder: order,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestParentListCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testParent("par-1", domain.TaxonomyMokjang, "목장", 0)
	if err := s.CreateParentList(ctx, p); err != nil {
		t.Fatalf("create parent: %v", err)
	}

	got, err := s.GetParentList(ctx, "par-1")
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if got.Type != domain.TaxonomyMokjang || got.Name != "목장" {
		t.Errorf("got %q/%q", got.Type, got.Name)
	}

	got.Name = "우리 목장"
	got.UpdatedAt = time.Now().UTC()
	if err := s.UpdateParentList(ctx, got); err != nil {
		t.Fatalf("update parent: %v", err)
	}

	if err := s.DeleteParentList(ctx, "par-1"); err != nil {
		t.Fatalf("delete parent: %v", err)
	}
	if _, err := s.GetParentList(ctx, "par-1"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChildListOrderingAndReorder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testParent("par-1", domain.TaxonomyMokjang, "목장", 0)
	if err := s.CreateParentList(ctx, p); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	for i, name := range []string{"사랑", "은혜", "믿음"} {
		if err := s.CreateChildList(ctx, testChild("ch-"+name, "par-1", name, i)); err != nil {
			t.Fatalf("create child %s: %v", name, err)
		}
	}

	children, err := s.ListChildrenByParent(ctx, "par-1")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 3 || children[0].Name != "사랑" {
		t.Fatalf("initial order wrong: %v", childNames(children))
	}

	// Move 믿음 to the front.
	if err := s.ReorderChildLists(ctx, "par-1", []string{"ch-믿음", "ch-사랑", "ch-은혜"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	children, err = s.ListChildrenByParent(ctx, "par-1")
	if err != nil {
		t.Fatalf("re-list children: %v", err)
	}
	if children[0].Name != "믿음" {
		t.Errorf("after reorder: %v", childNames(children))
	}

	// Reordering with a child from another parent rolls back.
	if err := s.ReorderChildLists(ctx, "par-1", []string{"ch-믿음", "ch-other"}); err == nil {
		t.Error("expected error for foreign child id")
	}
}

func TestDeleteChildrenByParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateParentList(ctx, testParent("par-1", domain.TaxonomyTag, "태그", 0)); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	for i, name := range []string{"새가족", "청년부"} {
		if err := s.CreateChildList(ctx, testChild("ch-"+name, "par-1", name, i)); err != nil {
			t.Fatalf("create child: %v", err)
		}
	}

	if err := s.DeleteChildrenByParent(ctx, "par-1"); err != nil {
		t.Fatalf("delete children: %v", err)
	}
	children, err := s.ListChildrenByParent(ctx, "par-1")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("got %d children, want 0", len(children))
	}
}

func TestDeleteParentCascadesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateParentList(ctx, testParent("par-1", domain.TaxonomyRole, "직분", 0)); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if err := s.CreateChildList(ctx, testChild("ch-1", "par-1", "집사", 0)); err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := s.DeleteParentList(ctx, "par-1"); err != nil {
		t.Fatalf("delete parent: %v", err)
	}
	if _, err := s.GetChildList(ctx, "ch-1"); err != store.ErrNotFound {
		t.Errorf("expected cascade delete, got %v", err)
	}
}

func TestUpdateChildChowon(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateParentList(ctx, testParent("par-1", domain.TaxonomyMokjang, "목장", 0)); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if err := s.CreateChildList(ctx, testChild("ch-1", "par-1", "사랑", 0)); err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := s.UpdateChildChowon(ctx, "ch-1", "cho-1"); err != nil {
		t.Fatalf("update chowon link: %v", err)
	}
	got, err := s.GetChildList(ctx, "ch-1")
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if got.ChowonID != "cho-1" {
		t.Errorf("chowon id = %q, want cho-1", got.ChowonID)
	}
}

func childNames(children []*domain.ChildList) []string {
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return names
}
