package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/id"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// TaxonomyService manages the two-level parent/child category system
// driving the sidebar filters.
type TaxonomyService struct {
	store    store.Store
	resolver *roster.Resolver
	logger   *slog.Logger
}

// NewTaxonomyService creates a new taxonomy service.
func NewTaxonomyService(st store.Store, resolver *roster.Resolver, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{store: st, resolver: resolver, logger: logger}
}

// ParentRequest carries parent taxonomy form fields.
type ParentRequest struct {
	Type      string `json:"type" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

// ChildRequest carries child entry form fields.
type ChildRequest struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order"`
	BgColor   string `json:"bg_color,omitempty"`
	TextColor string `json:"text_color,omitempty"`
	ChowonID  string `json:"chowon_id,omitempty"`
}

// ChildWithCount is a child entry plus the number of members the
// resolver places under it.
type ChildWithCount struct {
	domain.ChildList
	MemberCount int `json:"member_count"`
}

// CreateParent inserts a parent taxonomy.
func (s *TaxonomyService) CreateParent(ctx context.Context, req ParentRequest) (*domain.ParentList, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	parentID, err := id.Generate("par")
	if err != nil {
		return nil, fmt.Errorf("generate parent ID: %w", err)
	}
	now := time.Now()
	parent := &domain.ParentList{
		ID:        parentID,
		Type:      strings.TrimSpace(req.Type),
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateParentList(ctx, parent); err != nil {
		return nil, fmt.Errorf("create parent list: %w", err)
	}
	s.logger.Info("taxonomy parent created", "parent_id", parent.ID, "type", parent.Type)
	return parent, nil
}

// ListParents returns all parent taxonomies in order.
func (s *TaxonomyService) ListParents(ctx context.Context) ([]*domain.ParentList, error) {
	return s.store.ListParentLists(ctx)
}

// UpdateParent rewrites a parent taxonomy.
func (s *TaxonomyService) UpdateParent(ctx context.Context, parentID string, req ParentRequest) (*domain.ParentList, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	parent, err := s.getParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	parent.Type = strings.TrimSpace(req.Type)
	parent.Name = strings.TrimSpace(req.Name)
	parent.SortOrder = req.SortOrder
	parent.UpdatedAt = time.Now()
	if err := s.store.UpdateParentList(ctx, parent); err != nil {
		return nil, fmt.Errorf("update parent list: %w", err)
	}
	return parent, nil
}

// DeleteParent removes a parent taxonomy and all its children.
func (s *TaxonomyService) DeleteParent(ctx context.Context, parentID string) error {
	if err := s.store.DeleteParentList(ctx, parentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("parent list %q not found", parentID)
		}
		return fmt.Errorf("delete parent list: %w", err)
	}
	return nil
}

// CreateChild inserts a child entry under a parent.
func (s *TaxonomyService) CreateChild(ctx context.Context, parentID string, req ChildRequest) (*domain.ChildList, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.getParent(ctx, parentID); err != nil {
		return nil, err
	}

	childID, err := id.Generate("chl")
	if err != nil {
		return nil, fmt.Errorf("generate child ID: %w", err)
	}
	now := time.Now()
	child := &domain.ChildList{
		ID:        childID,
		ParentID:  parentID,
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
		BgColor:   req.BgColor,
		TextColor: req.TextColor,
		ChowonID:  req.ChowonID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateChildList(ctx, child); err != nil {
		return nil, fmt.Errorf("create child list: %w", err)
	}
	return child, nil
}

// ListChildren returns a parent's children in their explicit order.
func (s *TaxonomyService) ListChildren(ctx context.Context, parentID string) ([]*domain.ChildList, error) {
	return s.store.ListChildrenByParent(ctx, parentID)
}

// ListChildrenWithCounts returns a parent's children together with
// their member counts, computed with the same matching rules the
// filter pipeline uses so sidebar counts line up with filter results.
func (s *TaxonomyService) ListChildrenWithCounts(ctx context.Context, parentID string) ([]ChildWithCount, error) {
	parent, err := s.getParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	children, err := s.store.ListChildrenByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ChildWithCount, 0, len(children))
	for _, child := range children {
		count := 0
		for _, m := range members {
			if s.resolver.Matches(*parent, child.Name, m) {
				count++
			}
		}
		out = append(out, ChildWithCount{ChildList: *child, MemberCount: count})
	}
	return out, nil
}

// UpdateChild rewrites a child entry.
func (s *TaxonomyService) UpdateChild(ctx context.Context, childID string, req ChildRequest) (*domain.ChildList, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	child, err := s.getChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	child.Name = strings.TrimSpace(req.Name)
	child.SortOrder = req.SortOrder
	child.BgColor = req.BgColor
	child.TextColor = req.TextColor
	child.ChowonID = req.ChowonID
	child.UpdatedAt = time.Now()
	if err := s.store.UpdateChildList(ctx, child); err != nil {
		return nil, fmt.Errorf("update child list: %w", err)
	}
	return child, nil
}

// ReorderChildren rewrites the explicit order of a parent's children.
func (s *TaxonomyService) ReorderChildren(ctx context.Context, parentID string, orderedIDs []string) ([]*domain.ChildList, error) {
	if len(orderedIDs) == 0 {
		return nil, domainerrors.Validation("ordered_ids cannot be empty")
	}
	if _, err := s.getParent(ctx, parentID); err != nil {
		return nil, err
	}
	if err := s.store.ReorderChildLists(ctx, parentID, orderedIDs); err != nil {
		return nil, err
	}
	return s.store.ListChildrenByParent(ctx, parentID)
}

// DeleteChild removes a single child entry.
func (s *TaxonomyService) DeleteChild(ctx context.Context, childID string) error {
	if err := s.store.DeleteChildList(ctx, childID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("child list %q not found", childID)
		}
		return fmt.Errorf("delete child list: %w", err)
	}
	return nil
}

// DeleteChildren removes every child under a parent, keeping the
// parent itself.
func (s *TaxonomyService) DeleteChildren(ctx context.Context, parentID string) error {
	if _, err := s.getParent(ctx, parentID); err != nil {
		return err
	}
	return s.store.DeleteChildrenByParent(ctx, parentID)
}

func (s *TaxonomyService) getParent(ctx context.Context, parentID string) (*domain.ParentList, error) {
	parent, err := s.store.GetParentList(ctx, parentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("parent list %q not found", parentID)
	}
	return parent, err
}

func (s *TaxonomyService) getChild(ctx context.Context, childID string) (*domain.ChildList, error) {
	child, err := s.store.GetChildList(ctx, childID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("child list %q not found", childID)
	}
	return child, err
}
