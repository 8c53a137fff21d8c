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
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// FamilyService manages family rows and label resolution.
type FamilyService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFamilyService creates a new family service.
func NewFamilyService(st store.Store, logger *slog.Logger) *FamilyService {
	return &FamilyService{store: st, logger: logger}
}

// FamilyDetail is a family row plus its members and resolved label.
type FamilyDetail struct {
	Family  *domain.Family   `json:"family,omitempty"`
	ID      string           `json:"id"`
	Label   string           `json:"label"`
	Members []*domain.Member `json:"members"`
}

// CreateFamily inserts a family with an optional explicit name.
func (s *FamilyService) CreateFamily(ctx context.Context, familyID, name string) (*domain.Family, error) {
	now := time.Now()
	family := &domain.Family{
		ID:        familyID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("create family: %w", err)
	}
	s.logger.Info("family created", "family_id", family.ID)
	return family, nil
}

// ListFamilies returns all explicit family rows.
func (s *FamilyService) ListFamilies(ctx context.Context) ([]*domain.Family, error) {
	return s.store.ListFamilies(ctx)
}

// GetFamily returns a family with its members and display label.
// Family identifiers need not resolve to a row; an unknown ID with
// members still yields a detail with a fallback label.
func (s *FamilyService) GetFamily(ctx context.Context, familyID string) (*FamilyDetail, error) {
	members, err := s.store.ListMembersByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}

	family, err := s.store.GetFamily(ctx, familyID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if family == nil && len(members) == 0 {
		return nil, domainerrors.NotFoundf("family %q not found", familyID)
	}

	var head *domain.Member
	for _, m := range members {
		if m.IsHead() {
			head = m
			break
		}
	}

	return &FamilyDetail{
		Family:  family,
		ID:      familyID,
		Label:   domain.Label(family, head),
		Members: members,
	}, nil
}

// UpdateFamily renames a family.
func (s *FamilyService) UpdateFamily(ctx context.Context, familyID, name string) (*domain.Family, error) {
	family, err := s.store.GetFamily(ctx, familyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("family %q not found", familyID)
		}
		return nil, err
	}
	family.Name = strings.TrimSpace(name)
	family.UpdatedAt = time.Now()
	if err := s.store.UpdateFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("update family: %w", err)
	}
	return family, nil
}

// DeleteFamily removes a family row. Members keep their family_id.
func (s *FamilyService) DeleteFamily(ctx context.Context, familyID string) error {
	if err := s.store.DeleteFamily(ctx, familyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("family %q not found", familyID)
		}
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}
