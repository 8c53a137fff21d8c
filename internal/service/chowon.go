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
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// ChowonService manages the supervisory groupings above mokjang units.
type ChowonService struct {
	store  store.Store
	logger *slog.Logger
}

// NewChowonService creates a new chowon service.
func NewChowonService(st store.Store, logger *slog.Logger) *ChowonService {
	return &ChowonService{store: st, logger: logger}
}

// ChowonRequest carries chowon form fields.
type ChowonRequest struct {
	Name      string `json:"name" validate:"required"`
	Leader    string `json:"leader,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// ChowonDetail is a chowon plus the mokjang entries assigned to it.
type ChowonDetail struct {
	domain.Chowon
	Mokjangs []*domain.ChildList `json:"mokjangs"`
}

// CreateChowon inserts a chowon group.
func (s *ChowonService) CreateChowon(ctx context.Context, req ChowonRequest) (*domain.Chowon, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	chowonID, err := id.Generate("cho")
	if err != nil {
		return nil, fmt.Errorf("generate chowon ID: %w", err)
	}
	now := time.Now()
	chowon := &domain.Chowon{
		ID:        chowonID,
		Name:      strings.TrimSpace(req.Name),
		Leader:    strings.TrimSpace(req.Leader),
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateChowon(ctx, chowon); err != nil {
		return nil, fmt.Errorf("create chowon: %w", err)
	}
	return chowon, nil
}

// ListChowons returns all chowon groups in their explicit order.
func (s *ChowonService) ListChowons(ctx context.Context) ([]*domain.Chowon, error) {
	return s.store.ListChowons(ctx)
}

// ListChowonsWithMokjangs returns each chowon with the mokjang child
// entries currently linked to it, for the org-chart view.
func (s *ChowonService) ListChowonsWithMokjangs(ctx context.Context) ([]ChowonDetail, error) {
	chowons, err := s.store.ListChowons(ctx)
	if err != nil {
		return nil, err
	}
	children, err := s.store.ListChildLists(ctx)
	if err != nil {
		return nil, err
	}

	byChowon := map[string][]*domain.ChildList{}
	for _, c := range children {
		if c.ChowonID != "" {
			byChowon[c.ChowonID] = append(byChowon[c.ChowonID], c)
		}
	}

	out := make([]ChowonDetail, 0, len(chowons))
	for _, ch := range chowons {
		mokjangs := byChowon[ch.ID]
		if mokjangs == nil {
			mokjangs = []*domain.ChildList{}
		}
		out = append(out, ChowonDetail{Chowon: *ch, Mokjangs: mokjangs})
	}
	return out, nil
}

// UpdateChowon rewrites a chowon's fields.
func (s *ChowonService) UpdateChowon(ctx context.Context, chowonID string, req ChowonRequest) (*domain.Chowon, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	chowon, err := s.store.GetChowon(ctx, chowonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("chowon %q not found", chowonID)
		}
		return nil, err
	}
	chowon.Name = strings.TrimSpace(req.Name)
	chowon.Leader = strings.TrimSpace(req.Leader)
	chowon.SortOrder = req.SortOrder
	chowon.UpdatedAt = time.Now()
	if err := s.store.UpdateChowon(ctx, chowon); err != nil {
		return nil, fmt.Errorf("update chowon: %w", err)
	}
	return chowon, nil
}

// DeleteChowon removes a chowon group.
func (s *ChowonService) DeleteChowon(ctx context.Context, chowonID string) error {
	if err := s.store.DeleteChowon(ctx, chowonID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("chowon %q not found", chowonID)
		}
		return fmt.Errorf("delete chowon: %w", err)
	}
	return nil
}
