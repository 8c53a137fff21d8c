package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// RosterService computes the dashboard roster views from stored data.
type RosterService struct {
	store    store.Store
	pipeline *roster.Pipeline
	logger   *slog.Logger
}

// NewRosterService creates a new roster service.
func NewRosterService(st store.Store, pipeline *roster.Pipeline, logger *slog.Logger) *RosterService {
	return &RosterService{store: st, pipeline: pipeline, logger: logger}
}

// RosterRequest carries the dashboard query parameters. Zero values
// mean "default": active menu, ascending name sort, today's date.
type RosterRequest struct {
	Menu          string
	ActiveOnly    bool
	ParentID      string
	ChildID       string
	Search        string
	SortBy        string
	SortOrder     string
	FamilyView    bool
	RecentFrom    string // 2006-01-02, inclusive
	RecentTo      string
	BirthdayMonth int // 0=January .. 11=December
	Today         time.Time
}

// View runs the full pipeline for one dashboard query.
func (s *RosterService) View(ctx context.Context, req RosterRequest) (*roster.View, error) {
	params, err := s.buildParams(ctx, req)
	if err != nil {
		return nil, err
	}

	members, families, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	view := s.pipeline.Run(members, families, params)
	return &view, nil
}

// Summary computes the dashboard badges from the unfiltered collection.
func (s *RosterService) Summary(ctx context.Context, now time.Time) (*roster.Summary, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if now.IsZero() {
		now = time.Now()
	}
	summary := s.pipeline.Summarize(members, now)
	return &summary, nil
}

func (s *RosterService) load(ctx context.Context) ([]*domain.Member, map[string]*domain.Family, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	rows, err := s.store.ListFamilies(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list families: %w", err)
	}
	families := make(map[string]*domain.Family, len(rows))
	for _, f := range rows {
		families[f.ID] = f
	}
	return members, families, nil
}

func (s *RosterService) buildParams(ctx context.Context, req RosterRequest) (roster.Params, error) {
	params := roster.Params{
		Menu:          roster.Menu(req.Menu),
		ActiveOnly:    req.ActiveOnly,
		Search:        req.Search,
		SortBy:        roster.SortBy(req.SortBy),
		SortOrder:     roster.SortOrder(req.SortOrder),
		FamilyView:    req.FamilyView,
		BirthdayMonth: req.BirthdayMonth,
		Today:         req.Today,
	}
	if params.Menu == "" {
		params.Menu = roster.MenuActive
	}
	if params.SortBy == "" {
		params.SortBy = roster.SortByName
	}
	if params.SortOrder == "" {
		params.SortOrder = roster.SortAsc
	}
	if params.Today.IsZero() {
		params.Today = time.Now()
	}
	if req.BirthdayMonth < 0 || req.BirthdayMonth > 11 {
		return roster.Params{}, domainerrors.Validation("birthday month must be between 0 and 11")
	}

	if from := parseDate(req.RecentFrom); from != nil {
		params.RecentRange.From = *from
	}
	if to := parseDate(req.RecentTo); to != nil {
		params.RecentRange.To = *to
	}

	if params.Menu == roster.MenuFilter {
		if req.ParentID == "" || req.ChildID == "" {
			return roster.Params{}, domainerrors.Validation("filter menu requires a category selection")
		}
		filter, err := s.resolveFilter(ctx, req.ParentID, req.ChildID)
		if err != nil {
			return roster.Params{}, err
		}
		params.Filter = filter
	}
	return params, nil
}

func (s *RosterService) resolveFilter(ctx context.Context, parentID, childID string) (*roster.TaxonomyFilter, error) {
	parent, err := s.store.GetParentList(ctx, parentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("category %q not found", parentID)
		}
		return nil, err
	}
	child, err := s.store.GetChildList(ctx, childID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("category value %q not found", childID)
		}
		return nil, err
	}
	if child.ParentID != parent.ID {
		return nil, domainerrors.Validation("selected value does not belong to the selected category")
	}
	return &roster.TaxonomyFilter{Parent: *parent, Child: *child}, nil
}
