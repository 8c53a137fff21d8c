package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerRosterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRoster",
		Method:      http.MethodGet,
		Path:        "/api/v1/roster",
		Summary:     "Roster view",
		Description: "Runs the dashboard pipeline: menu filter, active filter, search, family expansion, and sorting",
		Tags:        []string{"Roster"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRoster)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRosterSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/roster/summary",
		Summary:     "Roster summary",
		Description: "Returns the dashboard badges computed from the unfiltered collection",
		Tags:        []string{"Roster"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRosterSummary)
}

// === DTOs ===

// GetRosterInput contains the dashboard query parameters.
type GetRosterInput struct {
	Authorization string `header:"Authorization"`
	Menu          string `query:"menu" enum:"active,birthdays,recent,filter,settings" default:"active" doc:"Dashboard menu"`
	ActiveOnly    bool   `query:"active_only" doc:"Show only Active members (ignored for the filter menu)"`
	ParentID      string `query:"parent_id" doc:"Selected filter category, filter menu only"`
	ChildID       string `query:"child_id" doc:"Selected filter value, filter menu only"`
	Search        string `query:"search" doc:"Name or phone-digit search"`
	SortBy        string `query:"sort_by" enum:"name,age,birthday,recent" default:"name" doc:"Default-path sort key"`
	SortOrder     string `query:"sort_order" enum:"asc,desc" default:"asc" doc:"Sort direction"`
	FamilyView    bool   `query:"family_view" doc:"Expand results to whole families"`
	RecentFrom    string `query:"recent_from" doc:"Registration range start (2006-01-02)"`
	RecentTo      string `query:"recent_to" doc:"Registration range end (2006-01-02)"`
	BirthdayMonth int    `query:"birthday_month" minimum:"0" maximum:"11" doc:"Birthday menu month, 0=January"`
}

// FamilyCardResponse is one entry of the distinct-family list.
type FamilyCardResponse struct {
	ID    string `json:"id" doc:"Family ID"`
	Label string `json:"label" doc:"Resolved display label"`
}

// RosterResponse contains one pipeline run's output.
type RosterResponse struct {
	Members   []MemberResponse     `json:"members" doc:"Filtered and sorted members"`
	FamilyIDs []string             `json:"family_ids" doc:"Distinct family IDs before family expansion"`
	Families  []FamilyCardResponse `json:"families" doc:"Family cards sorted by label"`
}

// RosterOutput wraps the roster response for Huma.
type RosterOutput struct {
	Body RosterResponse
}

// GetRosterSummaryInput contains the auth header.
type GetRosterSummaryInput struct {
	Authorization string `header:"Authorization"`
}

// RosterSummaryResponse contains the dashboard badges.
type RosterSummaryResponse struct {
	TotalMembers       int `json:"total_members" doc:"All members"`
	TotalFamilies      int `json:"total_families" doc:"All distinct families"`
	ActiveMembers      int `json:"active_members" doc:"Members with Active status"`
	ActiveFamilies     int `json:"active_families" doc:"Families with at least one active member"`
	BirthdaysThisMonth int `json:"birthdays_this_month" doc:"Members with a birthday this month"`
}

// RosterSummaryOutput wraps the summary response for Huma.
type RosterSummaryOutput struct {
	Body RosterSummaryResponse
}

// === Handlers ===

func (s *Server) handleGetRoster(ctx context.Context, input *GetRosterInput) (*RosterOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	view, err := s.services.Roster.View(ctx, service.RosterRequest{
		Menu:          input.Menu,
		ActiveOnly:    input.ActiveOnly,
		ParentID:      input.ParentID,
		ChildID:       input.ChildID,
		Search:        input.Search,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
		FamilyView:    input.FamilyView,
		RecentFrom:    input.RecentFrom,
		RecentTo:      input.RecentTo,
		BirthdayMonth: input.BirthdayMonth,
	})
	if err != nil {
		return nil, err
	}

	today := time.Now()
	members := make([]MemberResponse, len(view.Members))
	for i, m := range view.Members {
		members[i] = mapMemberResponse(m, today)
	}
	families := make([]FamilyCardResponse, len(view.Families))
	for i, f := range view.Families {
		families[i] = FamilyCardResponse{ID: f.ID, Label: f.Label}
	}

	return &RosterOutput{Body: RosterResponse{
		Members:   members,
		FamilyIDs: view.FamilyIDs,
		Families:  families,
	}}, nil
}

func (s *Server) handleGetRosterSummary(ctx context.Context, input *GetRosterSummaryInput) (*RosterSummaryOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	summary, err := s.services.Roster.Summary(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	return &RosterSummaryOutput{Body: RosterSummaryResponse{
		TotalMembers:       summary.TotalMembers,
		TotalFamilies:      summary.TotalFamilies,
		ActiveMembers:      summary.ActiveMembers,
		ActiveFamilies:     summary.ActiveFamilies,
		BirthdaysThisMonth: summary.BirthdaysThisMonth,
	}}, nil
}
