package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/id"
)

func (s *Server) registerFamilyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFamilies",
		Method:      http.MethodGet,
		Path:        "/api/v1/families",
		Summary:     "List families",
		Description: "Returns all family rows",
		Tags:        []string{"Families"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFamilies)

	huma.Register(s.api, huma.Operation{
		OperationID: "createFamily",
		Method:      http.MethodPost,
		Path:        "/api/v1/families",
		Summary:     "Create family",
		Description: "Creates a family with an optional explicit name",
		Tags:        []string{"Families"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateFamily)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFamily",
		Method:      http.MethodGet,
		Path:        "/api/v1/families/{id}",
		Summary:     "Get family",
		Description: "Returns a family with its members and resolved display label",
		Tags:        []string{"Families"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFamily)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFamily",
		Method:      http.MethodPatch,
		Path:        "/api/v1/families/{id}",
		Summary:     "Update family",
		Description: "Renames a family",
		Tags:        []string{"Families"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateFamily)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFamily",
		Method:      http.MethodDelete,
		Path:        "/api/v1/families/{id}",
		Summary:     "Delete family",
		Description: "Removes a family row; members keep their family_id",
		Tags:        []string{"Families"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteFamily)
}

// === DTOs ===

// FamilyResponse contains family data in API responses.
type FamilyResponse struct {
	ID        string    `json:"id" doc:"Family ID"`
	Name      string    `json:"name,omitempty" doc:"Explicit family name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListFamiliesInput contains parameters for listing families.
type ListFamiliesInput struct {
	Authorization string `header:"Authorization"`
}

// ListFamiliesResponse contains a list of families.
type ListFamiliesResponse struct {
	Families []FamilyResponse `json:"families" doc:"List of families"`
}

// ListFamiliesOutput wraps the list families response for Huma.
type ListFamiliesOutput struct {
	Body ListFamiliesResponse
}

// FamilyRequest is the request body for creating or renaming a family.
type FamilyRequest struct {
	Name string `json:"name,omitempty" validate:"omitempty,max=200" doc:"Explicit family name"`
}

// CreateFamilyInput wraps the create family request for Huma.
type CreateFamilyInput struct {
	Authorization string `header:"Authorization"`
	Body          FamilyRequest
}

// FamilyOutput wraps a single family response for Huma.
type FamilyOutput struct {
	Body FamilyResponse
}

// GetFamilyInput contains parameters for getting a family.
type GetFamilyInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Family ID"`
}

// UpdateFamilyInput wraps the rename family request for Huma.
type UpdateFamilyInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Family ID"`
	Body          FamilyRequest
}

// FamilyDetailResponse contains a family plus its members and label.
type FamilyDetailResponse struct {
	ID      string           `json:"id" doc:"Family ID"`
	Label   string           `json:"label" doc:"Resolved display label"`
	Family  *FamilyResponse  `json:"family,omitempty" doc:"Family row, absent for implicit families"`
	Members []MemberResponse `json:"members" doc:"Members sharing the family ID"`
}

// FamilyDetailOutput wraps the family detail response for Huma.
type FamilyDetailOutput struct {
	Body FamilyDetailResponse
}

// === Handlers ===

func (s *Server) handleListFamilies(ctx context.Context, input *ListFamiliesInput) (*ListFamiliesOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	families, err := s.services.Family.ListFamilies(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]FamilyResponse, len(families))
	for i, f := range families {
		resp[i] = mapFamilyResponse(f)
	}

	return &ListFamiliesOutput{Body: ListFamiliesResponse{Families: resp}}, nil
}

func (s *Server) handleCreateFamily(ctx context.Context, input *CreateFamilyInput) (*FamilyOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	familyID, err := id.Generate("fam")
	if err != nil {
		return nil, err
	}
	f, err := s.services.Family.CreateFamily(ctx, familyID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &FamilyOutput{Body: mapFamilyResponse(f)}, nil
}

func (s *Server) handleGetFamily(ctx context.Context, input *GetFamilyInput) (*FamilyDetailOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	detail, err := s.services.Family.GetFamily(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	members := make([]MemberResponse, len(detail.Members))
	for i, m := range detail.Members {
		members[i] = mapMemberResponse(m, today)
	}

	resp := FamilyDetailResponse{
		ID:      detail.ID,
		Label:   detail.Label,
		Members: members,
	}
	if detail.Family != nil {
		f := mapFamilyResponse(detail.Family)
		resp.Family = &f
	}

	return &FamilyDetailOutput{Body: resp}, nil
}

func (s *Server) handleUpdateFamily(ctx context.Context, input *UpdateFamilyInput) (*FamilyOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	f, err := s.services.Family.UpdateFamily(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &FamilyOutput{Body: mapFamilyResponse(f)}, nil
}

func (s *Server) handleDeleteFamily(ctx context.Context, input *GetFamilyInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Family.DeleteFamily(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Family deleted"}}, nil
}

// === Helpers ===

func mapFamilyResponse(f *domain.Family) FamilyResponse {
	return FamilyResponse{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
