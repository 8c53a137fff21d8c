package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerChowonRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listChowons",
		Method:      http.MethodGet,
		Path:        "/api/v1/chowons",
		Summary:     "List chowons",
		Description: "Returns all chowon groups with their assigned mokjang entries",
		Tags:        []string{"Chowons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChowons)

	huma.Register(s.api, huma.Operation{
		OperationID: "createChowon",
		Method:      http.MethodPost,
		Path:        "/api/v1/chowons",
		Summary:     "Create chowon",
		Description: "Creates a chowon group",
		Tags:        []string{"Chowons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateChowon)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateChowon",
		Method:      http.MethodPatch,
		Path:        "/api/v1/chowons/{id}",
		Summary:     "Update chowon",
		Description: "Rewrites a chowon's fields",
		Tags:        []string{"Chowons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateChowon)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteChowon",
		Method:      http.MethodDelete,
		Path:        "/api/v1/chowons/{id}",
		Summary:     "Delete chowon",
		Description: "Deletes a chowon group",
		Tags:        []string{"Chowons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteChowon)
}

// === DTOs ===

// ChowonResponse contains chowon data plus its assigned mokjang entries.
type ChowonResponse struct {
	ID        string              `json:"id" doc:"Chowon ID"`
	Name      string              `json:"name" doc:"Chowon name"`
	Leader    string              `json:"leader,omitempty" doc:"Pastor or leader display name"`
	SortOrder int                 `json:"sort_order" doc:"Display order"`
	Mokjangs  []ChildListResponse `json:"mokjangs" doc:"Mokjang entries assigned to this chowon"`
	CreatedAt time.Time           `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time           `json:"updated_at" doc:"Last update time"`
}

// ListChowonsInput contains parameters for listing chowons.
type ListChowonsInput struct {
	Authorization string `header:"Authorization"`
}

// ListChowonsResponse contains a list of chowons.
type ListChowonsResponse struct {
	Chowons []ChowonResponse `json:"chowons" doc:"List of chowon groups"`
}

// ListChowonsOutput wraps the list chowons response for Huma.
type ListChowonsOutput struct {
	Body ListChowonsResponse
}

// CreateChowonInput wraps the create chowon request for Huma.
type CreateChowonInput struct {
	Authorization string `header:"Authorization"`
	Body          service.ChowonRequest
}

// ChowonOutput wraps a single chowon response for Huma.
type ChowonOutput struct {
	Body ChowonResponse
}

// UpdateChowonInput wraps the update chowon request for Huma.
type UpdateChowonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Chowon ID"`
	Body          service.ChowonRequest
}

// DeleteChowonInput identifies a chowon for deletion.
type DeleteChowonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Chowon ID"`
}

// === Handlers ===

func (s *Server) handleListChowons(ctx context.Context, input *ListChowonsInput) (*ListChowonsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	details, err := s.services.Chowon.ListChowonsWithMokjangs(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ChowonResponse, len(details))
	for i, d := range details {
		mokjangs := make([]ChildListResponse, len(d.Mokjangs))
		for j, m := range d.Mokjangs {
			mokjangs[j] = mapChildResponse(m, 0)
		}
		resp[i] = mapChowonResponse(&d.Chowon)
		resp[i].Mokjangs = mokjangs
	}

	return &ListChowonsOutput{Body: ListChowonsResponse{Chowons: resp}}, nil
}

func (s *Server) handleCreateChowon(ctx context.Context, input *CreateChowonInput) (*ChowonOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Chowon.CreateChowon(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &ChowonOutput{Body: mapChowonResponse(c)}, nil
}

func (s *Server) handleUpdateChowon(ctx context.Context, input *UpdateChowonInput) (*ChowonOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Chowon.UpdateChowon(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ChowonOutput{Body: mapChowonResponse(c)}, nil
}

func (s *Server) handleDeleteChowon(ctx context.Context, input *DeleteChowonInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Chowon.DeleteChowon(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Chowon deleted"}}, nil
}

// === Helpers ===

func mapChowonResponse(c *domain.Chowon) ChowonResponse {
	return ChowonResponse{
		ID:        c.ID,
		Name:      c.Name,
		Leader:    c.Leader,
		SortOrder: c.SortOrder,
		Mokjangs:  []ChildListResponse{},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
