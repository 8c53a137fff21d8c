package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerAssignmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "applyAssignment",
		Method:      http.MethodPost,
		Path:        "/api/v1/assignments",
		Summary:     "Apply org-chart assignment",
		Description: "Applies one drag-and-drop assignment: member onto mokjang, or mokjang onto chowon. Unsupported pairings are quietly ignored.",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApplyAssignment)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadAssignments",
		Method:      http.MethodPost,
		Path:        "/api/v1/assignments/reload",
		Summary:     "Reload org-chart board",
		Description: "Replaces the board's working copy with current store data. No-op while a write is pending.",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReloadAssignments)
}

// === DTOs ===

// ApplyAssignmentInput wraps one drop event for Huma.
type ApplyAssignmentInput struct {
	Authorization string `header:"Authorization"`
	Body          service.AssignmentRequest
}

// AssignmentResponse reports what one drop did.
type AssignmentResponse struct {
	Applied bool   `json:"applied" doc:"Whether the pairing was supported and persisted"`
	State   string `json:"state" doc:"Board state after the drop"`
}

// AssignmentOutput wraps the assignment response for Huma.
type AssignmentOutput struct {
	Body AssignmentResponse
}

// ReloadAssignmentsInput contains the auth header.
type ReloadAssignmentsInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleApplyAssignment(ctx context.Context, input *ApplyAssignmentInput) (*AssignmentOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Assignment.Apply(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &AssignmentOutput{Body: AssignmentResponse{
		Applied: result.Applied,
		State:   result.State,
	}}, nil
}

func (s *Server) handleReloadAssignments(ctx context.Context, input *ReloadAssignmentsInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Assignment.Reload(ctx); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Board reloaded"}}, nil
}
