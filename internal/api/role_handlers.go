package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerRoleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRoles",
		Method:      http.MethodGet,
		Path:        "/api/v1/roles",
		Summary:     "List roles",
		Description: "Returns all church roles in sort order",
		Tags:        []string{"Roles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRoles)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRole",
		Method:      http.MethodPost,
		Path:        "/api/v1/roles",
		Summary:     "Create role",
		Description: "Creates a named church role",
		Tags:        []string{"Roles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRole",
		Method:      http.MethodPatch,
		Path:        "/api/v1/roles/{id}",
		Summary:     "Update role",
		Description: "Rewrites a role's fields",
		Tags:        []string{"Roles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRole",
		Method:      http.MethodDelete,
		Path:        "/api/v1/roles/{id}",
		Summary:     "Delete role",
		Description: "Deletes a role",
		Tags:        []string{"Roles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRole)
}

// === DTOs ===

// RoleResponse contains role data in API responses.
type RoleResponse struct {
	ID        string    `json:"id" doc:"Role ID"`
	Name      string    `json:"name" doc:"Role name"`
	BgColor   string    `json:"bg_color,omitempty" doc:"Badge background color"`
	TextColor string    `json:"text_color,omitempty" doc:"Badge text color"`
	SortOrder int       `json:"sort_order" doc:"Display order"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListRolesInput contains parameters for listing roles.
type ListRolesInput struct {
	Authorization string `header:"Authorization"`
}

// ListRolesResponse contains a list of roles.
type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles" doc:"List of roles"`
}

// ListRolesOutput wraps the list roles response for Huma.
type ListRolesOutput struct {
	Body ListRolesResponse
}

// CreateRoleInput wraps the create role request for Huma.
type CreateRoleInput struct {
	Authorization string `header:"Authorization"`
	Body          service.RoleRequest
}

// RoleOutput wraps a single role response for Huma.
type RoleOutput struct {
	Body RoleResponse
}

// UpdateRoleInput wraps the update role request for Huma.
type UpdateRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Role ID"`
	Body          service.RoleRequest
}

// DeleteRoleInput identifies a role for deletion.
type DeleteRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Role ID"`
}

// === Handlers ===

func (s *Server) handleListRoles(ctx context.Context, input *ListRolesInput) (*ListRolesOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	roles, err := s.services.Role.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]RoleResponse, len(roles))
	for i, r := range roles {
		resp[i] = mapRoleResponse(r)
	}

	return &ListRolesOutput{Body: ListRolesResponse{Roles: resp}}, nil
}

func (s *Server) handleCreateRole(ctx context.Context, input *CreateRoleInput) (*RoleOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	r, err := s.services.Role.CreateRole(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &RoleOutput{Body: mapRoleResponse(r)}, nil
}

func (s *Server) handleUpdateRole(ctx context.Context, input *UpdateRoleInput) (*RoleOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	r, err := s.services.Role.UpdateRole(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &RoleOutput{Body: mapRoleResponse(r)}, nil
}

func (s *Server) handleDeleteRole(ctx context.Context, input *DeleteRoleInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Role.DeleteRole(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Role deleted"}}, nil
}

// === Helpers ===

func mapRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		ID:        r.ID,
		Name:      r.Name,
		BgColor:   r.BgColor,
		TextColor: r.TextColor,
		SortOrder: r.SortOrder,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
