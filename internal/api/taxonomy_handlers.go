package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerTaxonomyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listParentLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/taxonomies",
		Summary:     "List parent taxonomies",
		Description: "Returns the sidebar filter categories in sort order",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListParents)

	huma.Register(s.api, huma.Operation{
		OperationID: "createParentList",
		Method:      http.MethodPost,
		Path:        "/api/v1/taxonomies",
		Summary:     "Create parent taxonomy",
		Description: "Creates a filter category",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateParent)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateParentList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/taxonomies/{id}",
		Summary:     "Update parent taxonomy",
		Description: "Rewrites a filter category's fields",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateParent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteParentList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/taxonomies/{id}",
		Summary:     "Delete parent taxonomy",
		Description: "Deletes a filter category and its child entries",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteParent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChildLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/taxonomies/{id}/children",
		Summary:     "List child entries",
		Description: "Returns a category's selectable values with member counts",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChildren)

	huma.Register(s.api, huma.Operation{
		OperationID: "createChildList",
		Method:      http.MethodPost,
		Path:        "/api/v1/taxonomies/{id}/children",
		Summary:     "Create child entry",
		Description: "Adds a selectable value under a category",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateChild)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderChildLists",
		Method:      http.MethodPut,
		Path:        "/api/v1/taxonomies/{id}/children/order",
		Summary:     "Reorder child entries",
		Description: "Persists an explicit ordering of a category's values",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderChildren)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteChildLists",
		Method:      http.MethodDelete,
		Path:        "/api/v1/taxonomies/{id}/children",
		Summary:     "Delete all child entries",
		Description: "Removes every value under a category",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteChildren)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateChildList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/taxonomy-children/{id}",
		Summary:     "Update child entry",
		Description: "Rewrites one selectable value",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateChild)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteChildList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/taxonomy-children/{id}",
		Summary:     "Delete child entry",
		Description: "Removes one selectable value",
		Tags:        []string{"Taxonomies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteChild)
}

// === DTOs ===

// ParentListResponse contains parent taxonomy data.
type ParentListResponse struct {
	ID        string    `json:"id" doc:"Parent taxonomy ID"`
	Type      string    `json:"type" doc:"Category kind (mokjang, role, status, tag)"`
	Name      string    `json:"name" doc:"Display name"`
	SortOrder int       `json:"sort_order" doc:"Display order"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ChildListResponse contains child entry data plus its member count.
type ChildListResponse struct {
	ID          string    `json:"id" doc:"Child entry ID"`
	ParentID    string    `json:"parent_id" doc:"Parent taxonomy ID"`
	Name        string    `json:"name" doc:"Display name"`
	SortOrder   int       `json:"sort_order" doc:"Display order"`
	BgColor     string    `json:"bg_color,omitempty" doc:"Badge background color"`
	TextColor   string    `json:"text_color,omitempty" doc:"Badge text color"`
	ChowonID    string    `json:"chowon_id,omitempty" doc:"Supervising chowon, mokjang entries only"`
	MemberCount int       `json:"member_count" doc:"Members matching this value"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListParentsInput contains parameters for listing parent taxonomies.
type ListParentsInput struct {
	Authorization string `header:"Authorization"`
}

// ListParentsResponse contains a list of parent taxonomies.
type ListParentsResponse struct {
	Taxonomies []ParentListResponse `json:"taxonomies" doc:"List of filter categories"`
}

// ListParentsOutput wraps the list parents response for Huma.
type ListParentsOutput struct {
	Body ListParentsResponse
}

// CreateParentInput wraps the create parent request for Huma.
type CreateParentInput struct {
	Authorization string `header:"Authorization"`
	Body          service.ParentRequest
}

// ParentOutput wraps a single parent response for Huma.
type ParentOutput struct {
	Body ParentListResponse
}

// ParentIDInput identifies a parent taxonomy.
type ParentIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Parent taxonomy ID"`
}

// UpdateParentInput wraps the update parent request for Huma.
type UpdateParentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Parent taxonomy ID"`
	Body          service.ParentRequest
}

// ListChildrenResponse contains a category's values.
type ListChildrenResponse struct {
	Children []ChildListResponse `json:"children" doc:"Selectable values in sort order"`
}

// ListChildrenOutput wraps the list children response for Huma.
type ListChildrenOutput struct {
	Body ListChildrenResponse
}

// CreateChildInput wraps the create child request for Huma.
type CreateChildInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Parent taxonomy ID"`
	Body          service.ChildRequest
}

// ChildOutput wraps a single child response for Huma.
type ChildOutput struct {
	Body ChildListResponse
}

// ReorderChildrenRequest is the request body for reordering values.
type ReorderChildrenRequest struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1" doc:"Child IDs in the desired order"`
}

// ReorderChildrenInput wraps the reorder request for Huma.
type ReorderChildrenInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Parent taxonomy ID"`
	Body          ReorderChildrenRequest
}

// ChildIDInput identifies a child entry.
type ChildIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Child entry ID"`
}

// UpdateChildInput wraps the update child request for Huma.
type UpdateChildInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Child entry ID"`
	Body          service.ChildRequest
}

// === Handlers ===

func (s *Server) handleListParents(ctx context.Context, input *ListParentsInput) (*ListParentsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	parents, err := s.services.Taxonomy.ListParents(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ParentListResponse, len(parents))
	for i, p := range parents {
		resp[i] = mapParentResponse(p)
	}

	return &ListParentsOutput{Body: ListParentsResponse{Taxonomies: resp}}, nil
}

func (s *Server) handleCreateParent(ctx context.Context, input *CreateParentInput) (*ParentOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Taxonomy.CreateParent(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &ParentOutput{Body: mapParentResponse(p)}, nil
}

func (s *Server) handleUpdateParent(ctx context.Context, input *UpdateParentInput) (*ParentOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Taxonomy.UpdateParent(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ParentOutput{Body: mapParentResponse(p)}, nil
}

func (s *Server) handleDeleteParent(ctx context.Context, input *ParentIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Taxonomy.DeleteParent(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Taxonomy deleted"}}, nil
}

func (s *Server) handleListChildren(ctx context.Context, input *ParentIDInput) (*ListChildrenOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	children, err := s.services.Taxonomy.ListChildrenWithCounts(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ChildListResponse, len(children))
	for i, c := range children {
		resp[i] = mapChildResponse(&c.ChildList, c.MemberCount)
	}

	return &ListChildrenOutput{Body: ListChildrenResponse{Children: resp}}, nil
}

func (s *Server) handleCreateChild(ctx context.Context, input *CreateChildInput) (*ChildOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Taxonomy.CreateChild(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ChildOutput{Body: mapChildResponse(c, 0)}, nil
}

func (s *Server) handleReorderChildren(ctx context.Context, input *ReorderChildrenInput) (*ListChildrenOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	children, err := s.services.Taxonomy.ReorderChildren(ctx, input.ID, input.Body.OrderedIDs)
	if err != nil {
		return nil, err
	}

	resp := make([]ChildListResponse, len(children))
	for i, c := range children {
		resp[i] = mapChildResponse(c, 0)
	}

	return &ListChildrenOutput{Body: ListChildrenResponse{Children: resp}}, nil
}

func (s *Server) handleDeleteChildren(ctx context.Context, input *ParentIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Taxonomy.DeleteChildren(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Child entries deleted"}}, nil
}

func (s *Server) handleUpdateChild(ctx context.Context, input *UpdateChildInput) (*ChildOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	c, err := s.services.Taxonomy.UpdateChild(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ChildOutput{Body: mapChildResponse(c, 0)}, nil
}

func (s *Server) handleDeleteChild(ctx context.Context, input *ChildIDInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Taxonomy.DeleteChild(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Child entry deleted"}}, nil
}

// === Helpers ===

func mapParentResponse(p *domain.ParentList) ParentListResponse {
	return ParentListResponse{
		ID:        p.ID,
		Type:      p.Type,
		Name:      p.Name,
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func mapChildResponse(c *domain.ChildList, memberCount int) ChildListResponse {
	return ChildListResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		SortOrder:   c.SortOrder,
		BgColor:     c.BgColor,
		TextColor:   c.TextColor,
		ChowonID:    c.ChowonID,
		MemberCount: memberCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
