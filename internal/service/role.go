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

// RoleService manages the role taxonomy and its display colors.
type RoleService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRoleService creates a new role service.
func NewRoleService(st store.Store, logger *slog.Logger) *RoleService {
	return &RoleService{store: st, logger: logger}
}

// RoleRequest carries role form fields.
type RoleRequest struct {
	Name      string `json:"name" validate:"required"`
	BgColor   string `json:"bg_color,omitempty"`
	TextColor string `json:"text_color,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// CreateRole inserts a role.
func (s *RoleService) CreateRole(ctx context.Context, req RoleRequest) (*domain.Role, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	roleID, err := id.Generate("role")
	if err != nil {
		return nil, fmt.Errorf("generate role ID: %w", err)
	}
	now := time.Now()
	role := &domain.Role{
		ID:        roleID,
		Name:      strings.TrimSpace(req.Name),
		BgColor:   req.BgColor,
		TextColor: req.TextColor,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// ListRoles returns all roles in their explicit order.
func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.store.ListRoles(ctx)
}

// UpdateRole rewrites a role's fields.
func (s *RoleService) UpdateRole(ctx context.Context, roleID string, req RoleRequest) (*domain.Role, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	role, err := s.store.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("role %q not found", roleID)
		}
		return nil, err
	}
	role.Name = strings.TrimSpace(req.Name)
	role.BgColor = req.BgColor
	role.TextColor = req.TextColor
	role.SortOrder = req.SortOrder
	role.UpdatedAt = time.Now()
	if err := s.store.UpdateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role. Members referencing it by name keep the
// free-string value.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	if err := s.store.DeleteRole(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("role %q not found", roleID)
		}
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}
