package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/orgchart"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// AssignmentService owns the org-chart board and persists accepted
// drag-and-drop assignments through the store.
type AssignmentService struct {
	store  store.Store
	board  *orgchart.Board
	logger *slog.Logger
}

// NewAssignmentService builds the service and its board. The board is
// empty until Reload is called.
func NewAssignmentService(st store.Store, log *logger.Logger) *AssignmentService {
	svc := &AssignmentService{store: st, logger: log.Logger}
	svc.board = orgchart.NewBoard(storeWriter{st}, log)
	return svc
}

// storeWriter adapts the store to the board's Writer.
type storeWriter struct {
	store store.Store
}

func (w storeWriter) AssignMemberMokjang(ctx context.Context, memberID, mokjang string) error {
	return w.store.UpdateMemberMokjang(ctx, memberID, mokjang)
}

func (w storeWriter) AssignMokjangChowon(ctx context.Context, childID, chowonID string) error {
	return w.store.UpdateChildChowon(ctx, childID, chowonID)
}

// AssignmentRequest is one drop event from the org-chart UI.
type AssignmentRequest struct {
	ItemType   string `json:"item_type" validate:"required,oneof=member mokjang"`
	ItemID     string `json:"item_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=mokjang chowon"`
	TargetID   string `json:"target_id" validate:"required"`
}

// AssignmentResult reports what one drop did.
type AssignmentResult struct {
	Applied bool   `json:"applied"`
	State   string `json:"state"`
}

// Reload replaces the board's working copy with current store data.
// It is a no-op while a write is pending.
func (s *AssignmentService) Reload(ctx context.Context) error {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	children, err := s.store.ListChildLists(ctx)
	if err != nil {
		return fmt.Errorf("list child lists: %w", err)
	}
	if !s.board.Refresh(members, children) {
		s.logger.Debug("board refresh suppressed by pending write")
	}
	return nil
}

// Apply validates and applies one drop. Unsupported pairings return
// Applied=false with no error; write failures roll the board back and
// surface the error.
func (s *AssignmentService) Apply(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	drop := orgchart.Drop{
		ItemType:   orgchart.ItemType(req.ItemType),
		ItemID:     req.ItemID,
		TargetType: orgchart.TargetType(req.TargetType),
		TargetID:   req.TargetID,
	}
	applied, err := s.board.Apply(ctx, drop)
	if err != nil {
		return nil, err
	}
	return &AssignmentResult{Applied: applied, State: s.board.State().String()}, nil
}

// Board exposes the underlying board for read access.
func (s *AssignmentService) Board() *orgchart.Board {
	return s.board
}
