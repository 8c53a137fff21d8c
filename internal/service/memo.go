package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/memolog"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// MemoService mutates a member's memo log. Every mutation rewrites
// the whole blob and returns the re-parsed entries, so callers render
// from the authoritative state rather than trusting local edits.
type MemoService struct {
	store  store.Store
	logger *slog.Logger
}

// NewMemoService creates a new memo service.
func NewMemoService(st store.Store, logger *slog.Logger) *MemoService {
	return &MemoService{store: st, logger: logger}
}

// ListEntries parses a member's memo blob.
func (s *MemoService) ListEntries(ctx context.Context, memberID string) ([]memolog.Entry, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return memolog.Parse(member.Memo), nil
}

// AddEntry prepends a freshly stamped entry.
func (s *MemoService) AddEntry(ctx context.Context, memberID, content string) ([]memolog.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domainerrors.Validation("memo content cannot be empty")
	}
	return s.rewrite(ctx, memberID, func(blob string) string {
		return memolog.Append(blob, content, time.Now())
	})
}

// UpdateEntry replaces the entry at index, preserving its original
// timestamp. An out-of-range index leaves the blob unchanged.
func (s *MemoService) UpdateEntry(ctx context.Context, memberID string, index int, content string) ([]memolog.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domainerrors.Validation("memo content cannot be empty")
	}
	return s.rewrite(ctx, memberID, func(blob string) string {
		return memolog.Update(blob, index, content, time.Now())
	})
}

// RemoveEntry drops the entry at index. An out-of-range index leaves
// the blob unchanged.
func (s *MemoService) RemoveEntry(ctx context.Context, memberID string, index int) ([]memolog.Entry, error) {
	return s.rewrite(ctx, memberID, func(blob string) string {
		return memolog.Remove(blob, index)
	})
}

func (s *MemoService) rewrite(ctx context.Context, memberID string, mutate func(string) string) ([]memolog.Entry, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	blob := mutate(member.Memo)
	if blob != member.Memo {
		if err := s.store.UpdateMemberMemo(ctx, memberID, blob); err != nil {
			return nil, err
		}
	}
	return memolog.Parse(blob), nil
}

func (s *MemoService) getMember(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("member %q not found", memberID)
	}
	return member, err
}
