package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

func testUser(id, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           id,
		Email:        email,
		DisplayName:  "관리자",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		IsRoot:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("usr-1", "admin@church.example")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "ADMIN@church.example")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != "usr-1" || !got.IsRoot {
		t.Errorf("got %q root=%v", got.ID, got.IsRoot)
	}

	// Duplicate email is a conflict.
	if err := s.CreateUser(ctx, testUser("usr-2", "admin@church.example")); err != store.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	n, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("usr-1", "admin@church.example")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:               "ses-1",
		UserID:           "usr-1",
		RefreshTokenHash: "hash-1",
		ExpiresAt:        now.Add(time.Hour),
		CreatedAt:        now,
		LastUsedAt:       now,
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got.UserID != "usr-1" {
		t.Errorf("user id = %q", got.UserID)
	}

	// Rotate the refresh token.
	got.RefreshTokenHash = "hash-2"
	got.LastUsedAt = now.Add(time.Minute)
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("update session: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); err != store.ErrNotFound {
		t.Errorf("old token should be gone, got %v", err)
	}

	// Deleting the user cascades to its sessions.
	if err := s.DeleteUser(ctx, "usr-1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.GetSession(ctx, "ses-1"); err != store.ErrNotFound {
		t.Errorf("expected cascade delete, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, testUser("usr-1", "admin@church.example")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC()
	expired := &domain.Session{
		ID: "ses-old", UserID: "usr-1", RefreshTokenHash: "old",
		ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour), LastUsedAt: now.Add(-time.Hour),
	}
	live := &domain.Session{
		ID: "ses-new", UserID: "usr-1", RefreshTokenHash: "new",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, LastUsedAt: now,
	}
	for _, sess := range []*domain.Session{expired, live} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("create session %s: %v", sess.ID, err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if _, err := s.GetSession(ctx, "ses-new"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
