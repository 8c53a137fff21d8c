package orgchart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/logger"
)

type fakeWriter struct {
	failMember  error
	failMokjang error

	memberCalls  int
	mokjangCalls int

	// during runs inside the write call, simulating a stale refetch
	// arriving while the write is in flight.
	during func()
}

func (w *fakeWriter) AssignMemberMokjang(ctx context.Context, memberID, mokjang string) error {
	w.memberCalls++
	if w.during != nil {
		w.during()
	}
	return w.failMember
}

func (w *fakeWriter) AssignMokjangChowon(ctx context.Context, childID, chowonID string) error {
	w.mokjangCalls++
	if w.during != nil {
		w.during()
	}
	return w.failMokjang
}

func newTestBoard(t *testing.T, w Writer) *Board {
	t.Helper()
	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})
	b := NewBoard(w, log)
	b.Load(
		[]*domain.Member{
			{ID: "m1", KoreanName: "김철수", Mokjang: "사랑"},
		},
		[]*domain.ChildList{
			{ID: "c1", Name: "사랑"},
			{ID: "c2", Name: "은혜"},
		},
	)
	return b
}

func TestApply_MemberDropSucceeds(t *testing.T) {
	w := &fakeWriter{}
	b := newTestBoard(t, w)

	applied, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMember, ItemID: "m1",
		TargetType: TargetMokjang, TargetID: "c2",
	})
	if err != nil || !applied {
		t.Fatalf("Apply = (%v, %v), want applied", applied, err)
	}
	if got, _ := b.Member("m1"); got.Mokjang != "은혜" {
		t.Errorf("mokjang = %q, want %q", got.Mokjang, "은혜")
	}
	if b.State() != StateReconciled {
		t.Errorf("state = %v, want reconciled", b.State())
	}
	if w.memberCalls != 1 {
		t.Errorf("writer called %d times, want 1", w.memberCalls)
	}
}

func TestApply_RollbackOnWriteFailure(t *testing.T) {
	w := &fakeWriter{failMember: errors.New("store unavailable")}
	b := newTestBoard(t, w)

	applied, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMember, ItemID: "m1",
		TargetType: TargetMokjang, TargetID: "c2",
	})
	if err == nil || applied {
		t.Fatal("expected write failure")
	}
	if got, _ := b.Member("m1"); got.Mokjang != "사랑" {
		t.Errorf("mokjang = %q, want pre-drop value %q", got.Mokjang, "사랑")
	}
	if b.State() != StateRolledBack {
		t.Errorf("state = %v, want rolled back", b.State())
	}
}

func TestApply_MokjangToChowon(t *testing.T) {
	w := &fakeWriter{}
	b := newTestBoard(t, w)

	applied, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMokjang, ItemID: "c1",
		TargetType: TargetChowon, TargetID: "ch1",
	})
	if err != nil || !applied {
		t.Fatalf("Apply = (%v, %v), want applied", applied, err)
	}
	if got, _ := b.Mokjang("c1"); got.ChowonID != "ch1" {
		t.Errorf("chowon id = %q, want %q", got.ChowonID, "ch1")
	}
}

func TestApply_InvalidPairingIsNoop(t *testing.T) {
	w := &fakeWriter{}
	b := newTestBoard(t, w)

	applied, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMokjang, ItemID: "c1",
		TargetType: TargetMokjang, TargetID: "c2",
	})
	if err != nil {
		t.Fatalf("invalid pairing should not error: %v", err)
	}
	if applied {
		t.Error("invalid pairing should be a no-op")
	}
	if w.memberCalls+w.mokjangCalls != 0 {
		t.Error("no write should be issued for an invalid pairing")
	}
}

func TestApply_UnknownIDs(t *testing.T) {
	b := newTestBoard(t, &fakeWriter{})

	if _, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMember, ItemID: "nope",
		TargetType: TargetMokjang, TargetID: "c2",
	}); err == nil {
		t.Error("unknown member should error")
	}
	if _, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMember, ItemID: "m1",
		TargetType: TargetMokjang, TargetID: "nope",
	}); err == nil {
		t.Error("unknown target mokjang should error")
	}
}

func TestRefresh_SuppressedWhileWritePending(t *testing.T) {
	w := &fakeWriter{}
	b := newTestBoard(t, w)

	stale := []*domain.Member{{ID: "m1", KoreanName: "김철수", Mokjang: "사랑"}}
	var refreshed bool
	w.during = func() {
		refreshed = b.Refresh(stale, nil)
	}

	applied, err := b.Apply(context.Background(), Drop{
		ItemType: ItemMember, ItemID: "m1",
		TargetType: TargetMokjang, TargetID: "c2",
	})
	if err != nil || !applied {
		t.Fatalf("Apply = (%v, %v), want applied", applied, err)
	}
	if refreshed {
		t.Error("refresh during a pending write should be suppressed")
	}
	if got, _ := b.Member("m1"); got.Mokjang != "은혜" {
		t.Errorf("stale refresh overwrote the optimistic update: mokjang = %q", got.Mokjang)
	}

	// After the write settles, refreshes apply again.
	if !b.Refresh(stale, nil) {
		t.Error("refresh after settle should apply")
	}
	if b.State() != StateClean {
		t.Errorf("state = %v, want clean", b.State())
	}
}
