package orgchart

import (
	"context"
	"sync"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/logger"
)

// ItemType identifies what is being dragged.
type ItemType string

const (
	ItemMember  ItemType = "member"
	ItemMokjang ItemType = "mokjang"
)

// TargetType identifies what is being dropped onto.
type TargetType string

const (
	TargetMokjang TargetType = "mokjang"
	TargetChowon  TargetType = "chowon"
)

// Drop is one drop event. TargetID names a mokjang child list for
// member drops and a chowon for mokjang drops.
type Drop struct {
	ItemType   ItemType
	ItemID     string
	TargetType TargetType
	TargetID   string
}

// valid reports whether the item/target pairing is one of the two
// supported transitions.
func (d Drop) valid() bool {
	switch {
	case d.ItemType == ItemMember && d.TargetType == TargetMokjang:
		return true
	case d.ItemType == ItemMokjang && d.TargetType == TargetChowon:
		return true
	}
	return false
}

// State tracks where the board is in the optimistic-write cycle.
type State int

const (
	// StateClean means local state matches the last load or refresh.
	StateClean State = iota
	// StatePendingWrite means an optimistic mutation has been applied
	// and its store write has not settled. Refreshes are suppressed.
	StatePendingWrite
	// StateReconciled means the last write succeeded.
	StateReconciled
	// StateRolledBack means the last write failed and the optimistic
	// mutation was reverted.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StatePendingWrite:
		return "pending_write"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// Writer persists an accepted assignment.
type Writer interface {
	AssignMemberMokjang(ctx context.Context, memberID, mokjang string) error
	AssignMokjangChowon(ctx context.Context, childID, chowonID string) error
}

// snapshot holds the pre-drop value needed to undo one mutation.
type snapshot struct {
	memberID    string
	mokjang     string
	childID     string
	chowonID    string
	isMemberSet bool
}

// Board holds the org-chart working copy of members and mokjang child
// lists and applies drop events to it optimistically: the local value
// changes before the store write resolves, and is restored from a
// pre-drop snapshot if the write fails.
type Board struct {
	mu       sync.Mutex
	state    State
	members  map[string]*domain.Member
	mokjangs map[string]*domain.ChildList
	pending  *snapshot

	writer Writer
	log    *logger.Logger
}

func NewBoard(writer Writer, log *logger.Logger) *Board {
	return &Board{
		state:    StateClean,
		members:  map[string]*domain.Member{},
		mokjangs: map[string]*domain.ChildList{},
		writer:   writer,
		log:      log,
	}
}

// Load replaces the working copy unconditionally.
func (b *Board) Load(members []*domain.Member, mokjangs []*domain.ChildList) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replace(members, mokjangs)
	b.state = StateClean
}

// Refresh replaces the working copy from a re-fetch, unless a write
// is in flight, in which case the stale data is discarded so it
// cannot race the optimistic update. Returns whether the refresh was
// applied.
func (b *Board) Refresh(members []*domain.Member, mokjangs []*domain.ChildList) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StatePendingWrite {
		b.log.Debug("orgchart refresh suppressed while write pending")
		return false
	}
	b.replace(members, mokjangs)
	b.state = StateClean
	return true
}

func (b *Board) replace(members []*domain.Member, mokjangs []*domain.ChildList) {
	b.members = make(map[string]*domain.Member, len(members))
	for _, m := range members {
		if m != nil {
			cp := *m
			b.members[m.ID] = &cp
		}
	}
	b.mokjangs = make(map[string]*domain.ChildList, len(mokjangs))
	for _, c := range mokjangs {
		if c != nil {
			cp := *c
			b.mokjangs[c.ID] = &cp
		}
	}
}

// Apply handles one drop event. Unsupported pairings are rejected as
// no-ops with applied=false and no error. For accepted drops the
// local value is updated first, then the write is issued; on failure
// the snapshot is restored and the error returned.
func (b *Board) Apply(ctx context.Context, drop Drop) (bool, error) {
	if !drop.valid() {
		b.log.Debug("orgchart drop rejected",
			"item_type", string(drop.ItemType), "target_type", string(drop.TargetType))
		return false, nil
	}

	b.mu.Lock()
	if b.state == StatePendingWrite {
		b.mu.Unlock()
		return false, errors.Conflict("an assignment is already in progress")
	}

	var snap snapshot
	var write func(context.Context) error

	switch drop.ItemType {
	case ItemMember:
		member, ok := b.members[drop.ItemID]
		if !ok {
			b.mu.Unlock()
			return false, errors.NotFoundf("member %q not found", drop.ItemID)
		}
		target, ok := b.mokjangs[drop.TargetID]
		if !ok {
			b.mu.Unlock()
			return false, errors.NotFoundf("mokjang %q not found", drop.TargetID)
		}
		snap = snapshot{memberID: member.ID, mokjang: member.Mokjang, isMemberSet: true}
		member.Mokjang = target.Name
		write = func(ctx context.Context) error {
			return b.writer.AssignMemberMokjang(ctx, member.ID, target.Name)
		}

	case ItemMokjang:
		child, ok := b.mokjangs[drop.ItemID]
		if !ok {
			b.mu.Unlock()
			return false, errors.NotFoundf("mokjang %q not found", drop.ItemID)
		}
		snap = snapshot{childID: child.ID, chowonID: child.ChowonID}
		child.ChowonID = drop.TargetID
		write = func(ctx context.Context) error {
			return b.writer.AssignMokjangChowon(ctx, child.ID, drop.TargetID)
		}
	}

	b.pending = &snap
	b.state = StatePendingWrite
	b.mu.Unlock()

	err := write(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
	if err != nil {
		b.rollback(snap)
		b.state = StateRolledBack
		return false, errors.Wrap(err, errors.CodeInternal, "assignment write failed")
	}
	b.state = StateReconciled
	return true, nil
}

func (b *Board) rollback(snap snapshot) {
	if snap.isMemberSet {
		if member, ok := b.members[snap.memberID]; ok {
			member.Mokjang = snap.mokjang
		}
		return
	}
	if child, ok := b.mokjangs[snap.childID]; ok {
		child.ChowonID = snap.chowonID
	}
}

// State returns the current write-cycle state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Member returns a copy of the working-copy member, if present.
func (b *Board) Member(id string) (domain.Member, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[id]
	if !ok {
		return domain.Member{}, false
	}
	return *m, true
}

// Mokjang returns a copy of the working-copy child list, if present.
func (b *Board) Mokjang(id string) (domain.ChildList, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.mokjangs[id]
	if !ok {
		return domain.ChildList{}, false
	}
	return *c, true
}
