package engine

import (
	"sync"
	"time"
)

// SlotState is the per-slot generation display state. success and error are
// cosmetic and decay back to idle on their own; they are not a retry
// mechanism.
type SlotState string

const (
	SlotIdle       SlotState = "idle"
	SlotGenerating SlotState = "generating"
	SlotSuccess    SlotState = "success"
	SlotError      SlotState = "error"
)

const (
	successHold = 3 * time.Second
	errorHold   = 5 * time.Second
)

type slotStatus struct {
	state   SlotState
	message string
	until   time.Time
}

// StatusBoard tracks the generation state per slot. AI generation and
// bookmark import share one board, so a newer operation on a slot supersedes
// the older one's display state. Safe for concurrent use: async completions
// land from worker goroutines.
type StatusBoard struct {
	mu    sync.Mutex
	slots map[int]slotStatus
	now   func() time.Time
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{slots: make(map[int]slotStatus), now: time.Now}
}

// Begin marks a slot as generating, superseding any prior state.
func (b *StatusBoard) Begin(slotIndex int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slotIndex] = slotStatus{state: SlotGenerating}
}

// Succeed marks a completed generation; the state shows for 3s then decays.
func (b *StatusBoard) Succeed(slotIndex int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slotIndex] = slotStatus{state: SlotSuccess, until: b.now().Add(successHold)}
}

// Fail marks a failed generation; the message shows for 5s then decays.
// Failure of one slot never touches another slot's state.
func (b *StatusBoard) Fail(slotIndex int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slotIndex] = slotStatus{state: SlotError, message: message, until: b.now().Add(errorHold)}
}

// Clear resets a slot to idle, e.g. when its media is removed.
func (b *StatusBoard) Clear(slotIndex int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, slotIndex)
}

// State reports the current state of a slot, expiring stale success/error
// entries on read.
func (b *StatusBoard) State(slotIndex int) (SlotState, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.slots[slotIndex]
	if !ok {
		return SlotIdle, ""
	}
	if st.state != SlotGenerating && b.now().After(st.until) {
		delete(b.slots, slotIndex)
		return SlotIdle, ""
	}
	return st.state, st.message
}

// Snapshot returns the non-idle slots as wire values.
func (b *StatusBoard) Snapshot() map[int]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int]string)
	now := b.now()
	for idx, st := range b.slots {
		if st.state != SlotGenerating && now.After(st.until) {
			delete(b.slots, idx)
			continue
		}
		out[idx] = string(st.state)
	}
	return out
}
