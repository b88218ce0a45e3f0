package engine

import (
	"testing"
	"time"
)

func boardAt(t *testing.T) (*StatusBoard, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewStatusBoard()
	b.now = func() time.Time { return now }
	return b, &now
}

func TestStatusBoardLifecycle(t *testing.T) {
	b, now := boardAt(t)

	if st, _ := b.State(0); st != SlotIdle {
		t.Fatalf("fresh slot state = %s", st)
	}

	b.Begin(0)
	if st, _ := b.State(0); st != SlotGenerating {
		t.Fatalf("state after Begin = %s", st)
	}

	// generating does not expire on its own
	*now = now.Add(time.Minute)
	if st, _ := b.State(0); st != SlotGenerating {
		t.Fatalf("generating expired: %s", st)
	}

	b.Succeed(0)
	if st, _ := b.State(0); st != SlotSuccess {
		t.Fatalf("state after Succeed = %s", st)
	}
	*now = now.Add(4 * time.Second)
	if st, _ := b.State(0); st != SlotIdle {
		t.Fatalf("success did not decay after 3s: %s", st)
	}
}

func TestStatusBoardErrorDecay(t *testing.T) {
	b, now := boardAt(t)

	b.Fail(2, "generation failed")
	st, msg := b.State(2)
	if st != SlotError || msg != "generation failed" {
		t.Fatalf("state = %s %q", st, msg)
	}

	*now = now.Add(4 * time.Second)
	if st, _ := b.State(2); st != SlotError {
		t.Fatalf("error decayed before 5s: %s", st)
	}
	*now = now.Add(2 * time.Second)
	if st, _ := b.State(2); st != SlotIdle {
		t.Fatalf("error did not decay after 5s: %s", st)
	}
}

func TestStatusBoardSupersede(t *testing.T) {
	b, _ := boardAt(t)

	// a newer operation on the same slot replaces the older display state
	b.Begin(1)
	b.Fail(1, "boom")
	b.Begin(1)
	if st, msg := b.State(1); st != SlotGenerating || msg != "" {
		t.Fatalf("state = %s %q, want generating", st, msg)
	}

	b.Clear(1)
	if st, _ := b.State(1); st != SlotIdle {
		t.Fatalf("state after Clear = %s", st)
	}
}

func TestStatusBoardSnapshot(t *testing.T) {
	b, now := boardAt(t)
	b.Begin(0)
	b.Succeed(1)
	b.Fail(2, "x")

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot = %v", snap)
	}

	*now = now.Add(10 * time.Second)
	snap = b.Snapshot()
	if len(snap) != 1 || snap[0] != string(SlotGenerating) {
		t.Fatalf("snapshot after decay = %v", snap)
	}
}
