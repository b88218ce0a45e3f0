package engine

import "testing"

func TestRequiredSlotCount(t *testing.T) {
	tests := []struct {
		filled int
		mode   AllocationMode
		want   int
	}{
		{0, ModePerSegment, 0},
		{1, ModePerSegment, 1},
		{7, ModePerSegment, 7},
		{8, ModePerSegment, 8},
		{0, ModePerTwoSegments, 0},
		{1, ModePerTwoSegments, 1},
		{2, ModePerTwoSegments, 1},
		{3, ModePerTwoSegments, 2},
		{4, ModePerTwoSegments, 2},
		{5, ModePerTwoSegments, 3},
		{7, ModePerTwoSegments, 4},
		{8, ModePerTwoSegments, 4},
		{0, ModeSingleForAll, 0},
		{1, ModeSingleForAll, 1},
		{7, ModeSingleForAll, 1},
	}
	for _, tt := range tests {
		if got := RequiredSlotCount(tt.filled, tt.mode); got != tt.want {
			t.Errorf("RequiredSlotCount(%d, %s) = %d, want %d", tt.filled, tt.mode, got, tt.want)
		}
	}
}

func TestParseAllocationMode(t *testing.T) {
	for _, valid := range []string{"per-script", "per-two-scripts", "single-for-all"} {
		if _, err := ParseAllocationMode(valid); err != nil {
			t.Errorf("ParseAllocationMode(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseAllocationMode("per-three-scripts"); err == nil {
		t.Error("ParseAllocationMode accepted an unknown mode")
	}
}

func TestSizeLimit(t *testing.T) {
	l := Limits{PerSlotBytes: 40 << 20, SingleBytes: 80 << 20}
	if got := ModePerTwoSegments.SizeLimit(l); got != 40<<20 {
		t.Errorf("per-two-scripts limit = %d, want 40MB", got)
	}
	if got := ModePerSegment.SizeLimit(l); got != 40<<20 {
		t.Errorf("per-script limit = %d, want 40MB", got)
	}
	if got := ModeSingleForAll.SizeLimit(l); got != 80<<20 {
		t.Errorf("single-for-all limit = %d, want 80MB", got)
	}
}

func TestWorkerMode(t *testing.T) {
	tests := []struct {
		mode AllocationMode
		want string
	}{
		{ModePerSegment, "1_per_image"},
		{ModePerTwoSegments, "2_per_image"},
		{ModeSingleForAll, "single_for_all"},
	}
	for _, tt := range tests {
		if got := tt.mode.WorkerMode(); got != tt.want {
			t.Errorf("%s.WorkerMode() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
