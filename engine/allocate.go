package engine

// AllocationMode maps the filled script-segment count to the number of media
// slots the user has to fill. Wire names match the frontend exactly.
type AllocationMode string

const (
	ModePerSegment     AllocationMode = "per-script"
	ModePerTwoSegments AllocationMode = "per-two-scripts"
	ModeSingleForAll   AllocationMode = "single-for-all"
)

// ParseAllocationMode validates a wire value.
func ParseAllocationMode(s string) (AllocationMode, error) {
	switch AllocationMode(s) {
	case ModePerSegment, ModePerTwoSegments, ModeSingleForAll:
		return AllocationMode(s), nil
	}
	return "", validationErrorf("unknown allocation mode %q", s)
}

// RequiredSlotCount is the allocation formula. single-for-all still needs a
// script, hence 0 when nothing is filled yet.
func RequiredSlotCount(filledSegments int, mode AllocationMode) int {
	if filledSegments <= 0 {
		return 0
	}
	switch mode {
	case ModePerTwoSegments:
		return (filledSegments + 1) / 2
	case ModeSingleForAll:
		return 1
	default: // per-script
		return filledSegments
	}
}

// WorkerMode translates to the render worker's field values.
func (m AllocationMode) WorkerMode() string {
	switch m {
	case ModePerSegment:
		return "1_per_image"
	case ModeSingleForAll:
		return "single_for_all"
	default:
		return "2_per_image"
	}
}

// Limits holds the mode-dependent upload size caps in bytes.
type Limits struct {
	PerSlotBytes int64
	SingleBytes  int64
}

// DefaultLimits matches the latest product iteration (40MB / 80MB).
var DefaultLimits = Limits{
	PerSlotBytes: 40 << 20,
	SingleBytes:  80 << 20,
}

// SizeLimit returns the per-file cap for this mode.
func (m AllocationMode) SizeLimit(l Limits) int64 {
	if m == ModeSingleForAll {
		return l.SingleBytes
	}
	return l.PerSlotBytes
}
