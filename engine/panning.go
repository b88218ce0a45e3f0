package engine

import "strconv"

// PanningOptions is the per-slot panning toggle. Slots without an explicit
// entry default to true; Resize drops entries for slots that no longer exist
// so re-grown slots come back with the default.
type PanningOptions map[int]bool

func (p PanningOptions) ForSlot(slotIndex int) bool {
	v, ok := p[slotIndex]
	if !ok {
		return true
	}
	return v
}

func (p PanningOptions) Set(slotIndex int, enabled bool) {
	p[slotIndex] = enabled
}

func (p PanningOptions) Resize(slotCount int) {
	for idx := range p {
		if idx >= slotCount {
			delete(p, idx)
		}
	}
}

// WorkerMap materializes the effective value for every slot in the worker's
// string-keyed JSON shape ({"0": true, "1": false}).
func (p PanningOptions) WorkerMap(slotCount int) map[string]bool {
	out := make(map[string]bool, slotCount)
	for i := 0; i < slotCount; i++ {
		out[strconv.Itoa(i)] = p.ForSlot(i)
	}
	return out
}
