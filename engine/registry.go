package engine

import "sort"

// Registry holds the media items of one job, unique by slot index. The slot
// index is the sole correlation key between script text and media: it
// survives renaming, regeneration and mode switches. The registry is owned by
// exactly one session and mutated only under that session's lock.
type Registry struct {
	items map[int]MediaItem
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[int]MediaItem)}
}

// ValidateItem applies the ingestion rules without touching any registry:
// non-negative slot, a recognized media kind, and the size cap. Callers that
// need to stage expensive work (storage uploads) between validation and the
// actual upsert use this first.
func ValidateItem(item MediaItem, sizeLimit int64) error {
	if item.SlotIndex < 0 {
		return validationErrorf("invalid slot index %d", item.SlotIndex)
	}
	if item.Kind != KindImage && item.Kind != KindVideo && item.Kind != KindAnimatedImage {
		return validationErrorf("%s: only image and video files are allowed", item.Name)
	}
	if sizeLimit > 0 && item.Size > sizeLimit {
		return validationErrorf("%s: file exceeds the %dMB limit", item.Name, sizeLimit>>20)
	}
	return nil
}

// Upsert places an item at its slot, replacing any previous occupant.
// Rejects items over the size cap or of an unrecognized kind; a rejected item
// never enters the registry. Manual uploads, AI generation and bookmark
// import all come through here, which is what makes "last write wins by
// completion order" hold uniformly.
func (r *Registry) Upsert(item MediaItem, sizeLimit int64) error {
	if err := ValidateItem(item, sizeLimit); err != nil {
		return err
	}
	r.items[item.SlotIndex] = item
	return nil
}

// Get returns the occupant of a slot, if any.
func (r *Registry) Get(slotIndex int) (MediaItem, bool) {
	item, ok := r.items[slotIndex]
	return item, ok
}

// RemoveAt drops the occupant of a slot. No-op when the slot is empty.
func (r *Registry) RemoveAt(slotIndex int) bool {
	if _, ok := r.items[slotIndex]; !ok {
		return false
	}
	delete(r.items, slotIndex)
	return true
}

func (r *Registry) Len() int {
	return len(r.items)
}

// ListOrderedBySlot returns all items sorted ascending by slot index. This is
// the submission order: the render worker recovers the text association from
// the 1-based file naming, so the ordering is load-bearing, not cosmetic.
func (r *Registry) ListOrderedBySlot() []MediaItem {
	out := make([]MediaItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotIndex < out[j].SlotIndex })
	return out
}

// TruncateTo drops every item whose slot index falls outside the new
// required count, keeping the lowest indices. Surviving items keep their raw
// slot index even if a mode switch re-paired them with different text; the
// caller is expected to warn the user about that, not to renumber.
// Returns the dropped items, ordered by slot.
func (r *Registry) TruncateTo(slotCount int) []MediaItem {
	var dropped []MediaItem
	for idx, item := range r.items {
		if idx >= slotCount {
			dropped = append(dropped, item)
			delete(r.items, idx)
		}
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i].SlotIndex < dropped[j].SlotIndex })
	return dropped
}
