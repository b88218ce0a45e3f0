package engine

import "strings"

// GroupTextSeparator joins grouped segment texts for display and for the
// concatenated single-for-all text.
const GroupTextSeparator = " / "

// TextMediaPair is the derived view the UI renders for one slot: the slot's
// text(s), its media occupant if any, and the per-slot options. It is rebuilt
// from scratch on every relevant state change and never stored.
type TextMediaPair struct {
	SlotIndex       int        `json:"slotIndex"`
	TextKey         string     `json:"textKey"`
	Text            string     `json:"text"`
	OriginalTexts   []string   `json:"originalTexts"`
	Media           *MediaItem `json:"media"`
	CustomPrompt    string     `json:"customPrompt,omitempty"`
	UseCustomPrompt bool       `json:"useCustomPrompt,omitempty"`
	Panning         bool       `json:"panning"`
}

// BuildPairs recomputes the display pairs from the current script, registry,
// mode and per-slot options. Pure function of its inputs: calling it twice
// with the same state yields structurally identical output, and it touches
// nothing.
func BuildPairs(content ScriptContent, reg *Registry, mode AllocationMode, prompts PromptSet, panning PanningOptions) []TextMediaPair {
	segs := content.Segments
	if len(segs) == 0 {
		return nil
	}

	var pairs []TextMediaPair
	switch mode {
	case ModePerTwoSegments:
		for i := 0; i < len(segs); i += 2 {
			slot := i / 2
			group := segs[i:min(i+2, len(segs))]
			pairs = append(pairs, newPair(slot, group, reg, prompts, panning))
		}
	case ModeSingleForAll:
		pairs = append(pairs, newPair(0, segs, reg, prompts, panning))
	default: // per-script
		for i, seg := range segs {
			pairs = append(pairs, newPair(i, []Segment{seg}, reg, prompts, panning))
		}
	}
	return pairs
}

func newPair(slot int, group []Segment, reg *Registry, prompts PromptSet, panning PanningOptions) TextMediaPair {
	keys := make([]string, len(group))
	texts := make([]string, len(group))
	for i, seg := range group {
		keys[i] = seg.Key
		texts[i] = seg.Text
	}

	pair := TextMediaPair{
		SlotIndex:     slot,
		TextKey:       strings.Join(keys, "+"),
		Text:          strings.Join(texts, GroupTextSeparator),
		OriginalTexts: texts,
		Panning:       panning.ForSlot(slot),
	}
	if reg != nil {
		if item, ok := reg.Get(slot); ok {
			pair.Media = &item
		}
	}
	if p, ok := prompts[slot]; ok {
		pair.CustomPrompt = p.Text
		pair.UseCustomPrompt = p.Enabled
	}
	return pair
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
