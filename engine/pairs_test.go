package engine

import (
	"reflect"
	"testing"
)

func scriptWith(texts ...string) ScriptContent {
	c := ScriptContent{Title: "t"}
	for i, text := range texts {
		c.Segments = append(c.Segments, Segment{Key: keyFor(i), Text: text})
	}
	return c
}

func keyFor(i int) string {
	return "body" + string(rune('1'+i))
}

func TestBuildPairsPerSegment(t *testing.T) {
	content := scriptWith("one", "two", "three")
	reg := NewRegistry()
	if err := reg.Upsert(testItem(1, "b.png"), 0); err != nil {
		t.Fatal(err)
	}

	pairs := BuildPairs(content, reg, ModePerSegment, nil, nil)
	if len(pairs) != 3 {
		t.Fatalf("len = %d, want 3", len(pairs))
	}
	for i, p := range pairs {
		if p.SlotIndex != i {
			t.Errorf("pairs[%d].SlotIndex = %d", i, p.SlotIndex)
		}
	}
	if pairs[0].Media != nil || pairs[2].Media != nil {
		t.Error("empty slots carry media")
	}
	if pairs[1].Media == nil || pairs[1].Media.Name != "b.png" {
		t.Errorf("slot 1 media = %+v, want b.png", pairs[1].Media)
	}
}

func TestBuildPairsPerTwoSegments(t *testing.T) {
	content := scriptWith("one", "two", "three", "four", "five")

	pairs := BuildPairs(content, NewRegistry(), ModePerTwoSegments, nil, nil)
	if len(pairs) != 3 {
		t.Fatalf("len = %d, want 3", len(pairs))
	}
	if pairs[0].TextKey != "body1+body2" || pairs[0].Text != "one / two" {
		t.Errorf("pair 0 = %q %q", pairs[0].TextKey, pairs[0].Text)
	}
	if !reflect.DeepEqual(pairs[0].OriginalTexts, []string{"one", "two"}) {
		t.Errorf("pair 0 originals = %v", pairs[0].OriginalTexts)
	}
	// odd trailing segment stands alone
	if pairs[2].TextKey != "body5" || pairs[2].Text != "five" {
		t.Errorf("pair 2 = %q %q", pairs[2].TextKey, pairs[2].Text)
	}
	if len(pairs[2].OriginalTexts) != 1 {
		t.Errorf("pair 2 originals = %v", pairs[2].OriginalTexts)
	}
}

func TestBuildPairsSingleForAll(t *testing.T) {
	content := scriptWith("one", "two", "three")

	pairs := BuildPairs(content, NewRegistry(), ModeSingleForAll, nil, nil)
	if len(pairs) != 1 {
		t.Fatalf("len = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if p.SlotIndex != 0 {
		t.Errorf("SlotIndex = %d, want 0", p.SlotIndex)
	}
	if p.Text != "one / two / three" {
		t.Errorf("Text = %q", p.Text)
	}
	// originals stay per-segment so the UI can edit them individually
	if !reflect.DeepEqual(p.OriginalTexts, []string{"one", "two", "three"}) {
		t.Errorf("OriginalTexts = %v", p.OriginalTexts)
	}
}

func TestBuildPairsEmptyScript(t *testing.T) {
	for _, mode := range []AllocationMode{ModePerSegment, ModePerTwoSegments, ModeSingleForAll} {
		if pairs := BuildPairs(ScriptContent{}, NewRegistry(), mode, nil, nil); len(pairs) != 0 {
			t.Errorf("mode %s: %d pairs for empty script", mode, len(pairs))
		}
	}
}

func TestBuildPairsIdempotent(t *testing.T) {
	content := scriptWith("one", "two", "three", "four", "five")
	reg := NewRegistry()
	for _, slot := range []int{0, 2} {
		if err := reg.Upsert(testItem(slot, "x.png"), 0); err != nil {
			t.Fatal(err)
		}
	}
	prompts := PromptSet{}
	prompts.Set(1, "a castle at dusk", true)
	panning := PanningOptions{2: false}

	first := BuildPairs(content, reg, ModePerTwoSegments, prompts, panning)
	for i := 0; i < 5; i++ {
		again := BuildPairs(content, reg, ModePerTwoSegments, prompts, panning)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("rebuild %d diverged:\n%+v\nvs\n%+v", i, first, again)
		}
	}
}

func TestBuildPairsOptions(t *testing.T) {
	content := scriptWith("one", "two")
	prompts := PromptSet{}
	prompts.Set(0, "neon skyline", true)
	panning := PanningOptions{1: false}

	pairs := BuildPairs(content, NewRegistry(), ModePerSegment, prompts, panning)
	if !pairs[0].UseCustomPrompt || pairs[0].CustomPrompt != "neon skyline" {
		t.Errorf("pair 0 prompt = %+v", pairs[0])
	}
	if !pairs[0].Panning {
		t.Error("pair 0 panning should default to true")
	}
	if pairs[1].Panning {
		t.Error("pair 1 panning should be false")
	}
}
