package engine

import "testing"

func TestResolveGenerationInputPrecedence(t *testing.T) {
	pair := TextMediaPair{
		SlotIndex:     1,
		OriginalTexts: []string{"original one", "original two"},
	}

	tests := []struct {
		name            string
		customPrompt    string
		useCustomPrompt bool
		edited          []string
		want            GenerationInput
	}{
		{
			name:            "enabled custom prompt wins and omits segment text",
			customPrompt:    "a red lighthouse",
			useCustomPrompt: true,
			edited:          []string{"edited one"},
			want:            GenerationInput{CustomPrompt: "a red lighthouse"},
		},
		{
			name:            "disabled custom prompt falls back to text",
			customPrompt:    "a red lighthouse",
			useCustomPrompt: false,
			want:            GenerationInput{Text: "original one", AdditionalContext: "original two"},
		},
		{
			name:            "enabled but blank custom prompt falls back to text",
			customPrompt:    "   ",
			useCustomPrompt: true,
			want:            GenerationInput{Text: "original one", AdditionalContext: "original two"},
		},
		{
			name:   "live edits win over originals",
			edited: []string{"edited one", "edited two"},
			want:   GenerationInput{Text: "edited one", AdditionalContext: "edited two"},
		},
		{
			name:   "blank edit keeps the original for that segment",
			edited: []string{"", "edited two"},
			want:   GenerationInput{Text: "original one", AdditionalContext: "edited two"},
		},
		{
			name:   "extra edited entries beyond the group are ignored",
			edited: []string{"edited one", "edited two", "stray"},
			want:   GenerationInput{Text: "edited one", AdditionalContext: "edited two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pair
			p.CustomPrompt = tt.customPrompt
			p.UseCustomPrompt = tt.useCustomPrompt
			got := ResolveGenerationInput(p, tt.edited)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveGenerationInputSingleSegment(t *testing.T) {
	pair := TextMediaPair{OriginalTexts: []string{"only"}}
	got := ResolveGenerationInput(pair, nil)
	if got.Text != "only" || got.AdditionalContext != "" {
		t.Errorf("got %+v", got)
	}
}
