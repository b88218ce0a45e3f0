package engine

import "strings"

// CustomPrompt is a per-slot override for the AI image prompt. Its lifecycle
// is independent of the media item at the slot: replacing or removing media
// leaves the prompt in place.
type CustomPrompt struct {
	SlotIndex int    `json:"slotIndex"`
	Text      string `json:"text"`
	Enabled   bool   `json:"enabled"`
}

// PromptSet keys custom prompts by slot index.
type PromptSet map[int]CustomPrompt

func (ps PromptSet) Set(slotIndex int, text string, enabled bool) {
	ps[slotIndex] = CustomPrompt{SlotIndex: slotIndex, Text: text, Enabled: enabled}
}

// GenerationInput is the resolved request body for one slot's image
// generation: either a custom prompt, or the slot's first text plus the
// grouped remainder as additional context.
type GenerationInput struct {
	Text              string `json:"text,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
	CustomPrompt      string `json:"custom_prompt,omitempty"`
}

// ResolveGenerationInput picks the text source for a generation request.
// Precedence, highest first: an enabled non-empty custom prompt, the live
// edited texts supplied by the caller at request time, the original segment
// texts. The result is an immutable snapshot; later edits do not reach an
// in-flight request.
func ResolveGenerationInput(pair TextMediaPair, editedTexts []string) GenerationInput {
	if pair.UseCustomPrompt {
		if p := strings.TrimSpace(pair.CustomPrompt); p != "" {
			return GenerationInput{CustomPrompt: p}
		}
	}

	texts := append([]string(nil), pair.OriginalTexts...)
	for i, edited := range editedTexts {
		if i >= len(texts) {
			break
		}
		if t := strings.TrimSpace(edited); t != "" {
			texts[i] = t
		}
	}

	in := GenerationInput{}
	if len(texts) > 0 {
		in.Text = texts[0]
	}
	if len(texts) > 1 {
		in.AdditionalContext = strings.Join(texts[1:], GroupTextSeparator)
	}
	return in
}
