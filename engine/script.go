package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxSegments   = 50
	MaxSegmentLen = 200
	MaxTitleLen   = 50
)

// Segment is one filled script line. Key keeps the wire name ("body3") so the
// pairing view can show which lines feed a slot.
type Segment struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ScriptContent is the authored script by the time the pairing engine reads
// it: a title plus the filled body segments in order. It is a read-only
// snapshot; edits go through ParseScriptContent again.
type ScriptContent struct {
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// ParseScriptContent decodes the frontend content JSON
// ({"title": ..., "body1": ..., "body2": ...}) into a ScriptContent.
// A segment counts as filled iff its trimmed text is non-empty; empty keys
// are skipped so slot numbering follows the filled order.
func ParseScriptContent(raw []byte) (ScriptContent, error) {
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ScriptContent{}, validationErrorf("malformed content JSON: %v", err)
	}
	return ScriptContentFromFields(fields)
}

// ScriptContentFromFields builds a ScriptContent from already-decoded
// title/bodyN fields, enforcing the length limits.
func ScriptContentFromFields(fields map[string]string) (ScriptContent, error) {
	title := strings.TrimSpace(fields["title"])
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return ScriptContent{}, validationErrorf("title exceeds %d characters", MaxTitleLen)
	}

	content := ScriptContent{Title: title}
	for i := 1; i <= MaxSegments; i++ {
		key := fmt.Sprintf("body%d", i)
		text := strings.TrimSpace(fields[key])
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > MaxSegmentLen {
			return ScriptContent{}, validationErrorf("%s exceeds %d characters", key, MaxSegmentLen)
		}
		content.Segments = append(content.Segments, Segment{Key: key, Text: text})
	}
	return content, nil
}

// FilledCount reports how many segments carry text.
func (c ScriptContent) FilledCount() int {
	return len(c.Segments)
}

// Texts returns the segment texts in order.
func (c ScriptContent) Texts() []string {
	out := make([]string, len(c.Segments))
	for i, s := range c.Segments {
		out[i] = s.Text
	}
	return out
}

// WireJSON re-encodes the content in the frontend/worker field layout
// (title + body1..bodyN), which is what the render worker expects in
// content_data.
func (c ScriptContent) WireJSON() ([]byte, error) {
	fields := map[string]string{"title": c.Title}
	for i, s := range c.Segments {
		fields[fmt.Sprintf("body%d", i+1)] = s.Text
	}
	return json.Marshal(fields)
}
