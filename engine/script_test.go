package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestParseScriptContent(t *testing.T) {
	raw := []byte(`{"title":" My Reel ","body1":"first","body2":"  ","body3":"third"}`)
	content, err := ParseScriptContent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if content.Title != "My Reel" {
		t.Errorf("Title = %q", content.Title)
	}
	// body2 is blank, so only body1 and body3 count as filled
	if content.FilledCount() != 2 {
		t.Fatalf("FilledCount = %d, want 2", content.FilledCount())
	}
	if content.Segments[0].Key != "body1" || content.Segments[1].Key != "body3" {
		t.Errorf("segment keys = %v", content.Segments)
	}
	if content.Segments[1].Text != "third" {
		t.Errorf("segment text = %q", content.Segments[1].Text)
	}
}

func TestParseScriptContentErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed JSON", `{"title":`},
		{"overlong title", `{"title":"` + strings.Repeat("t", MaxTitleLen+1) + `"}`},
		{"overlong segment", `{"body1":"` + strings.Repeat("x", MaxSegmentLen+1) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScriptContent([]byte(tt.raw))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestWireJSONRoundTrip(t *testing.T) {
	content := scriptWith("first", "second")
	raw, err := content.WireJSON()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseScriptContent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if back.FilledCount() != 2 || back.Segments[0].Text != "first" {
		t.Errorf("round trip = %+v", back)
	}
}
