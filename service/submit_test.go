package service

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func parseForm(t *testing.T, body *bytes.Buffer, contentType string) map[string]*multipart.Part {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	parts := map[string]*multipart.Part{}
	mr := multipart.NewReader(body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		parts[p.FormName()] = p
	}
	return parts
}

func TestBuildRenderFormSlotNaming(t *testing.T) {
	files := []SlotFile{
		{SlotIndex: 0, Ext: ".png", Content: strings.NewReader("a")},
		{SlotIndex: 2, Ext: ".mp4", Content: strings.NewReader("b")},
	}
	var body bytes.Buffer
	contentType, err := BuildRenderForm(&body, map[string]string{"text_position": "bottom"}, files)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	mr := multipart.NewReader(&body, params["boundary"])

	seen := map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		seen[p.FormName()] = p.FileName()
	}

	// A gap in the registry stays a gap on the wire.
	if fn := seen["image_1"]; fn != "1.png" {
		t.Errorf("image_1 filename = %q, want 1.png", fn)
	}
	if fn := seen["image_3"]; fn != "3.mp4" {
		t.Errorf("image_3 filename = %q, want 3.mp4", fn)
	}
	if _, ok := seen["image_2"]; ok {
		t.Error("image_2 present for empty slot 1")
	}
	if _, ok := seen["text_position"]; !ok {
		t.Error("text field missing from form")
	}
}

func TestBuildRenderFormEmptyFiles(t *testing.T) {
	var body bytes.Buffer
	contentType, err := BuildRenderForm(&body, map[string]string{"cross_dissolve": "true"}, nil)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	parts := parseForm(t, &body, contentType)
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
}
