package engine

import "testing"

func TestDetectKind(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        MediaKind
		ok          bool
	}{
		{"image/png", "a.png", KindImage, true},
		{"image/jpeg; charset=binary", "a.jpg", KindImage, true},
		{"image/gif", "a.gif", KindAnimatedImage, true},
		{"video/mp4", "a.mp4", KindVideo, true},
		{"VIDEO/QUICKTIME", "a.mov", KindVideo, true},
		// browsers that omit the MIME type for HEIC
		{"", "photo.HEIC", KindImage, true},
		{"", "photo.heif", KindImage, true},
		{"", "clip.webm", KindVideo, true},
		{"", "anim.gif", KindAnimatedImage, true},
		{"application/octet-stream", "movie.mkv", KindVideo, true},
		{"application/pdf", "doc.pdf", "", false},
		{"", "notes.txt", "", false},
		{"", "noext", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectKind(tt.contentType, tt.filename)
		if ok != tt.ok || got != tt.want {
			t.Errorf("DetectKind(%q, %q) = (%q, %v), want (%q, %v)",
				tt.contentType, tt.filename, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMediaItemExt(t *testing.T) {
	item := MediaItem{Name: "Clip.MOV"}
	if got := item.Ext(); got != ".mov" {
		t.Errorf("Ext() = %q, want .mov", got)
	}
}
