package service

import (
	"testing"

	"ReelsWizard-server/engine"
)

func TestStaleObject(t *testing.T) {
	tests := []struct {
		name string
		prev engine.MediaItem
		next engine.MediaItem
		want string
	}{
		{
			name: "empty slot leaves nothing behind",
			next: engine.MediaItem{ObjectName: "jobs/j/media/3.png"},
			want: "",
		},
		{
			name: "same extension reuses the key",
			prev: engine.MediaItem{ObjectName: "jobs/j/media/3.png"},
			next: engine.MediaItem{ObjectName: "jobs/j/media/3.png"},
			want: "",
		},
		{
			name: "extension change strands the old object",
			prev: engine.MediaItem{ObjectName: "jobs/j/media/3.mp4"},
			next: engine.MediaItem{ObjectName: "jobs/j/media/3.png"},
			want: "jobs/j/media/3.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := staleObject(tt.prev, tt.next); got != tt.want {
				t.Errorf("staleObject = %q, want %q", got, tt.want)
			}
		})
	}
}
