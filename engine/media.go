package engine

import (
	"path"
	"strings"
	"time"
)

// MediaKind is decided once at ingestion and carried as data afterwards.
type MediaKind string

const (
	KindImage         MediaKind = "image"
	KindVideo         MediaKind = "video"
	KindAnimatedImage MediaKind = "animated-image"
)

// MediaSource records how the item entered the registry.
type MediaSource string

const (
	SourceUpload    MediaSource = "upload"
	SourceGenerated MediaSource = "generated"
	SourceBookmark  MediaSource = "bookmark"
)

// MediaItem is the explicit record for one slot occupant. The payload itself
// lives in object storage under ObjectName; the item is replaced wholesale,
// never mutated.
type MediaItem struct {
	SlotIndex  int         `json:"slotIndex"`
	Name       string      `json:"name"`
	Kind       MediaKind   `json:"kind"`
	Size       int64       `json:"size"`
	ObjectName string      `json:"objectName"`
	Source     MediaSource `json:"source"`
	AddedAt    time.Time   `json:"addedAt"`
}

// Ext returns the item's original file extension, dot included.
func (m MediaItem) Ext() string {
	return strings.ToLower(path.Ext(m.Name))
}

var (
	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
		".bmp": true, ".heic": true, ".heif": true,
	}
	videoExts = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true,
	}
)

// DetectKind classifies an incoming file, MIME type first. Some browsers hand
// over HEIC and friends without any MIME type, so the extension is the
// fallback. Returns false for anything that is neither image nor video.
func DetectKind(contentType, filename string) (MediaKind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case ct == "image/gif":
		return KindAnimatedImage, true
	case strings.HasPrefix(ct, "image/"):
		return KindImage, true
	case strings.HasPrefix(ct, "video/"):
		return KindVideo, true
	}

	ext := strings.ToLower(path.Ext(filename))
	switch {
	case ext == ".gif":
		return KindAnimatedImage, true
	case imageExts[ext]:
		return KindImage, true
	case videoExts[ext]:
		return KindVideo, true
	}
	return "", false
}
