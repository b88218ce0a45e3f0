package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
)

// SlotFile is one media file headed for the render worker, still keyed by
// the wizard's 0-based slot index.
type SlotFile struct {
	SlotIndex int
	Ext       string
	Content   io.Reader
}

// BuildRenderForm writes a multipart form the render worker accepts: every
// text field first, then one file part per slot named image_{slot+1} with
// filename {slot+1}{ext}. Slot numbering is 1-based on the wire and gaps are
// preserved, so registry slots {0, 2} produce image_1 and image_3.
func BuildRenderForm(w io.Writer, fields map[string]string, files []SlotFile) (string, error) {
	mw := multipart.NewWriter(w)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, f := range files {
		partName := fmt.Sprintf("image_%d", f.SlotIndex+1)
		filename := fmt.Sprintf("%d%s", f.SlotIndex+1, f.Ext)
		part, err := mw.CreateFormFile(partName, filename)
		if err != nil {
			return "", fmt.Errorf("create part %s: %w", partName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return "", fmt.Errorf("copy part %s: %w", partName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}
	return mw.FormDataContentType(), nil
}

// RenderFormFields assembles the worker's text fields from the session
// snapshot and the stored styling parameters.
func RenderFormFields(snap SessionSnapshot, params models.RenderParams) (map[string]string, error) {
	contentData, err := snap.Content.WireJSON()
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	fields := map[string]string{
		"content_data":          string(contentData),
		"image_allocation_mode": snap.Mode.WorkerMode(),
		"text_position":         params.TextPosition,
		"text_style":            params.TextStyle,
		"title_area_mode":       params.TitleAreaMode,
		"voice_narration":       params.VoiceNarration,
		"cross_dissolve":        params.CrossDissolve,
		"music_mood":            snap.MusicMood,
	}
	if params.TitleFont != "" {
		fields["title_font"] = params.TitleFont
	}
	if params.BodyFont != "" {
		fields["body_font"] = params.BodyFont
	}
	if params.TitleFontSize > 0 {
		fields["title_font_size"] = strconv.Itoa(params.TitleFontSize)
	}
	if params.BodyFontSize > 0 {
		fields["body_font_size"] = strconv.Itoa(params.BodyFontSize)
	}
	if params.SubtitleDuration > 0 {
		fields["subtitle_duration"] = strconv.FormatFloat(params.SubtitleDuration, 'f', -1, 64)
	}
	if params.EditedTextsJSON != "" {
		fields["edited_texts"] = params.EditedTextsJSON
	}
	if params.PanningOptionsJSON != "" {
		fields["image_panning_options"] = params.PanningOptionsJSON
	}
	if snap.SelectedBGM != "" {
		fields["selected_bgm"] = snap.SelectedBGM
	}
	return fields, nil
}

// SlotFilesFromMedia pairs each ordered media item with its object-storage
// extension, without opening the objects yet.
func SlotFilesFromMedia(media []engine.MediaItem) []SlotFile {
	files := make([]SlotFile, 0, len(media))
	for _, item := range media {
		files = append(files, SlotFile{SlotIndex: item.SlotIndex, Ext: item.Ext()})
	}
	return files
}
