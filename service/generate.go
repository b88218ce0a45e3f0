package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ReelsWizard-server/config"
	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
)

// imageHTTPClient talks to the image generation worker; a single generation
// round-trip on the GPU can take a while.
var imageHTTPClient = &http.Client{Timeout: 3 * time.Minute}

type generateResponse struct {
	ImageURL string `json:"image_url"`
	Error    string `json:"error,omitempty"`
}

// requestImage asks the image worker for one picture and returns its bytes.
func requestImage(ctx context.Context, input engine.GenerationInput) ([]byte, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal generation input: %w", err)
	}
	endpoint := config.AppConfig.Worker.ImageAddr + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := imageHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image worker request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("image worker returned %d: %s", resp.StatusCode, body)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode image worker response: %w", err)
	}
	if gr.Error != "" {
		return nil, fmt.Errorf("image worker: %s", gr.Error)
	}
	return downloadImage(ctx, gr.ImageURL)
}

func downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := imageHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GenerateSlot runs the full generation path for one slot: resolve the text
// input from the pair at request time, call the worker, store the result and
// register it through the same upsert path as manual uploads. The status
// board drives the per-slot spinner in the wizard.
func GenerateSlot(ctx context.Context, sess *Session, slotIndex int) error {
	pair, ok := sess.PairForSlot(slotIndex)
	if !ok {
		return fmt.Errorf("slot %d does not exist for the current script", slotIndex)
	}
	input := engine.ResolveGenerationInput(pair, sess.EditedTexts(slotIndex))

	sess.Status.Begin(slotIndex)
	data, err := requestImage(ctx, input)
	if err != nil {
		sess.Status.Fail(slotIndex, err.Error())
		return err
	}

	objectName := JobMediaObject(sess.JobID, slotIndex, ".png")
	if _, err := UploadToMinIO(ctx, bytes.NewReader(data), objectName, int64(len(data))); err != nil {
		sess.Status.Fail(slotIndex, err.Error())
		return err
	}

	item := engine.MediaItem{
		SlotIndex:  slotIndex,
		Name:       fmt.Sprintf("%d.png", slotIndex+1),
		Kind:       engine.KindImage,
		Size:       int64(len(data)),
		ObjectName: objectName,
		Source:     engine.SourceGenerated,
		AddedAt:    time.Now(),
	}
	prev, _ := sess.Media(slotIndex)
	if err := sess.UpsertMedia(item); err != nil {
		sess.Status.Fail(slotIndex, err.Error())
		return err
	}
	RemoveReplacedObject(ctx, prev, item)
	if err := models.UpsertMediaAsset(models.GormDB, &models.MediaAsset{
		JobId:      sess.JobID,
		SlotIndex:  slotIndex,
		Filename:   item.Name,
		Kind:       string(item.Kind),
		Size:       item.Size,
		ObjectName: item.ObjectName,
		Source:     string(item.Source),
	}); err != nil {
		log.Printf("[Generate] persist media asset failed: job=%s slot=%d err=%v", sess.JobID, slotIndex, err)
	}

	sess.Status.Succeed(slotIndex)
	return nil
}

// GenerateAll fires one generation per pairing slot concurrently. Each slot
// succeeds or fails on its own; the first error comes back to the caller
// after every slot has finished.
func GenerateAll(ctx context.Context, sess *Session) error {
	pairs := sess.Pairs()
	if len(pairs) == 0 {
		return fmt.Errorf("script is empty, nothing to generate")
	}

	errs := make(chan error, len(pairs))
	for _, pair := range pairs {
		go func(slot int) {
			errs <- GenerateSlot(ctx, sess, slot)
		}(pair.SlotIndex)
	}

	var firstErr error
	for range pairs {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ImportBookmark copies a pooled bookmark asset into a job slot. It shares
// the generation status lifecycle so the wizard shows the same spinner and
// the same transient success and error badges.
func ImportBookmark(ctx context.Context, sess *Session, kind, name string, slotIndex int) (engine.MediaItem, error) {
	sess.Status.Begin(slotIndex)

	objectName, size, err := CopyBookmark(ctx, kind, name, sess.JobID, slotIndex)
	if err != nil {
		sess.Status.Fail(slotIndex, err.Error())
		return engine.MediaItem{}, err
	}

	mediaKind, ok := engine.DetectKind("", name)
	if !ok {
		sess.Status.Fail(slotIndex, "unsupported bookmark file type")
		return engine.MediaItem{}, fmt.Errorf("unsupported bookmark file %q", name)
	}

	item := engine.MediaItem{
		SlotIndex:  slotIndex,
		Name:       name,
		Kind:       mediaKind,
		Size:       size,
		ObjectName: objectName,
		Source:     engine.SourceBookmark,
		AddedAt:    time.Now(),
	}
	prev, _ := sess.Media(slotIndex)
	if err := sess.UpsertMedia(item); err != nil {
		sess.Status.Fail(slotIndex, err.Error())
		return engine.MediaItem{}, err
	}
	RemoveReplacedObject(ctx, prev, item)
	if err := models.UpsertMediaAsset(models.GormDB, &models.MediaAsset{
		JobId:      sess.JobID,
		SlotIndex:  slotIndex,
		Filename:   item.Name,
		Kind:       string(item.Kind),
		Size:       item.Size,
		ObjectName: item.ObjectName,
		Source:     string(item.Source),
	}); err != nil {
		log.Printf("[Bookmark] persist media asset failed: job=%s slot=%d err=%v", sess.JobID, slotIndex, err)
	}

	sess.Status.Succeed(slotIndex)
	return item, nil
}
