package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
)

func slotParam(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index: " + c.Param("slot")})
		return 0, false
	}
	return slot, true
}

// UploadMedia places an uploaded file into a wizard slot, replacing whatever
// was there.
// POST /api/jobs/:job_id/media/:slot
func UploadMedia(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file part: " + err.Error()})
		return
	}
	kind, ok := engine.DetectKind(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + fileHeader.Filename})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open upload failed: " + err.Error()})
		return
	}
	defer file.Close()

	item := engine.MediaItem{
		SlotIndex: slot,
		Name:      fileHeader.Filename,
		Kind:      kind,
		Size:      fileHeader.Size,
		Source:    engine.SourceUpload,
		AddedAt:   time.Now(),
	}
	// validate before touching storage or the session, so a bad file never
	// uploads and a failed replacement never evicts the current occupant
	if err := sess.ValidateMedia(item); err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	objectName := service.JobMediaObject(sess.JobID, slot, item.Ext())
	url, err := service.UploadToMinIO(c.Request.Context(), file, objectName, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store upload failed: " + err.Error()})
		return
	}
	item.ObjectName = objectName

	prev, _ := sess.Media(slot)
	if err := sess.UpsertMedia(item); err != nil {
		if rmErr := service.RemoveObject(c.Request.Context(), objectName); rmErr != nil {
			log.Printf("[Media] remove orphaned upload %s: %v", objectName, rmErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	service.RemoveReplacedObject(c.Request.Context(), prev, item)

	if err := models.UpsertMediaAsset(models.GormDB, &models.MediaAsset{
		JobId:      sess.JobID,
		SlotIndex:  slot,
		Filename:   item.Name,
		Kind:       string(item.Kind),
		Size:       item.Size,
		ObjectName: objectName,
		Source:     string(item.Source),
	}); err != nil {
		log.Printf("[Media] persist asset row failed: job=%s slot=%d err=%v", sess.JobID, slot, err)
	}
	persistJobSnapshot(sess)

	c.JSON(http.StatusOK, gin.H{
		"slot_index": slot,
		"name":       item.Name,
		"kind":       string(item.Kind),
		"size":       item.Size,
		"url":        url,
	})
}

// DeleteMedia clears a slot. The slot's custom prompt stays.
// DELETE /api/jobs/:job_id/media/:slot
func DeleteMedia(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	item, existed := sess.RemoveMedia(slot)
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"error": "slot is empty"})
		return
	}
	if item.ObjectName != "" {
		if err := service.RemoveObject(c.Request.Context(), item.ObjectName); err != nil {
			log.Printf("[Media] remove object failed: %v", err)
		}
	}
	if err := models.DeleteMediaAsset(models.GormDB, sess.JobID, slot); err != nil {
		log.Printf("[Media] delete asset row failed: job=%s slot=%d err=%v", sess.JobID, slot, err)
	}
	persistJobSnapshot(sess)

	c.JSON(http.StatusOK, gin.H{"slot_index": slot, "removed": true})
}

// ListMedia returns the job's media ordered by slot, with fresh view URLs.
// GET /api/jobs/:job_id/media
func ListMedia(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}

	type mediaView struct {
		SlotIndex int    `json:"slotIndex"`
		Name      string `json:"name"`
		Kind      string `json:"kind"`
		Size      int64  `json:"size"`
		URL       string `json:"url,omitempty"`
	}
	items := sess.MediaOrderedBySlot()
	out := make([]mediaView, 0, len(items))
	for _, item := range items {
		v := mediaView{
			SlotIndex: item.SlotIndex,
			Name:      item.Name,
			Kind:      string(item.Kind),
			Size:      item.Size,
		}
		if item.ObjectName != "" {
			if url, err := service.PresignedURL(c.Request.Context(), item.ObjectName); err == nil {
				v.URL = url
			} else {
				log.Printf("[Media] presign failed for %s: %v", item.ObjectName, err)
			}
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"media": out})
}
