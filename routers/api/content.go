package api

import (
	"io"
	"log"
	"net/http"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
)

// UpdateContent replaces the job's script. Media beyond the new slot count is
// dropped, lowest slots first, and reported back so the UI can warn.
// PUT /api/jobs/:job_id/content
func UpdateContent(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed: " + err.Error()})
		return
	}
	content, err := engine.ParseScriptContent(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dropped := sess.SetContent(content)
	dropAssetRows(sess, dropped, "[Content]")
	persistJobSnapshot(sess)

	c.JSON(http.StatusOK, gin.H{
		"required_slots": sess.RequiredSlotCount(),
		"dropped_slots":  droppedSlots(dropped),
		"pairs":          sess.Pairs(),
	})
}

// SetAllocationMode switches how script segments map to media slots.
// POST /api/jobs/:job_id/mode
func SetAllocationMode(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := engine.ParseAllocationMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dropped, rePaired := sess.SetMode(mode)
	dropAssetRows(sess, dropped, "[Mode]")
	persistJobSnapshot(sess)

	c.JSON(http.StatusOK, gin.H{
		"mode":           string(mode),
		"required_slots": sess.RequiredSlotCount(),
		"dropped_slots":  droppedSlots(dropped),
		"re_paired":      rePaired,
		"pairs":          sess.Pairs(),
	})
}

// GetPairs returns the current pairing view plus transient slot statuses.
// GET /api/jobs/:job_id/pairs
func GetPairs(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":           string(sess.Mode()),
		"required_slots": sess.RequiredSlotCount(),
		"pairs":          sess.Pairs(),
		"slot_status":    sess.Status.Snapshot(),
	})
}

// SetCustomPrompt stores or toggles a per-slot prompt override.
// POST /api/jobs/:job_id/prompt
func SetCustomPrompt(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	var req struct {
		SlotIndex *int   `json:"slot_index" binding:"required"`
		Text      string `json:"text"`
		Enabled   bool   `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.SetPrompt(*req.SlotIndex, req.Text, req.Enabled)
	c.JSON(http.StatusOK, gin.H{"slot_index": *req.SlotIndex, "enabled": req.Enabled})
}

// SetPanning toggles the Ken Burns pan for one slot.
// POST /api/jobs/:job_id/panning
func SetPanning(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	var req struct {
		SlotIndex *int  `json:"slot_index" binding:"required"`
		Enabled   *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.SetPanning(*req.SlotIndex, *req.Enabled)
	c.JSON(http.StatusOK, gin.H{"slot_index": *req.SlotIndex, "enabled": *req.Enabled})
}

// SetEditedTexts records the live per-slot text edits from the authoring UI.
// POST /api/jobs/:job_id/edited-texts
func SetEditedTexts(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	var req struct {
		SlotIndex *int     `json:"slot_index" binding:"required"`
		Texts     []string `json:"texts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.SetEditedTexts(*req.SlotIndex, req.Texts)
	c.JSON(http.StatusOK, gin.H{"slot_index": *req.SlotIndex})
}

// persistJobSnapshot mirrors the session into the job row so a page reload
// can restore the wizard.
func persistJobSnapshot(sess *service.Session) {
	snap := sess.Snapshot()
	contentJSON, err := snap.Content.WireJSON()
	if err != nil {
		log.Printf("[Snapshot] encode content failed: job=%s err=%v", sess.JobID, err)
		return
	}
	job, err := models.GetJobByID(models.GormDB, sess.JobID)
	if err != nil {
		log.Printf("[Snapshot] job row missing: job=%s err=%v", sess.JobID, err)
		return
	}
	if err := job.UpdateSnapshot(models.GormDB, string(contentJSON), string(snap.Mode), snap.MusicMood, snap.SelectedBGM, len(snap.Media)); err != nil {
		log.Printf("[Snapshot] persist failed: job=%s err=%v", sess.JobID, err)
	}
}

// dropAssetRows removes the persisted rows for media that fell off a resize.
// Drops are always the contiguous tail at and above the new slot count, so a
// single ranged delete covers them.
func dropAssetRows(sess *service.Session, dropped []engine.MediaItem, tag string) {
	if len(dropped) == 0 {
		return
	}
	from := sess.RequiredSlotCount()
	if err := models.DeleteMediaAssetsFrom(models.GormDB, sess.JobID, from); err != nil {
		log.Printf("%s drop media rows failed: job=%s from=%d err=%v", tag, sess.JobID, from, err)
	}
}

func droppedSlots(items []engine.MediaItem) []int {
	slots := make([]int, 0, len(items))
	for _, item := range items {
		slots = append(slots, item.SlotIndex)
	}
	return slots
}
