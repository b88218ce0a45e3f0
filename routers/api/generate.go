package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
)

// generation runs detached from the request; the wizard polls slot statuses
// through GET pairs / slot-status.
const generateTimeout = 10 * time.Minute

// GenerateImages kicks off AI image generation for every pairing slot.
// POST /api/generate-images
func GenerateImages(c *gin.Context) {
	var req struct {
		JobID string `json:"job_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := sessionByID(c, req.JobID)
	if !ok {
		return
	}
	pairs := sess.Pairs()
	if len(pairs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "script is empty, nothing to generate"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		if err := service.GenerateAll(ctx, sess); err != nil {
			log.Printf("[Generate] batch failed: job=%s err=%v", sess.JobID, err)
		}
		persistJobSnapshot(sess)
	}()

	c.JSON(http.StatusAccepted, gin.H{"job_id": sess.JobID, "slots": len(pairs)})
}

// GenerateSingleImage regenerates one slot.
// POST /api/generate-single-image
func GenerateSingleImage(c *gin.Context) {
	var req struct {
		JobID     string `json:"job_id" binding:"required"`
		SlotIndex *int   `json:"slot_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := sessionByID(c, req.JobID)
	if !ok {
		return
	}
	slot := *req.SlotIndex
	if _, ok := sess.PairForSlot(slot); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot does not exist for the current script"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		if err := service.GenerateSlot(ctx, sess, slot); err != nil {
			log.Printf("[Generate] slot failed: job=%s slot=%d err=%v", sess.JobID, slot, err)
		}
		persistJobSnapshot(sess)
	}()

	c.JSON(http.StatusAccepted, gin.H{"job_id": sess.JobID, "slot_index": slot})
}

// GetSlotStatus reports the transient per-slot generation states.
// GET /api/jobs/:job_id/slot-status
func GetSlotStatus(c *gin.Context) {
	sess, ok := sessionOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot_status": sess.Status.Snapshot()})
}
