package api

import (
	"errors"
	"net/http"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
)

// ListBookmarkVideos lists the shared, reusable video pool.
// GET /api/bookmark-videos
func ListBookmarkVideos(c *gin.Context) {
	entries, err := service.ListBookmarkVideos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": entries})
}

// ListBookmarkImages lists the shared, reusable image pool.
// GET /api/bookmark-images
func ListBookmarkImages(c *gin.Context) {
	entries, err := service.ListBookmarkImages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": entries})
}

// CopyBookmarkVideo imports a pooled video into a wizard slot.
// POST /api/copy-bookmark-video
func CopyBookmarkVideo(c *gin.Context) {
	copyBookmark(c, "video")
}

// CopyBookmarkImage imports a pooled image into a wizard slot.
// POST /api/copy-bookmark-image
func CopyBookmarkImage(c *gin.Context) {
	copyBookmark(c, "image")
}

// copyBookmark does a server-side copy from the pool into the job's media
// prefix, then registers the result through the same path as uploads.
func copyBookmark(c *gin.Context, kind string) {
	var req struct {
		JobID      string `json:"job_id" binding:"required"`
		Filename   string `json:"filename" binding:"required"`
		ImageIndex *int   `json:"image_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := sessionByID(c, req.JobID)
	if !ok {
		return
	}

	item, err := service.ImportBookmark(c.Request.Context(), sess, kind, req.Filename, *req.ImageIndex)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	persistJobSnapshot(sess)

	url, err := service.PresignedURL(c.Request.Context(), item.ObjectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slot_index": item.SlotIndex,
		"filename":   item.Name,
		"kind":       string(item.Kind),
		"size":       item.Size,
		"file_url":   url,
	})
}
