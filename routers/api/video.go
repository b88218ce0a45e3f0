package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"ReelsWizard-server/models"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type renderRequest struct {
	JobID            string  `json:"job_id" binding:"required"`
	TextPosition     string  `json:"text_position"`
	TextStyle        string  `json:"text_style"`
	TitleAreaMode    string  `json:"title_area_mode"`
	TitleFont        string  `json:"title_font"`
	BodyFont         string  `json:"body_font"`
	TitleFontSize    int     `json:"title_font_size"`
	BodyFontSize     int     `json:"body_font_size"`
	VoiceNarration   string  `json:"voice_narration"`
	CrossDissolve    string  `json:"cross_dissolve"`
	SubtitleDuration float64 `json:"subtitle_duration"`
	MusicMood        string  `json:"music_mood"`
	SelectedBGM      string  `json:"selected_bgm"`
}

// createRenderTask stores a render task for the job's current state and
// enqueues it.
func createRenderTask(c *gin.Context) (*models.RenderTask, *service.Session, bool) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	sess, ok := sessionByID(c, req.JobID)
	if !ok {
		return nil, nil, false
	}
	if req.MusicMood != "" || req.SelectedBGM != "" {
		sess.SetMusic(req.MusicMood, req.SelectedBGM)
	}

	snap := sess.Snapshot()
	if len(snap.Media) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no media assigned to any slot"})
		return nil, nil, false
	}
	if snap.Content.FilledCount() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "script is empty"})
		return nil, nil, false
	}

	editedJSON := ""
	if len(snap.EditedTexts) > 0 {
		keyed := make(map[string][]string, len(snap.EditedTexts))
		for slot, texts := range snap.EditedTexts {
			keyed[strconv.Itoa(slot)] = texts
		}
		if b, err := json.Marshal(keyed); err == nil {
			editedJSON = string(b)
		}
	}
	panningJSON := ""
	if b, err := json.Marshal(snap.Panning); err == nil {
		panningJSON = string(b)
	}

	task := &models.RenderTask{
		ID:     uuid.NewString(),
		JobId:  sess.JobID,
		Type:   models.TaskTypeRenderVideo,
		Status: models.TaskStatusPending,
		Parameters: models.RenderParams{
			Mode:               snap.Mode.WorkerMode(),
			TextPosition:       req.TextPosition,
			TextStyle:          req.TextStyle,
			TitleAreaMode:      req.TitleAreaMode,
			TitleFont:          req.TitleFont,
			BodyFont:           req.BodyFont,
			TitleFontSize:      req.TitleFontSize,
			BodyFontSize:       req.BodyFontSize,
			VoiceNarration:     req.VoiceNarration,
			CrossDissolve:      req.CrossDissolve,
			SubtitleDuration:   req.SubtitleDuration,
			EditedTextsJSON:    editedJSON,
			PanningOptionsJSON: panningJSON,
		},
	}
	if err := models.CreateRenderTask(models.GormDB, task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create task failed: " + err.Error()})
		return nil, nil, false
	}
	persistJobSnapshot(sess)

	if job, err := models.GetJobByID(models.GormDB, sess.JobID); err == nil {
		job.UpdateStatus(models.GormDB, models.JobStatusSubmitted, "", "")
	}
	if err := service.EnqueueRenderTask(task.ID); err != nil {
		task.UpdateStatus(models.GormDB, models.TaskStatusFailed, nil, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed: " + err.Error()})
		return nil, nil, false
	}
	return task, sess, true
}

// GenerateVideoAsync submits the render and returns immediately; the client
// follows the task by id.
// POST /api/generate-video-async
func GenerateVideoAsync(c *gin.Context) {
	task, sess, ok := createRenderTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID, "job_id": sess.JobID})
}

// GenerateVideo submits the render and blocks until the worker finishes or
// the wait budget runs out, then returns the final video URL.
// POST /api/generate-video
func GenerateVideo(c *gin.Context) {
	task, _, ok := createRenderTask(c)
	if !ok {
		return
	}

	timeout := time.After(30 * time.Minute)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			c.JSON(http.StatusGatewayTimeout, gin.H{"task_id": task.ID, "error": "render did not finish in time"})
			return
		case <-c.Request.Context().Done():
			log.Printf("[Video] client went away, task %s keeps running", task.ID)
			return
		case <-ticker.C:
			cur, err := models.GetRenderTaskByID(models.GormDB, task.ID)
			if err != nil {
				continue
			}
			switch cur.Status {
			case models.TaskStatusFinished:
				c.JSON(http.StatusOK, gin.H{
					"task_id":   cur.ID,
					"video_url": cur.Result.VideoURL,
				})
				return
			case models.TaskStatusFailed:
				c.JSON(http.StatusInternalServerError, gin.H{
					"task_id": cur.ID,
					"error":   cur.Error,
				})
				return
			}
		}
	}
}
