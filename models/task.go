package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusFinished   = "finished"
	TaskStatusFailed     = "failed"

	TaskTypeRenderVideo = "render_video"
)

// RenderTask tracks one submission to the render worker from enqueue to the
// finished video.
type RenderTask struct {
	ID         string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	JobId      string       `gorm:"index" json:"jobId"`
	Type       string       `json:"type"`
	Status     string       `json:"status"`
	Progress   int          `json:"progress"`
	Message    string       `json:"message"`
	Parameters RenderParams `gorm:"type:json" json:"parameters"`
	Result     RenderResult `gorm:"type:json" json:"result"`
	Error      string       `json:"error"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (RenderTask) TableName() string {
	return "render_task"
}

// RenderParams carries the styling knobs the wizard collected; the media and
// content snapshot travel via the job row and object storage.
type RenderParams struct {
	Mode               string  `json:"mode"`
	TextPosition       string  `json:"text_position"`
	TextStyle          string  `json:"text_style"`
	TitleAreaMode      string  `json:"title_area_mode"`
	TitleFont          string  `json:"title_font,omitempty"`
	BodyFont           string  `json:"body_font,omitempty"`
	TitleFontSize      int     `json:"title_font_size,omitempty"`
	BodyFontSize       int     `json:"body_font_size,omitempty"`
	VoiceNarration     string  `json:"voice_narration"`
	CrossDissolve      string  `json:"cross_dissolve"`
	SubtitleDuration   float64 `json:"subtitle_duration,omitempty"`
	EditedTextsJSON    string  `json:"edited_texts,omitempty"`
	PanningOptionsJSON string  `json:"image_panning_options,omitempty"`
}

// RenderResult keeps the minimal resource locators the UI needs.
type RenderResult struct {
	WorkerJobID string `json:"worker_job_id,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

func (p RenderParams) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *RenderParams) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}
	return json.Unmarshal(bytes, p)
}

func (r RenderResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RenderResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}
	return json.Unmarshal(bytes, r)
}

func CreateRenderTask(db *gorm.DB, t *RenderTask) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return db.Create(t).Error
}

func GetRenderTaskByID(db *gorm.DB, id string) (*RenderTask, error) {
	var t RenderTask
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func GetLatestRenderTaskByJobID(db *gorm.DB, jobID string) (*RenderTask, error) {
	var t RenderTask
	if err := db.Where("job_id = ?", jobID).Order("created_at DESC").First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *RenderTask) UpdateStatus(db *gorm.DB, status string, result *RenderResult, errMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	switch status {
	case TaskStatusProcessing:
		updates["started_at"] = time.Now()
	case TaskStatusFinished, TaskStatusFailed:
		updates["finished_at"] = time.Now()
	}
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return err
		}
		updates["result"] = b
	}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	return db.Model(t).Updates(updates).Error
}

// UpdateRenderTaskProgress writes progress/message with dynamic SQL; callers
// pass nil for fields they do not touch.
func UpdateRenderTaskProgress(id string, progress *int, message *string) error {
	sets := []string{}
	args := []interface{}{}
	if progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *progress)
	}
	if message != nil {
		sets = append(sets, "message = ?")
		args = append(args, *message)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id)

	query := fmt.Sprintf("UPDATE render_task SET %s WHERE id = ?", strings.Join(sets, ", "))
	_, err := DB.Exec(query, args...)
	return err
}
