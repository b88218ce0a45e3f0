package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusCreated   = "created"   // workspace allocated, wizard in progress
	JobStatusSubmitted = "submitted" // render task created and enqueued
	JobStatusRendering = "rendering" // render worker accepted the submission
	JobStatusCompleted = "completed" // final video stored and reachable
	JobStatusFailed    = "failed"
)

// Job is the persisted form of one wizard session: the client-generated job
// id scopes the MinIO workspace, the DB row and the in-memory session alike.
type Job struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserEmail   string    `json:"userEmail"`
	Title       string    `json:"title"`
	ContentJSON string    `gorm:"type:text" json:"contentJson"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	MusicMood   string    `json:"musicMood"`
	SelectedBGM string    `json:"selectedBgm"`
	VideoURL    string    `json:"videoUrl"`
	Error       string    `json:"error"`
	MediaCount  int       `json:"mediaCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Job) TableName() string {
	return "job"
}

func CreateJob(db *gorm.DB, j *Job) error {
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	return db.Create(j).Error
}

func GetJobByID(db *gorm.DB, id string) (*Job, error) {
	var j Job
	if err := db.First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (j *Job) UpdateStatus(db *gorm.DB, status, videoURL, errMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if videoURL != "" {
		updates["video_url"] = videoURL
	}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	return db.Model(j).Updates(updates).Error
}

// UpdateSnapshot persists the submitted wizard state onto the job row.
func (j *Job) UpdateSnapshot(db *gorm.DB, contentJSON, mode, musicMood, selectedBGM string, mediaCount int) error {
	updates := map[string]interface{}{
		"content_json": contentJSON,
		"mode":         mode,
		"music_mood":   musicMood,
		"selected_bgm": selectedBGM,
		"media_count":  mediaCount,
		"updated_at":   time.Now(),
	}
	return db.Model(j).Updates(updates).Error
}

func DeleteJobByID(db *gorm.DB, id string) error {
	return db.Delete(&Job{}, "id = ?", id).Error
}
