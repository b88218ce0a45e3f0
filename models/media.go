package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaAsset mirrors one registry slot occupant into the database so a job's
// media survives a server restart. Unique per (job_id, slot_index); an upsert
// replaces the previous occupant in the same statement shape the in-memory
// registry uses.
type MediaAsset struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	JobId      string    `gorm:"index:idx_media_job_slot,unique" json:"jobId"`
	SlotIndex  int       `gorm:"index:idx_media_job_slot,unique" json:"slotIndex"`
	Filename   string    `json:"filename"`
	Kind       string    `json:"kind"`
	Size       int64     `json:"size"`
	ObjectName string    `json:"objectName"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (MediaAsset) TableName() string {
	return "media_asset"
}

// UpsertMediaAsset replaces whatever occupies the slot. Delete-then-insert in
// one transaction keeps the unique index honest without dialect-specific
// upsert SQL.
func UpsertMediaAsset(db *gorm.DB, a *MediaAsset) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&MediaAsset{}, "job_id = ? AND slot_index = ?", a.JobId, a.SlotIndex).Error; err != nil {
			return err
		}
		return tx.Create(a).Error
	})
}

func DeleteMediaAsset(db *gorm.DB, jobID string, slotIndex int) error {
	return db.Delete(&MediaAsset{}, "job_id = ? AND slot_index = ?", jobID, slotIndex).Error
}

// DeleteMediaAssetsFrom drops every asset at slot_index >= the cutoff,
// matching the registry truncation on mode change.
func DeleteMediaAssetsFrom(db *gorm.DB, jobID string, fromSlot int) error {
	return db.Delete(&MediaAsset{}, "job_id = ? AND slot_index >= ?", jobID, fromSlot).Error
}

func GetMediaAssetsByJobID(db *gorm.DB, jobID string) ([]MediaAsset, error) {
	var assets []MediaAsset
	err := db.Where("job_id = ?", jobID).Order("slot_index ASC").Find(&assets).Error
	return assets, err
}

func DeleteMediaAssetsByJobID(db *gorm.DB, jobID string) error {
	return db.Delete(&MediaAsset{}, "job_id = ?", jobID).Error
}
