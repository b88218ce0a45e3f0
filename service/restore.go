package service

import (
	"log"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
)

// LookupSession resolves the wizard session for a job, falling back to the
// database when the process restarted since the wizard started. The job row
// and its media asset mirror outlive the process, so a cold lookup rebuilds
// the session from persisted state and re-registers it.
func LookupSession(jobID string) (*Session, bool) {
	if s, ok := Sessions.Get(jobID); ok {
		return s, true
	}
	job, err := models.GetJobByID(models.GormDB, jobID)
	if err != nil {
		return nil, false
	}
	assets, err := models.GetMediaAssetsByJobID(models.GormDB, jobID)
	if err != nil {
		log.Printf("[Session] load media assets for %s: %v", jobID, err)
		assets = nil
	}
	return Sessions.restore(job, assets), true
}

// restore installs a rebuilt session, unless a concurrent lookup already did.
func (m *SessionManager) restore(job *models.Job, assets []models.MediaAsset) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[job.ID]; ok {
		return s
	}
	s := rebuildSession(job, assets, m.limits)
	m.sessions[job.ID] = s
	log.Printf("[Session] restored %s from persisted state: %d media", job.ID, len(assets))
	return s
}

// rebuildSession reconstructs wizard state from the job row and its media
// asset rows. Transient state does not survive a restart: slot statuses,
// custom prompts and live text edits come back empty. The pairing inputs
// come back whole, which is what render tasks and the media handlers need.
func rebuildSession(job *models.Job, assets []models.MediaAsset, limits engine.Limits) *Session {
	s := newSession(job.ID, limits)
	if job.ContentJSON != "" {
		content, err := engine.ParseScriptContent([]byte(job.ContentJSON))
		if err != nil {
			log.Printf("[Session] job %s has unreadable content snapshot: %v", job.ID, err)
		} else {
			s.SetContent(content)
		}
	}
	if job.Mode != "" {
		mode, err := engine.ParseAllocationMode(job.Mode)
		if err != nil {
			log.Printf("[Session] job %s has unknown mode %q: %v", job.ID, job.Mode, err)
		} else {
			s.SetMode(mode)
		}
	}
	if job.MusicMood != "" {
		s.SetMusic(job.MusicMood, job.SelectedBGM)
	}
	for _, a := range assets {
		item := engine.MediaItem{
			SlotIndex:  a.SlotIndex,
			Name:       a.Filename,
			Kind:       engine.MediaKind(a.Kind),
			Size:       a.Size,
			ObjectName: a.ObjectName,
			Source:     engine.MediaSource(a.Source),
			AddedAt:    a.UpdatedAt,
		}
		if err := s.UpsertMedia(item); err != nil {
			log.Printf("[Session] job %s: skipping stored media at slot %d: %v", job.ID, a.SlotIndex, err)
		}
	}
	return s
}
