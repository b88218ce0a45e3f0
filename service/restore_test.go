package service

import (
	"testing"

	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
)

func TestRebuildSessionFromPersistedState(t *testing.T) {
	content := contentOf(t, "a", "b", "c", "d")
	raw, err := content.WireJSON()
	if err != nil {
		t.Fatalf("encode content: %v", err)
	}
	job := &models.Job{
		ID:          "job-42",
		ContentJSON: string(raw),
		Mode:        string(engine.ModePerSegment),
		MusicMood:   "calm",
		SelectedBGM: "bgm/calm/track.mp3",
	}
	assets := []models.MediaAsset{
		{JobId: job.ID, SlotIndex: 0, Filename: "1.png", Kind: string(engine.KindImage), Size: 512, ObjectName: "jobs/job-42/media/1.png", Source: string(engine.SourceGenerated)},
		{JobId: job.ID, SlotIndex: 2, Filename: "3.mp4", Kind: string(engine.KindVideo), Size: 2048, ObjectName: "jobs/job-42/media/3.mp4", Source: string(engine.SourceUpload)},
		// stale row beyond the slot count, must not come back
		{JobId: job.ID, SlotIndex: 9, Filename: "10.png", Kind: string(engine.KindImage), Size: 64, ObjectName: "jobs/job-42/media/10.png"},
	}

	s := rebuildSession(job, assets, engine.DefaultLimits)

	if s.Mode() != engine.ModePerSegment {
		t.Errorf("mode = %q", s.Mode())
	}
	if got := s.RequiredSlotCount(); got != 4 {
		t.Errorf("required slots = %d, want 4", got)
	}
	if s.MusicMood != "calm" || s.SelectedBGM != "bgm/calm/track.mp3" {
		t.Errorf("music = %q / %q", s.MusicMood, s.SelectedBGM)
	}

	media := s.MediaOrderedBySlot()
	if len(media) != 2 {
		t.Fatalf("restored %d media items, want 2", len(media))
	}
	if media[0].SlotIndex != 0 || media[0].ObjectName != "jobs/job-42/media/1.png" {
		t.Errorf("slot 0 restored as %+v", media[0])
	}
	if media[1].SlotIndex != 2 || media[1].Kind != engine.KindVideo {
		t.Errorf("slot 2 restored as %+v", media[1])
	}

	// The render path builds its form from the snapshot; a restored session
	// must produce one without the live session that originally built it.
	snap := s.Snapshot()
	if snap.JobID != "job-42" || len(snap.Media) != 2 {
		t.Errorf("snapshot: job=%q media=%d", snap.JobID, len(snap.Media))
	}
}

func TestRebuildSessionEmptyJob(t *testing.T) {
	s := rebuildSession(&models.Job{ID: "job-empty"}, nil, engine.DefaultLimits)
	if got := s.RequiredSlotCount(); got != 0 {
		t.Errorf("required slots = %d, want 0", got)
	}
	if s.MusicMood != "bright" {
		t.Errorf("default mood = %q", s.MusicMood)
	}
}
