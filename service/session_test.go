package service

import (
	"testing"

	"ReelsWizard-server/engine"
)

func contentOf(t *testing.T, texts ...string) engine.ScriptContent {
	t.Helper()
	fields := map[string]string{"title": "Title"}
	for i, text := range texts {
		fields["body"+string(rune('1'+i))] = text
	}
	content, err := engine.ScriptContentFromFields(fields)
	if err != nil {
		t.Fatalf("build content: %v", err)
	}
	return content
}

func sessionWith(t *testing.T, texts ...string) *Session {
	t.Helper()
	m := NewSessionManager(engine.DefaultLimits)
	s := m.Create("job-1")
	s.SetContent(contentOf(t, texts...))
	return s
}

func mediaAt(slot int) engine.MediaItem {
	return engine.MediaItem{
		SlotIndex: slot,
		Name:      "m.png",
		Kind:      engine.KindImage,
		Size:      1024,
	}
}

func TestSessionModeSwitchTruncates(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d", "e")

	// 5 segments grouped in twos need 3 slots; slot 3 does not exist yet.
	for i := 0; i < 3; i++ {
		if err := s.UpsertMedia(mediaAt(i)); err != nil {
			t.Fatalf("upsert slot %d: %v", i, err)
		}
	}
	if err := s.UpsertMedia(mediaAt(3)); err == nil {
		t.Fatal("upsert beyond the required slot count should fail")
	}

	dropped, _ := s.SetMode(engine.ModePerSegment)
	if len(dropped) != 0 {
		t.Fatalf("widening to per-segment dropped %d items", len(dropped))
	}
	for i := 3; i < 5; i++ {
		if err := s.UpsertMedia(mediaAt(i)); err != nil {
			t.Fatalf("upsert slot %d after widening: %v", i, err)
		}
	}

	dropped, rePaired := s.SetMode(engine.ModeSingleForAll)
	if len(dropped) != 4 {
		t.Fatalf("single-for-all kept %d extra items, want 4 dropped", len(dropped))
	}
	if !rePaired {
		t.Error("expected re-pairing warning for surviving media")
	}
	if got := s.MediaOrderedBySlot(); len(got) != 1 || got[0].SlotIndex != 0 {
		t.Fatalf("survivor = %+v, want only slot 0", got)
	}
}

func TestSessionContentShrinkKeepsLowestSlots(t *testing.T) {
	s := sessionWith(t, "a", "b", "c", "d", "e", "f")
	s.SetMode(engine.ModePerSegment)
	for i := 0; i < 6; i++ {
		if err := s.UpsertMedia(mediaAt(i)); err != nil {
			t.Fatalf("upsert slot %d: %v", i, err)
		}
	}

	dropped := s.SetContent(contentOf(t, "a", "b"))
	if len(dropped) != 4 {
		t.Fatalf("dropped %d items, want 4", len(dropped))
	}
	for i, item := range dropped {
		if want := i + 2; item.SlotIndex != want {
			t.Errorf("dropped[%d].SlotIndex = %d, want %d", i, item.SlotIndex, want)
		}
	}
}

func TestSessionRemoveMediaKeepsPrompt(t *testing.T) {
	s := sessionWith(t, "a", "b")
	s.SetMode(engine.ModePerSegment)
	s.SetPrompt(1, "neon alley at night", true)
	if err := s.UpsertMedia(mediaAt(1)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, ok := s.RemoveMedia(1); !ok {
		t.Fatal("remove reported missing media")
	}
	if _, ok := s.RemoveMedia(1); ok {
		t.Fatal("second remove should be a no-op")
	}

	var pair engine.TextMediaPair
	found := false
	for _, p := range s.Pairs() {
		if p.SlotIndex == 1 {
			pair, found = p, true
		}
	}
	if !found {
		t.Fatal("slot 1 missing from pairs")
	}
	if pair.Media != nil {
		t.Error("media survived removal")
	}
	if pair.CustomPrompt != "neon alley at night" || !pair.UseCustomPrompt {
		t.Errorf("custom prompt lost on media removal: %+v", pair)
	}
}

func TestSessionSnapshotIsDetached(t *testing.T) {
	s := sessionWith(t, "a", "b", "c")
	s.SetMode(engine.ModePerSegment)
	s.SetEditedTexts(0, []string{"edited"})
	s.SetPanning(1, false)
	_ = s.UpsertMedia(mediaAt(0))

	snap := s.Snapshot()
	if snap.Mode != engine.ModePerSegment {
		t.Errorf("snapshot mode = %q", snap.Mode)
	}
	if len(snap.Media) != 1 {
		t.Fatalf("snapshot media = %d items", len(snap.Media))
	}
	if got := snap.Panning["1"]; got {
		t.Error("panning override missing from snapshot")
	}
	if got := snap.Panning["2"]; !got {
		t.Error("default panning should be on")
	}

	// Mutating the session afterwards must not leak into the snapshot.
	s.SetEditedTexts(0, []string{"changed"})
	if snap.EditedTexts[0][0] != "edited" {
		t.Error("snapshot shares edited-texts storage with the session")
	}
}

func TestValidateMediaDoesNotMutate(t *testing.T) {
	s := sessionWith(t, "a", "b", "c")

	current := mediaAt(0)
	current.Name = "keeper.png"
	if err := s.UpsertMedia(current); err != nil {
		t.Fatalf("seed slot 0: %v", err)
	}

	oversize := mediaAt(0)
	oversize.Name = "huge.mp4"
	oversize.Kind = engine.KindVideo
	oversize.Size = engine.DefaultLimits.PerSlotBytes + 1
	if err := s.ValidateMedia(oversize); err == nil {
		t.Fatal("oversize replacement should be rejected")
	}
	if item, ok := s.Media(0); !ok || item.Name != "keeper.png" {
		t.Fatalf("rejected replacement disturbed slot 0: %+v ok=%v", item, ok)
	}

	fits := mediaAt(0)
	fits.Name = "fits.png"
	if err := s.ValidateMedia(fits); err != nil {
		t.Fatalf("valid replacement rejected: %v", err)
	}
	if item, _ := s.Media(0); item.Name != "keeper.png" {
		t.Fatalf("validation replaced slot 0 with %q", item.Name)
	}
}
