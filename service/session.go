package service

import (
	"fmt"
	"sync"
	"time"

	"ReelsWizard-server/engine"
)

// Session is the authoritative in-memory wizard state for one job. Everything
// the pairing engine owns — script, registry, mode, prompts, panning, slot
// status — lives here and is mutated only under the session lock; handlers
// and async completions alike go through these methods, so "last write wins
// by completion order" is the only ordering on a slot.
type Session struct {
	mu sync.Mutex

	JobID   string
	limits  engine.Limits
	content engine.ScriptContent
	mode    engine.AllocationMode

	registry *engine.Registry
	prompts  engine.PromptSet
	panning  engine.PanningOptions
	Status   *engine.StatusBoard

	// Live per-slot text edits, newest state of the authoring UI. Read at
	// generation-request time, never by the pairing view.
	editedTexts map[int][]string

	MusicMood   string
	SelectedBGM string

	CreatedAt time.Time
}

func newSession(jobID string, limits engine.Limits) *Session {
	return &Session{
		JobID:       jobID,
		limits:      limits,
		mode:        engine.ModePerTwoSegments,
		registry:    engine.NewRegistry(),
		prompts:     engine.PromptSet{},
		panning:     engine.PanningOptions{},
		Status:      engine.NewStatusBoard(),
		editedTexts: make(map[int][]string),
		MusicMood:   "bright",
		CreatedAt:   time.Now(),
	}
}

// SetContent swaps in a new script snapshot and re-derives the slot count;
// registry and panning shrink to fit, keeping the lowest slot indices.
// Returns the media items that fell off.
func (s *Session) SetContent(content engine.ScriptContent) []engine.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	return s.resizeLocked()
}

// SetMode switches the allocation policy. Media keeps its raw slot index —
// there is no renumbering, so a surviving slot may now sit next to different
// text. Returns the dropped items and whether any survivors were re-paired,
// which callers surface as a warning.
func (s *Session) SetMode(mode engine.AllocationMode) (dropped []engine.MediaItem, rePaired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.mode != mode
	s.mode = mode
	dropped = s.resizeLocked()
	rePaired = changed && s.registry.Len() > 0
	return dropped, rePaired
}

func (s *Session) resizeLocked() []engine.MediaItem {
	count := engine.RequiredSlotCount(s.content.FilledCount(), s.mode)
	dropped := s.registry.TruncateTo(count)
	s.panning.Resize(count)
	for _, item := range dropped {
		s.Status.Clear(item.SlotIndex)
	}
	return dropped
}

func (s *Session) checkSlotLocked(item engine.MediaItem) error {
	count := engine.RequiredSlotCount(s.content.FilledCount(), s.mode)
	if item.SlotIndex >= count {
		return &engine.ValidationError{
			Reason: fmt.Sprintf("slot %d does not exist, the script needs %d", item.SlotIndex, count),
		}
	}
	return engine.ValidateItem(item, s.mode.SizeLimit(s.limits))
}

// ValidateMedia runs the full ingestion checks for an item without mutating
// anything. A rejected replacement must leave the slot's current occupant in
// place, so callers validate first, stage the payload, then upsert.
func (s *Session) ValidateMedia(item engine.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkSlotLocked(item)
}

// UpsertMedia is the single ingestion path: manual upload, AI generation and
// bookmark import all land here, with the mode-dependent size cap applied.
// Slots outside the current required count are rejected rather than silently
// truncated on the next resize.
func (s *Session) UpsertMedia(item engine.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSlotLocked(item); err != nil {
		return err
	}
	return s.registry.Upsert(item, s.mode.SizeLimit(s.limits))
}

// Media returns the current occupant of a slot.
func (s *Session) Media(slotIndex int) (engine.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(slotIndex)
}

// RemoveMedia clears a slot along with its transient generation status.
// Custom prompts survive: their lifecycle is independent of the media.
func (s *Session) RemoveMedia(slotIndex int) (engine.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.registry.Get(slotIndex)
	if !ok {
		return engine.MediaItem{}, false
	}
	s.registry.RemoveAt(slotIndex)
	s.Status.Clear(slotIndex)
	return item, true
}

// Pairs rebuilds the display view from the current state.
func (s *Session) Pairs() []engine.TextMediaPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.BuildPairs(s.content, s.registry, s.mode, s.prompts, s.panning)
}

// PairForSlot resolves one slot's pair, or false when the slot does not
// exist under the current script and mode.
func (s *Session) PairForSlot(slotIndex int) (engine.TextMediaPair, bool) {
	for _, p := range s.Pairs() {
		if p.SlotIndex == slotIndex {
			return p, true
		}
	}
	return engine.TextMediaPair{}, false
}

func (s *Session) SetPrompt(slotIndex int, text string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts.Set(slotIndex, text, enabled)
}

func (s *Session) SetPanning(slotIndex int, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panning.Set(slotIndex, enabled)
}

// SetEditedTexts records the authoring UI's live text for a slot.
func (s *Session) SetEditedTexts(slotIndex int, texts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editedTexts[slotIndex] = append([]string(nil), texts...)
}

// EditedTexts returns a copy of the live edits for a slot.
func (s *Session) EditedTexts(slotIndex int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.editedTexts[slotIndex]...)
}

func (s *Session) Mode() engine.AllocationMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Content() engine.ScriptContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *Session) RequiredSlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.RequiredSlotCount(s.content.FilledCount(), s.mode)
}

func (s *Session) MediaOrderedBySlot() []engine.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ListOrderedBySlot()
}

func (s *Session) SetMusic(mood, bgmPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MusicMood = mood
	s.SelectedBGM = bgmPath
}

// Snapshot captures everything the render submission needs as plain values;
// the wizard's later steps read it immutably.
type SessionSnapshot struct {
	JobID       string
	Content     engine.ScriptContent
	Mode        engine.AllocationMode
	Media       []engine.MediaItem
	EditedTexts map[int][]string
	Panning     map[string]bool
	MusicMood   string
	SelectedBGM string
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	edited := make(map[int][]string, len(s.editedTexts))
	for k, v := range s.editedTexts {
		edited[k] = append([]string(nil), v...)
	}
	count := engine.RequiredSlotCount(s.content.FilledCount(), s.mode)
	return SessionSnapshot{
		JobID:       s.JobID,
		Content:     s.content,
		Mode:        s.mode,
		Media:       s.registry.ListOrderedBySlot(),
		EditedTexts: edited,
		Panning:     s.panning.WorkerMap(count),
		MusicMood:   s.MusicMood,
		SelectedBGM: s.SelectedBGM,
	}
}

// SessionManager owns all live sessions, keyed by job id.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limits   engine.Limits
}

func NewSessionManager(limits engine.Limits) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		limits:   limits,
	}
}

// Create registers a session for the job id, returning the existing one when
// the frontend retries job-folder creation.
func (m *SessionManager) Create(jobID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[jobID]; ok {
		return s
	}
	s := newSession(jobID, m.limits)
	m.sessions[jobID] = s
	return s
}

func (m *SessionManager) Get(jobID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[jobID]
	return s, ok
}

func (m *SessionManager) Delete(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, jobID)
}

// Sessions is the process-wide manager, initialized in main.
var Sessions *SessionManager

func InitSessions(limits engine.Limits) {
	Sessions = NewSessionManager(limits)
}
