package store

import (
	"fmt"
	"strings"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"

	"github.com/google/uuid"
)

const (
	notesKey = "weedoo_notes"

	noteTitleMaxRunes = 40
	untitledNote      = "Nova nota"
)

type NotesStore struct {
	notifier
	mu    sync.Mutex
	db    storage.Store
	notes []*domain.Note
}

func NewNotesStore(db storage.Store) (*NotesStore, error) {
	var snap domain.NotesSnapshot
	if err := load(db, notesKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return &NotesStore{db: db, notes: snap.Notes}, nil
}

// Add creates a note with a title derived from the content. The note may be
// empty: it stays provisional until DiscardIfEmpty decides its fate.
func (s *NotesStore) Add(content string) *domain.Note {
	ts := now()
	note := &domain.Note{
		ID:        uuid.New().String(),
		Title:     titleFromContent(content),
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	s.mu.Lock()
	s.notes = append([]*domain.Note{note}, s.notes...)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return note
}

func (s *NotesStore) Update(id, content string) {
	s.mu.Lock()
	changed := false
	for i, n := range s.notes {
		if n.ID == id {
			copied := *n
			copied.Content = content
			copied.Title = titleFromContent(content)
			copied.UpdatedAt = now()
			s.notes[i] = &copied
			changed = true
			break
		}
	}
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *NotesStore) Delete(id string) {
	s.mu.Lock()
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	changed := len(kept) != len(s.notes)
	s.notes = kept
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// DiscardIfEmpty deletes the note when its content is blank. Called when the
// user navigates away from a freshly opened note. Reports whether the note was
// discarded.
func (s *NotesStore) DiscardIfEmpty(id string) bool {
	s.mu.Lock()
	discarded := false
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID == id && strings.TrimSpace(n.Content) == "" {
			discarded = true
			continue
		}
		kept = append(kept, n)
	}
	s.notes = kept
	if discarded {
		s.persistLocked()
	}
	s.mu.Unlock()
	if discarded {
		s.notify()
	}
	return discarded
}

func (s *NotesStore) Notes() []*domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *NotesStore) Get(id string) (*domain.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (s *NotesStore) Snapshot() domain.NotesSnapshot {
	return domain.NotesSnapshot{Notes: s.Notes()}
}

func (s *NotesStore) Replace(snap domain.NotesSnapshot) {
	s.mu.Lock()
	s.notes = snap.Notes
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *NotesStore) persistLocked() {
	persist(s.db, notesKey, domain.NotesSnapshot{Notes: s.notes})
}

// titleFromContent derives the note title from the first non-blank line,
// capped at noteTitleMaxRunes runes.
func titleFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > noteTitleMaxRunes {
			return string(runes[:noteTitleMaxRunes])
		}
		return line
	}
	return untitledNote
}
