package store

import (
	"strings"
	"testing"
)

func TestTitleFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first line", "Compras\nleite\npão", "Compras"},
		{"strips heading markers", "# Plano da semana\n...", "Plano da semana"},
		{"skips blank lines", "\n\n  \nReal title", "Real title"},
		{"caps length", strings.Repeat("a", 100), strings.Repeat("a", 40)},
		{"empty falls back", "   \n \n", "Nova nota"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFromContent(tt.content); got != tt.want {
				t.Errorf("titleFromContent(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestNotesStore_AddDerivesTitle(t *testing.T) {
	s, err := NewNotesStore(newMemStore())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	note := s.Add("Receita de bolo\n2 ovos\n1 xícara de açúcar")
	if note.Title != "Receita de bolo" {
		t.Errorf("expected derived title, got %q", note.Title)
	}
	if note.CreatedAt == "" || note.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestNotesStore_UpdateRederivesTitle(t *testing.T) {
	s, _ := NewNotesStore(newMemStore())
	note := s.Add("Old title\nbody")

	s.Update(note.ID, "New title\nbody")

	got, ok := s.Get(note.ID)
	if !ok {
		t.Fatal("expected note to exist")
	}
	if got.Title != "New title" {
		t.Errorf("expected re-derived title, got %q", got.Title)
	}
	if got.CreatedAt != note.CreatedAt {
		t.Error("expected CreatedAt unchanged")
	}
}

func TestNotesStore_DiscardIfEmpty(t *testing.T) {
	s, _ := NewNotesStore(newMemStore())

	empty := s.Add("   \n ")
	kept := s.Add("content")

	if !s.DiscardIfEmpty(empty.ID) {
		t.Error("expected blank note to be discarded")
	}
	if s.DiscardIfEmpty(kept.ID) {
		t.Error("expected non-empty note to survive")
	}

	if len(s.Notes()) != 1 {
		t.Errorf("expected 1 note, got %d", len(s.Notes()))
	}
}
