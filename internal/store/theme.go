package store

import (
	"fmt"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"
)

const themeKey = "weedoo_theme"

type ThemeStore struct {
	notifier
	mu     sync.Mutex
	db     storage.Store
	isDark bool
}

func NewThemeStore(db storage.Store) (*ThemeStore, error) {
	var snap domain.ThemeSnapshot
	if err := load(db, themeKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}
	return &ThemeStore{db: db, isDark: snap.IsDark}, nil
}

func (s *ThemeStore) IsDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDark
}

func (s *ThemeStore) Toggle() bool {
	s.mu.Lock()
	s.isDark = !s.isDark
	next := s.isDark
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return next
}

func (s *ThemeStore) Snapshot() domain.ThemeSnapshot {
	return domain.ThemeSnapshot{IsDark: s.IsDark()}
}

func (s *ThemeStore) Replace(snap domain.ThemeSnapshot) {
	s.mu.Lock()
	s.isDark = snap.IsDark
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *ThemeStore) persistLocked() {
	persist(s.db, themeKey, domain.ThemeSnapshot{IsDark: s.isDark})
}
