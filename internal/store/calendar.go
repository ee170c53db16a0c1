package store

import (
	"fmt"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"

	"github.com/google/uuid"
)

const calendarKey = "weedoo_calendar_v1"

// CalendarEventUpdate is a partial update; nil fields are left untouched.
type CalendarEventUpdate struct {
	Title       *string
	Date        *string
	Time        *string
	Description *string
	Color       *string
}

type CalendarStore struct {
	notifier
	mu     sync.Mutex
	db     storage.Store
	events []*domain.CalendarEvent
}

func NewCalendarStore(db storage.Store) (*CalendarStore, error) {
	var snap domain.CalendarSnapshot
	if err := load(db, calendarKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	return &CalendarStore{db: db, events: snap.Events}, nil
}

func (s *CalendarStore) AddEvent(title, date, timeOfDay, description, color string) *domain.CalendarEvent {
	event := &domain.CalendarEvent{
		ID:          uuid.New().String(),
		Title:       title,
		Date:        date,
		Time:        timeOfDay,
		Description: description,
		Color:       color,
		CreatedAt:   now(),
	}

	s.mu.Lock()
	s.events = append([]*domain.CalendarEvent{event}, s.events...)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return event
}

func (s *CalendarStore) UpdateEvent(id string, updates CalendarEventUpdate) {
	s.mu.Lock()
	changed := false
	for i, e := range s.events {
		if e.ID == id {
			copied := *e
			if updates.Title != nil {
				copied.Title = *updates.Title
			}
			if updates.Date != nil {
				copied.Date = *updates.Date
			}
			if updates.Time != nil {
				copied.Time = *updates.Time
			}
			if updates.Description != nil {
				copied.Description = *updates.Description
			}
			if updates.Color != nil {
				copied.Color = *updates.Color
			}
			s.events[i] = &copied
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

func (s *CalendarStore) DeleteEvent(id string) {
	s.mu.Lock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	changed := len(kept) != len(s.events)
	s.events = kept
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *CalendarStore) Events() []*domain.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *CalendarStore) EventsForDate(date string) []*domain.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.CalendarEvent
	for _, e := range s.events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

func (s *CalendarStore) DatesWithEvents() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates := make(map[string]bool, len(s.events))
	for _, e := range s.events {
		dates[e.Date] = true
	}
	return dates
}

func (s *CalendarStore) Snapshot() domain.CalendarSnapshot {
	return domain.CalendarSnapshot{Events: s.Events()}
}

func (s *CalendarStore) Replace(snap domain.CalendarSnapshot) {
	s.mu.Lock()
	s.events = snap.Events
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *CalendarStore) persistLocked() {
	persist(s.db, calendarKey, domain.CalendarSnapshot{Events: s.events})
}
