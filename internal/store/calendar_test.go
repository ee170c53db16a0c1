package store

import "testing"

func TestCalendarStore_AddAndQueryByDate(t *testing.T) {
	s, err := NewCalendarStore(newMemStore())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s.AddEvent("Dentista", "2026-09-02", "14:00", "", "bg-blue-500")
	s.AddEvent("Aniversário", "2026-09-02", "", "da Ana", "bg-pink-500")
	s.AddEvent("Viagem", "2026-09-10", "", "", "bg-green-500")

	day := s.EventsForDate("2026-09-02")
	if len(day) != 2 {
		t.Fatalf("expected 2 events on the day, got %d", len(day))
	}

	dates := s.DatesWithEvents()
	if len(dates) != 2 || !dates["2026-09-10"] {
		t.Errorf("unexpected dates set: %v", dates)
	}
}

func TestCalendarStore_UpdateEvent(t *testing.T) {
	s, _ := NewCalendarStore(newMemStore())
	event := s.AddEvent("Reunião", "2026-09-05", "09:00", "", "bg-blue-500")

	title := "Reunião adiada"
	date := "2026-09-06"
	s.UpdateEvent(event.ID, CalendarEventUpdate{Title: &title, Date: &date})

	got := s.Events()[0]
	if got.Title != title || got.Date != date {
		t.Errorf("expected updated fields, got %+v", got)
	}
	if got.Time != "09:00" {
		t.Error("expected untouched fields preserved")
	}
}

func TestCalendarStore_DeleteEvent(t *testing.T) {
	s, _ := NewCalendarStore(newMemStore())
	event := s.AddEvent("Removível", "2026-09-05", "", "", "bg-red-500")

	s.DeleteEvent(event.ID)
	if len(s.Events()) != 0 {
		t.Error("expected event to be gone")
	}
}
