// Package agenda builds read-only projections joining tasks that carry a due
// date with calendar events. It never mutates or takes ownership of either.
package agenda

import (
	"sort"
	"strings"

	"weedoo/internal/domain"
)

type EntryKind string

const (
	KindTask  EntryKind = "task"
	KindEvent EntryKind = "event"
)

type Entry struct {
	Kind  EntryKind
	Date  string // "YYYY-MM-DD"
	Time  string // "HH:MM", empty for all-day entries
	Title string
	Task  *domain.Task
	Event *domain.CalendarEvent
}

// Feed joins due tasks and all events into one slice sorted by date then time;
// all-day entries sort before timed ones on the same day.
func Feed(tasks []*domain.Task, events []*domain.CalendarEvent) []Entry {
	entries := make([]Entry, 0, len(tasks)+len(events))

	for _, t := range tasks {
		if t.DueDate == "" {
			continue
		}
		date, timeOfDay := splitDue(t.DueDate)
		entries = append(entries, Entry{
			Kind:  KindTask,
			Date:  date,
			Time:  timeOfDay,
			Title: t.Title,
			Task:  t,
		})
	}

	for _, e := range events {
		entries = append(entries, Entry{
			Kind:  KindEvent,
			Date:  e.Date,
			Time:  e.Time,
			Title: e.Title,
			Event: e,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Time < entries[j].Time
	})
	return entries
}

// ForDate returns the feed entries falling on one calendar day.
func ForDate(tasks []*domain.Task, events []*domain.CalendarEvent, date string) []Entry {
	var out []Entry
	for _, entry := range Feed(tasks, events) {
		if entry.Date == date {
			out = append(out, entry)
		}
	}
	return out
}

// splitDue splits "2026-01-15T14:30" into date and time parts; a bare date has
// no time part.
func splitDue(due string) (string, string) {
	if i := strings.IndexAny(due, "T "); i >= 0 {
		timePart := due[i+1:]
		if len(timePart) > 5 {
			timePart = timePart[:5]
		}
		return due[:i], timePart
	}
	return due, ""
}
