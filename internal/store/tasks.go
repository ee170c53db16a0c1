package store

import (
	"fmt"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"

	"github.com/google/uuid"
)

// tasksKey is v2: v1 used numeric timestamp ids, v2 uses uuids.
const tasksKey = "weedoo_tasks_v2"

type TaskStore struct {
	notifier
	mu    sync.Mutex
	db    storage.Store
	tasks []*domain.Task
}

func NewTaskStore(db storage.Store) (*TaskStore, error) {
	var snap domain.TasksSnapshot
	if err := load(db, tasksKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return &TaskStore{db: db, tasks: snap.Tasks}, nil
}

// Add prepends a new task: iteration order is most-recent-first.
func (s *TaskStore) Add(title string, priority domain.TaskPriority, category string) *domain.Task {
	if category == "" {
		category = "Geral"
	}

	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  priority,
		Category:  category,
		CreatedAt: now(),
	}

	s.mu.Lock()
	s.tasks = append([]*domain.Task{task}, s.tasks...)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return task
}

func (s *TaskStore) ToggleCompletion(id string) {
	s.update(id, func(t *domain.Task) {
		t.Completed = !t.Completed
	})
}

func (s *TaskStore) UpdateTitle(id, title string) {
	s.update(id, func(t *domain.Task) {
		t.Title = title
	})
}

// SetDueDate sets the due date; an empty string clears it.
func (s *TaskStore) SetDueDate(id, dueDate string) {
	s.update(id, func(t *domain.Task) {
		t.DueDate = dueDate
	})
}

// update replaces the matching task with a mutated copy. Untouched tasks keep
// their pointer identity.
func (s *TaskStore) update(id string, mutate func(*domain.Task)) {
	s.mu.Lock()
	changed := false
	for i, t := range s.tasks {
		if t.ID == id {
			copied := *t
			mutate(&copied)
			s.tasks[i] = &copied
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

func (s *TaskStore) Delete(id string) {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	changed := len(kept) != len(s.tasks)
	s.tasks = kept
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *TaskStore) Tasks() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Categories returns the deduplicated set of categories currently in use, in
// first-seen order.
func (s *TaskStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, t := range s.tasks {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

func (s *TaskStore) Snapshot() domain.TasksSnapshot {
	return domain.TasksSnapshot{Tasks: s.Tasks()}
}

// Replace swaps the entire state, used by login hydration.
func (s *TaskStore) Replace(snap domain.TasksSnapshot) {
	s.mu.Lock()
	s.tasks = snap.Tasks
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) persistLocked() {
	persist(s.db, tasksKey, domain.TasksSnapshot{Tasks: s.tasks})
}
