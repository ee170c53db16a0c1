package store

import (
	"fmt"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"

	"github.com/google/uuid"
)

const kanbanKey = "weedoo_kanban"

// The three default columns keep fixed identities so boards synced from other
// devices line up, and they always render first in this order.
var defaultColumnIDs = []string{"todo", "doing", "done"}

func defaultColumns() []*domain.KanbanColumn {
	return []*domain.KanbanColumn{
		{ID: "todo", Title: "A Fazer"},
		{ID: "doing", Title: "Fazendo"},
		{ID: "done", Title: "Concluído"},
	}
}

// KanbanTaskUpdate is a partial update; nil fields are left untouched.
type KanbanTaskUpdate struct {
	ColumnID    *string
	Content     *string
	Description *string
	Color       *string
}

type KanbanStore struct {
	notifier
	mu      sync.Mutex
	db      storage.Store
	columns []*domain.KanbanColumn
	tasks   []*domain.KanbanTask
}

func NewKanbanStore(db storage.Store) (*KanbanStore, error) {
	var snap domain.KanbanSnapshot
	if err := load(db, kanbanKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load kanban board: %w", err)
	}
	if snap.Columns == nil {
		snap.Columns = defaultColumns()
	}
	return &KanbanStore{db: db, columns: snap.Columns, tasks: snap.Tasks}, nil
}

func (s *KanbanStore) AddColumn(title string) *domain.KanbanColumn {
	col := &domain.KanbanColumn{ID: uuid.New().String(), Title: title}

	s.mu.Lock()
	s.columns = append(s.columns, col)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return col
}

func (s *KanbanStore) UpdateColumn(id, title string) {
	s.mu.Lock()
	changed := false
	for i, col := range s.columns {
		if col.ID == id {
			copied := *col
			copied.Title = title
			s.columns[i] = &copied
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

// DeleteColumn removes the column and cascades to its tasks in the same state
// transition.
func (s *KanbanStore) DeleteColumn(id string) {
	s.mu.Lock()
	cols := s.columns[:0]
	for _, col := range s.columns {
		if col.ID != id {
			cols = append(cols, col)
		}
	}
	changed := len(cols) != len(s.columns)
	s.columns = cols

	if changed {
		tasks := s.tasks[:0]
		for _, t := range s.tasks {
			if t.ColumnID != id {
				tasks = append(tasks, t)
			}
		}
		s.tasks = tasks
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *KanbanStore) AddTask(columnID, content string) *domain.KanbanTask {
	task := &domain.KanbanTask{
		ID:        uuid.New().String(),
		ColumnID:  columnID,
		Content:   content,
		CreatedAt: now(),
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return task
}

func (s *KanbanStore) UpdateTask(id string, updates KanbanTaskUpdate) {
	s.mu.Lock()
	changed := false
	for i, t := range s.tasks {
		if t.ID == id {
			copied := *t
			if updates.ColumnID != nil {
				copied.ColumnID = *updates.ColumnID
			}
			if updates.Content != nil {
				copied.Content = *updates.Content
			}
			if updates.Description != nil {
				copied.Description = *updates.Description
			}
			if updates.Color != nil {
				copied.Color = *updates.Color
			}
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

func (s *KanbanStore) DeleteTask(id string) {
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

func (s *KanbanStore) Columns() []*domain.KanbanColumn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.KanbanColumn, len(s.columns))
	copy(out, s.columns)
	return out
}

// OrderedColumns returns columns for display: the default columns pinned first
// in their fixed order, then the rest in stored order.
func (s *KanbanStore) OrderedColumns() []*domain.KanbanColumn {
	cols := s.Columns()

	byID := make(map[string]*domain.KanbanColumn, len(cols))
	for _, col := range cols {
		byID[col.ID] = col
	}

	pinned := make(map[string]bool, len(defaultColumnIDs))
	out := make([]*domain.KanbanColumn, 0, len(cols))
	for _, id := range defaultColumnIDs {
		if col, ok := byID[id]; ok {
			out = append(out, col)
			pinned[id] = true
		}
	}
	for _, col := range cols {
		if !pinned[col.ID] {
			out = append(out, col)
		}
	}
	return out
}

func (s *KanbanStore) Tasks() []*domain.KanbanTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.KanbanTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *KanbanStore) TasksForColumn(columnID string) []*domain.KanbanTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.KanbanTask
	for _, t := range s.tasks {
		if t.ColumnID == columnID {
			out = append(out, t)
		}
	}
	return out
}

func (s *KanbanStore) Snapshot() domain.KanbanSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols := make([]*domain.KanbanColumn, len(s.columns))
	copy(cols, s.columns)
	tasks := make([]*domain.KanbanTask, len(s.tasks))
	copy(tasks, s.tasks)
	return domain.KanbanSnapshot{Columns: cols, Tasks: tasks}
}

func (s *KanbanStore) Replace(snap domain.KanbanSnapshot) {
	s.mu.Lock()
	s.columns = snap.Columns
	if s.columns == nil {
		s.columns = defaultColumns()
	}
	s.tasks = snap.Tasks
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *KanbanStore) persistLocked() {
	persist(s.db, kanbanKey, domain.KanbanSnapshot{Columns: s.columns, Tasks: s.tasks})
}
