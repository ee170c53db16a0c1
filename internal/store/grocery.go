package store

import (
	"fmt"
	"sync"

	"weedoo/internal/domain"
	"weedoo/internal/storage"

	"github.com/google/uuid"
)

// groceryKey is v2: v1 persisted a flat item array, v2 persists { lists: [] }.
const groceryKey = "weedoo_groceries_v2"

// ListMetaUpdate is a partial update of list metadata; nil fields are left
// untouched.
type ListMetaUpdate struct {
	Title      *string
	AirtableID *string
}

type GroceryStore struct {
	notifier
	mu    sync.Mutex
	db    storage.Store
	lists []*domain.GroceryList
}

func NewGroceryStore(db storage.Store) (*GroceryStore, error) {
	var snap domain.GrocerySnapshot
	if err := load(db, groceryKey, &snap); err != nil {
		return nil, fmt.Errorf("failed to load grocery lists: %w", err)
	}
	return &GroceryStore{db: db, lists: snap.Lists}, nil
}

// CreateList adds a list. airtableID and items are non-empty when importing a
// list that already exists remotely.
func (s *GroceryStore) CreateList(title, airtableID string, items []*domain.GroceryItem) *domain.GroceryList {
	if items == nil {
		items = []*domain.GroceryItem{}
	}
	list := &domain.GroceryList{
		ID:         uuid.New().String(),
		AirtableID: airtableID,
		Title:      title,
		Items:      items,
		UpdatedAt:  now(),
	}

	s.mu.Lock()
	s.lists = append([]*domain.GroceryList{list}, s.lists...)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return list
}

func (s *GroceryStore) UpdateListMeta(id string, updates ListMetaUpdate) {
	s.updateList(id, func(l *domain.GroceryList) {
		if updates.Title != nil {
			l.Title = *updates.Title
		}
		if updates.AirtableID != nil {
			l.AirtableID = *updates.AirtableID
		}
	})
}

func (s *GroceryStore) DeleteList(id string) {
	s.mu.Lock()
	kept := s.lists[:0]
	for _, l := range s.lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	changed := len(kept) != len(s.lists)
	s.lists = kept
	if changed {
		s.persistLocked()
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *GroceryStore) AddItem(listID, text string) *domain.GroceryItem {
	item := &domain.GroceryItem{ID: uuid.New().String(), Text: text}
	s.updateList(listID, func(l *domain.GroceryList) {
		l.Items = append([]*domain.GroceryItem{item}, l.Items...)
	})
	return item
}

func (s *GroceryStore) ToggleItem(listID, itemID string) {
	s.updateList(listID, func(l *domain.GroceryList) {
		items := make([]*domain.GroceryItem, len(l.Items))
		for i, item := range l.Items {
			if item.ID == itemID {
				copied := *item
				copied.Checked = !item.Checked
				items[i] = &copied
			} else {
				items[i] = item
			}
		}
		l.Items = items
	})
}

func (s *GroceryStore) RemoveItem(listID, itemID string) {
	s.updateList(listID, func(l *domain.GroceryList) {
		items := make([]*domain.GroceryItem, 0, len(l.Items))
		for _, item := range l.Items {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		l.Items = items
	})
}

func (s *GroceryStore) ClearChecked(listID string) {
	s.updateList(listID, func(l *domain.GroceryList) {
		items := make([]*domain.GroceryItem, 0, len(l.Items))
		for _, item := range l.Items {
			if !item.Checked {
				items = append(items, item)
			}
		}
		l.Items = items
	})
}

// SetListItems overwrites the list's items wholesale. The sync-down merge
// passes pointers it wants kept, so item identity survives here.
func (s *GroceryStore) SetListItems(listID string, items []*domain.GroceryItem) {
	s.updateList(listID, func(l *domain.GroceryList) {
		l.Items = items
	})
}

// updateList replaces the matching list with a mutated copy and bumps its
// UpdatedAt. Untouched lists keep their pointer identity.
func (s *GroceryStore) updateList(id string, mutate func(*domain.GroceryList)) {
	s.mu.Lock()
	changed := false
	for i, l := range s.lists {
		if l.ID == id {
			copied := *l
			mutate(&copied)
			copied.UpdatedAt = now()
			s.lists[i] = &copied
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

func (s *GroceryStore) Lists() []*domain.GroceryList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.GroceryList, len(s.lists))
	copy(out, s.lists)
	return out
}

func (s *GroceryStore) List(id string) (*domain.GroceryList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

func (s *GroceryStore) persistLocked() {
	persist(s.db, groceryKey, domain.GrocerySnapshot{Lists: s.lists})
}
