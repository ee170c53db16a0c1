package cloudsync

import (
	"errors"
	"sync"
	"testing"
	"time"

	"weedoo/internal/airtable"
	"weedoo/internal/config"
	"weedoo/internal/session"
	"weedoo/internal/store"
)

type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.m[key]
	return data, ok, nil
}

func (s *memStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStore) Close() error { return nil }

type syncCall struct {
	table airtable.UserTable
	code  string
	data  string
}

type listWrite struct {
	recordID  string
	title     string
	itemsJSON string
}

// mockAPI is an in-memory airtable.Client double. Behaviors are driven by the
// fields below; every write is recorded.
type mockAPI struct {
	mu sync.Mutex

	userData map[airtable.UserTable]*airtable.UserRecord
	fetchErr error
	syncErr  map[airtable.UserTable]error

	lists      map[string]*airtable.ListRecord
	nextListID string

	syncCalls   []syncCall
	listWrites  []listWrite
	listFetches int
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		userData: make(map[airtable.UserTable]*airtable.UserRecord),
		syncErr:  make(map[airtable.UserTable]error),
		lists:    make(map[string]*airtable.ListRecord),
	}
}

func (m *mockAPI) FetchUserData(table airtable.UserTable, code string) (*airtable.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	rec, ok := m.userData[table]
	if !ok || rec.CodeID != code {
		return nil, nil
	}
	return rec, nil
}

func (m *mockAPI) SyncUserData(table airtable.UserTable, code, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.syncErr[table]; err != nil {
		return err
	}
	m.syncCalls = append(m.syncCalls, syncCall{table: table, code: code, data: data})
	return nil
}

func (m *mockAPI) FetchList(recordID string) (*airtable.ListRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	m.listFetches++
	return m.lists[recordID], nil
}

func (m *mockAPI) CreateList(title, itemsJSON string) (*airtable.ListRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &airtable.ListRecord{ID: m.nextListID, Title: title, ItemsData: itemsJSON}
	m.lists[rec.ID] = rec
	m.listWrites = append(m.listWrites, listWrite{recordID: rec.ID, title: title, itemsJSON: itemsJSON})
	return rec, nil
}

func (m *mockAPI) UpdateList(recordID, title, itemsJSON string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.lists[recordID]; ok {
		rec.Title = title
		rec.ItemsData = itemsJSON
	}
	m.listWrites = append(m.listWrites, listWrite{recordID: recordID, title: title, itemsJSON: itemsJSON})
	return nil
}

func (m *mockAPI) calls() []syncCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]syncCall, len(m.syncCalls))
	copy(out, m.syncCalls)
	return out
}

func (m *mockAPI) writes() []listWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]listWrite, len(m.listWrites))
	copy(out, m.listWrites)
	return out
}

type fixture struct {
	coord  *Coordinator
	api    *mockAPI
	sess   *session.Store
	stores Stores
}

func newFixture(t *testing.T, debounce, poll time.Duration) *fixture {
	t.Helper()
	db := newMemStore()

	sess, err := session.New(db)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tasks, err := store.NewTaskStore(db)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	kanban, _ := store.NewKanbanStore(db)
	notes, _ := store.NewNotesStore(db)
	calendar, _ := store.NewCalendarStore(db)
	theme, _ := store.NewThemeStore(db)
	grocery, _ := store.NewGroceryStore(db)

	stores := Stores{
		Tasks:    tasks,
		Kanban:   kanban,
		Notes:    notes,
		Calendar: calendar,
		Theme:    theme,
		Grocery:  grocery,
	}

	api := newMockAPI()
	coord := New(api, sess, stores, config.SyncConfig{
		DebounceWindow: debounce,
		PollInterval:   poll,
	})
	return &fixture{coord: coord, api: api, sess: sess, stores: stores}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

var errUnreachable = errors.New("connection refused")
