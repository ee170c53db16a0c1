// Package cloudsync keeps the remote record store eventually consistent with
// local state: debounced push on change, pull on login, best-effort everywhere.
// Nothing here blocks a caller on the network and nothing is retried beyond
// the grocery poll's fixed interval.
package cloudsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"weedoo/internal/airtable"
	"weedoo/internal/config"
	"weedoo/internal/domain"
	"weedoo/internal/session"
	"weedoo/internal/store"
)

var (
	// ErrCodeNotFound means no table had a row for the code: a brand-new
	// code must be created via generate, not guessed into an empty account.
	ErrCodeNotFound = errors.New("recovery code not found in cloud")

	ErrNotLoggedIn = errors.New("not logged in")
)

// Stores bundles the containers the coordinator watches. They are constructed
// by the application root and passed in; the coordinator owns none of them.
type Stores struct {
	Tasks    *store.TaskStore
	Kanban   *store.KanbanStore
	Notes    *store.NotesStore
	Calendar *store.CalendarStore
	Theme    *store.ThemeStore
	Grocery  *store.GroceryStore
}

type subscribable interface {
	Subscribe(func()) func()
}

type Coordinator struct {
	api      airtable.Client
	session  *session.Store
	stores   Stores
	debounce time.Duration
	pollTick time.Duration

	mu         sync.Mutex
	unsubs     []func()
	debouncers []*Debouncer
	pollStop   chan struct{}
}

func New(api airtable.Client, sess *session.Store, stores Stores, cfg config.SyncConfig) *Coordinator {
	c := &Coordinator{
		api:      api,
		session:  sess,
		stores:   stores,
		debounce: cfg.DebounceWindow,
		pollTick: cfg.PollInterval,
	}

	// Follow the session: login attaches the listeners, logout tears them down.
	sess.Subscribe(func() {
		if sess.IsLoggedIn() {
			c.Start()
		} else {
			c.Stop()
		}
	})
	return c
}

// Start attaches one debounced change-listener per domain store. It is a no-op
// when logged out or when listeners are already attached, so an overwrite-login
// never doubles the pushes. Stop must be called on logout or shutdown.
func (c *Coordinator) Start() {
	if !c.session.IsLoggedIn() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.unsubs) > 0 {
		return
	}

	for _, t := range airtable.UserTables {
		table := t
		deb := NewDebouncer(c.debounce)
		unsub := c.storeFor(table).Subscribe(func() {
			deb.Trigger(func() {
				c.autosave(table)
			})
		})
		c.debouncers = append(c.debouncers, deb)
		c.unsubs = append(c.unsubs, unsub)
	}
}

// Stop detaches all listeners and cancels pending debounce timers and the
// grocery poll, so no write fires later under a stale or absent code.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	unsubs := c.unsubs
	debouncers := c.debouncers
	c.unsubs = nil
	c.debouncers = nil
	c.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	for _, deb := range debouncers {
		deb.Stop()
	}
	c.StopPolling()
}

// autosave pushes one domain. The code is read fresh here, never captured at
// subscription time: a timer surviving a logout must not write.
func (c *Coordinator) autosave(table airtable.UserTable) {
	if !c.session.IsLoggedIn() {
		return
	}
	if err := c.push(table); err != nil {
		log.Printf("Cloud autosave failed for %s: %v", table, err)
	}
}

func (c *Coordinator) push(table airtable.UserTable) error {
	code := c.session.Code()
	if code == "" {
		return ErrNotLoggedIn
	}

	data, err := c.serialize(table)
	if err != nil {
		return err
	}
	return c.api.SyncUserData(table, code, data)
}

// ForceSync pushes all five snapshots immediately, bypassing debounce.
// Individual failures are logged and ignored: the user sees one aggregate
// outcome, not per-domain outcomes.
func (c *Coordinator) ForceSync() error {
	if !c.session.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	var wg sync.WaitGroup
	for _, t := range airtable.UserTables {
		table := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.push(table); err != nil {
				log.Printf("Force sync failed for %s: %v", table, err)
			}
		}()
	}
	wg.Wait()
	return nil
}

// Hydrate pulls all five tables for code and bulk-replaces each domain that
// has a record; domains without one keep their local state. It returns
// ErrCodeNotFound when no table knows the code, and a transport error when any
// fetch fails — both block login, with different user-facing messages.
// Hydrate does not touch the session; the caller logs in on success.
func (c *Coordinator) Hydrate(code string) error {
	records := make([]*airtable.UserRecord, len(airtable.UserTables))
	errs := make([]error, len(airtable.UserTables))

	var wg sync.WaitGroup
	for i, t := range airtable.UserTables {
		i, table := i, t
		wg.Add(1)
		go func() {
			defer wg.Done()
			records[i], errs[i] = c.api.FetchUserData(table, code)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("cloud unreachable: %w", err)
		}
	}

	found := false
	for _, rec := range records {
		if rec != nil {
			found = true
			break
		}
	}
	if !found {
		return ErrCodeNotFound
	}

	for i, rec := range records {
		if rec == nil {
			continue
		}
		if err := c.apply(airtable.UserTables[i], rec.Data); err != nil {
			// A malformed blob skips its domain instead of failing login.
			log.Printf("Skipping malformed cloud data for %s: %v", airtable.UserTables[i], err)
		}
	}
	return nil
}

func (c *Coordinator) storeFor(table airtable.UserTable) subscribable {
	switch table {
	case airtable.TableTasks:
		return c.stores.Tasks
	case airtable.TableKanban:
		return c.stores.Kanban
	case airtable.TableNotes:
		return c.stores.Notes
	case airtable.TableCalendar:
		return c.stores.Calendar
	case airtable.TableConfig:
		return c.stores.Theme
	}
	panic(fmt.Sprintf("unknown table %s", table))
}

// serialize reads the current store state — not state captured earlier — so a
// late-firing timer pushes fresh data.
func (c *Coordinator) serialize(table airtable.UserTable) (string, error) {
	var snap interface{}
	switch table {
	case airtable.TableTasks:
		snap = c.stores.Tasks.Snapshot()
	case airtable.TableKanban:
		snap = c.stores.Kanban.Snapshot()
	case airtable.TableNotes:
		snap = c.stores.Notes.Snapshot()
	case airtable.TableCalendar:
		snap = c.stores.Calendar.Snapshot()
	case airtable.TableConfig:
		snap = c.stores.Theme.Snapshot()
	default:
		return "", fmt.Errorf("unknown table %s", table)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to serialize %s snapshot: %w", table, err)
	}
	return string(data), nil
}

func (c *Coordinator) apply(table airtable.UserTable, data string) error {
	switch table {
	case airtable.TableTasks:
		var snap domain.TasksSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return err
		}
		c.stores.Tasks.Replace(snap)
	case airtable.TableKanban:
		var snap domain.KanbanSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return err
		}
		c.stores.Kanban.Replace(snap)
	case airtable.TableNotes:
		var snap domain.NotesSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return err
		}
		c.stores.Notes.Replace(snap)
	case airtable.TableCalendar:
		var snap domain.CalendarSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return err
		}
		c.stores.Calendar.Replace(snap)
	case airtable.TableConfig:
		var snap domain.ThemeSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return err
		}
		c.stores.Theme.Replace(snap)
	}
	return nil
}
