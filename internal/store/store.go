// Package store holds the per-feature state containers. Each container keeps
// its whole state in memory, writes it through to local storage on every
// mutation, and notifies subscribers so the sync coordinator can react.
package store

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"weedoo/internal/storage"
)

// notifier implements the change-subscription mechanism shared by all
// containers. Callbacks run synchronously on the mutating goroutine, after the
// container's own lock is released.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// Subscribe registers fn to run after every mutation and returns a function
// that removes the subscription.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persist writes state under key. A failed local write is logged and dropped;
// the in-memory state stays authoritative for the session.
func persist(db storage.Store, key string, state interface{}) {
	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to serialize state for %s: %v", key, err)
		return
	}
	if err := db.Put(key, data); err != nil {
		log.Printf("Failed to persist %s: %v", key, err)
	}
}

func load(db storage.Store, key string, into interface{}) error {
	data, ok, err := db.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(data, into)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
