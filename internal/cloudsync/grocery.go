package cloudsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"weedoo/internal/domain"
	"weedoo/internal/store"
)

var (
	ErrListNotFound      = errors.New("grocery list not found")
	ErrListNotSynced     = errors.New("grocery list has no cloud record")
	ErrListAlreadySynced = errors.New("grocery list already has a cloud record")
)

// SaveListAs creates a brand-new remote row for a local-only list and stores
// the returned row id on it. LocalOnly → Synced is a one-way transition.
func (c *Coordinator) SaveListAs(listID string) error {
	list, ok := c.stores.Grocery.List(listID)
	if !ok {
		return ErrListNotFound
	}
	if list.Synced() {
		return ErrListAlreadySynced
	}

	itemsJSON, err := marshalItems(list.Items)
	if err != nil {
		return err
	}

	rec, err := c.api.CreateList(list.Title, itemsJSON)
	if err != nil {
		return err
	}

	c.stores.Grocery.UpdateListMeta(listID, store.ListMetaUpdate{AirtableID: &rec.ID})
	return nil
}

// SaveList updates the remote row of an already-synced list.
func (c *Coordinator) SaveList(listID string) error {
	list, ok := c.stores.Grocery.List(listID)
	if !ok {
		return ErrListNotFound
	}
	if !list.Synced() {
		return ErrListNotSynced
	}

	itemsJSON, err := marshalItems(list.Items)
	if err != nil {
		return err
	}
	return c.api.UpdateList(list.AirtableID, list.Title, itemsJSON)
}

// SyncListDown fetches the remote row and merges its items into the local
// list. Remote is authoritative for membership and order.
func (c *Coordinator) SyncListDown(listID string) error {
	list, ok := c.stores.Grocery.List(listID)
	if !ok {
		return ErrListNotFound
	}
	if !list.Synced() {
		return ErrListNotSynced
	}

	rec, err := c.api.FetchList(list.AirtableID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("cloud record %s no longer exists", list.AirtableID)
	}

	var remote []*domain.GroceryItem
	if rec.ItemsData != "" {
		if err := json.Unmarshal([]byte(rec.ItemsData), &remote); err != nil {
			return fmt.Errorf("failed to parse cloud items: %w", err)
		}
	}

	c.stores.Grocery.SetListItems(listID, MergeItems(list.Items, remote))
	return nil
}

// MergeItems reconciles remote items against local ones by id. A remote item
// whose local counterpart is field-identical keeps the local pointer, so
// downstream diffing sees no change for untouched items. Items missing
// remotely are dropped.
func MergeItems(local, remote []*domain.GroceryItem) []*domain.GroceryItem {
	byID := make(map[string]*domain.GroceryItem, len(local))
	for _, item := range local {
		byID[item.ID] = item
	}

	merged := make([]*domain.GroceryItem, 0, len(remote))
	for _, r := range remote {
		if l, ok := byID[r.ID]; ok && l.Text == r.Text && l.Checked == r.Checked {
			merged = append(merged, l)
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// ImportList fetches a remote row by id and creates a local list already in
// the Synced state. Returns ErrListNotFound when the row does not exist.
func (c *Coordinator) ImportList(recordID string) (*domain.GroceryList, error) {
	rec, err := c.api.FetchList(recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrListNotFound
	}

	var items []*domain.GroceryItem
	if rec.ItemsData != "" {
		if err := json.Unmarshal([]byte(rec.ItemsData), &items); err != nil {
			return nil, fmt.Errorf("failed to parse cloud items: %w", err)
		}
	}

	title := rec.Title
	if title == "" {
		title = "Lista importada"
	}
	return c.stores.Grocery.CreateList(title, rec.ID, items), nil
}

// StartPolling re-runs SyncListDown for the open list on a fixed interval.
// Starting a poll for another list replaces the previous one.
func (c *Coordinator) StartPolling(listID string) {
	c.mu.Lock()
	if c.pollStop != nil {
		close(c.pollStop)
	}
	stop := make(chan struct{})
	c.pollStop = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(c.pollTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.SyncListDown(listID); err != nil {
					log.Printf("Background list sync failed: %v", err)
				}
			case <-stop:
				return
			}
		}
	}()
}

// StopPolling cancels the background poll, if any.
func (c *Coordinator) StopPolling() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollStop != nil {
		close(c.pollStop)
		c.pollStop = nil
	}
}

func marshalItems(items []*domain.GroceryItem) (string, error) {
	if items == nil {
		items = []*domain.GroceryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to serialize items: %w", err)
	}
	return string(data), nil
}
