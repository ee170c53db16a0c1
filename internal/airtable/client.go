// Package airtable is the record store client. It never talks to Airtable
// directly: every request goes through the proxy, which holds the credential.
package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserTable is one of the five generic tables holding (CodeID, Data) rows.
type UserTable string

const (
	TableTasks    UserTable = "UsersData_Tasks"
	TableKanban   UserTable = "UsersData_Kanban"
	TableNotes    UserTable = "UsersData_Notes"
	TableCalendar UserTable = "UsersData_Calendar"
	TableConfig   UserTable = "UsersData_Config"
)

// UserTables lists the generic tables in hydration order.
var UserTables = []UserTable{TableTasks, TableKanban, TableNotes, TableCalendar, TableConfig}

const groceriesTable = "GroceriesLists"

const (
	actionGetRecord  = "GET_RECORD"
	actionSyncRecord = "SYNC_RECORD"
)

// UserRecord is one row of a UsersData_* table.
type UserRecord struct {
	ID          string
	CodeID      string
	Data        string
	CreatedTime string
}

// ListRecord is one row of the GroceriesLists table.
type ListRecord struct {
	ID          string
	Title       string
	ItemsData   string
	CreatedTime string
}

type Client interface {
	// FetchUserData returns the row for code, or (nil, nil) when no row
	// exists. Transport and HTTP failures are returned as errors; callers
	// decide whether to degrade.
	FetchUserData(table UserTable, code string) (*UserRecord, error)
	// SyncUserData upserts the row for code. The upsert is fetch-then-branch
	// and not atomic: two overlapping syncs for the same code can both
	// create, leaving a duplicate row that later reads never see.
	SyncUserData(table UserTable, code, data string) error

	FetchList(recordID string) (*ListRecord, error)
	CreateList(title, itemsJSON string) (*ListRecord, error)
	UpdateList(recordID, title, itemsJSON string) error
}

type fields struct {
	CodeID    string `json:"CodeID,omitempty"`
	Data      string `json:"Data,omitempty"`
	Title     string `json:"Title,omitempty"`
	ItemsData string `json:"ItemsData,omitempty"`
}

type record struct {
	ID          string `json:"id"`
	Fields      fields `json:"fields"`
	CreatedTime string `json:"createdTime"`
}

type recordsResponse struct {
	Records []record `json:"records"`
}

type recordPayload struct {
	Fields fields `json:"fields"`
}

// syncPayload carries either a create (Records) or an update (ID + Fields).
type syncPayload struct {
	ID      string          `json:"id,omitempty"`
	Fields  *fields         `json:"fields,omitempty"`
	Records []recordPayload `json:"records,omitempty"`
}

type proxyRequest struct {
	TableName       string       `json:"tableName"`
	Action          string       `json:"action"`
	Payload         *syncPayload `json:"payload,omitempty"`
	FilterByFormula string       `json:"filterByFormula,omitempty"`
}

type httpClient struct {
	proxyURL string
	http     *http.Client
}

func NewClient(proxyURL string) Client {
	return &httpClient{
		proxyURL: proxyURL,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *httpClient) FetchUserData(table UserTable, code string) (*UserRecord, error) {
	body, err := c.do(proxyRequest{
		TableName:       string(table),
		Action:          actionGetRecord,
		FilterByFormula: fmt.Sprintf("CodeID = '%s'", code),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}

	var resp recordsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", table, err)
	}
	if len(resp.Records) == 0 {
		return nil, nil
	}

	r := resp.Records[0]
	return &UserRecord{
		ID:          r.ID,
		CodeID:      r.Fields.CodeID,
		Data:        r.Fields.Data,
		CreatedTime: r.CreatedTime,
	}, nil
}

func (c *httpClient) SyncUserData(table UserTable, code, data string) error {
	existing, err := c.FetchUserData(table, code)
	if err != nil {
		return err
	}

	var payload *syncPayload
	if existing != nil {
		payload = &syncPayload{
			ID:     existing.ID,
			Fields: &fields{Data: data},
		}
	} else {
		payload = &syncPayload{
			Records: []recordPayload{{Fields: fields{CodeID: code, Data: data}}},
		}
	}

	if _, err := c.do(proxyRequest{
		TableName: string(table),
		Action:    actionSyncRecord,
		Payload:   payload,
	}); err != nil {
		return fmt.Errorf("failed to sync %s: %w", table, err)
	}
	return nil
}

func (c *httpClient) FetchList(recordID string) (*ListRecord, error) {
	body, err := c.do(proxyRequest{
		TableName:       groceriesTable,
		Action:          actionGetRecord,
		FilterByFormula: fmt.Sprintf("RECORD_ID() = '%s'", recordID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grocery list: %w", err)
	}

	var resp recordsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse grocery list response: %w", err)
	}
	if len(resp.Records) == 0 {
		return nil, nil
	}

	r := resp.Records[0]
	return &ListRecord{
		ID:          r.ID,
		Title:       r.Fields.Title,
		ItemsData:   r.Fields.ItemsData,
		CreatedTime: r.CreatedTime,
	}, nil
}

func (c *httpClient) CreateList(title, itemsJSON string) (*ListRecord, error) {
	body, err := c.do(proxyRequest{
		TableName: groceriesTable,
		Action:    actionSyncRecord,
		Payload: &syncPayload{
			Records: []recordPayload{{Fields: fields{Title: title, ItemsData: itemsJSON}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create grocery list: %w", err)
	}

	var resp recordsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse create response: %w", err)
	}
	if len(resp.Records) == 0 {
		return nil, fmt.Errorf("create returned no record")
	}

	r := resp.Records[0]
	return &ListRecord{
		ID:          r.ID,
		Title:       r.Fields.Title,
		ItemsData:   r.Fields.ItemsData,
		CreatedTime: r.CreatedTime,
	}, nil
}

func (c *httpClient) UpdateList(recordID, title, itemsJSON string) error {
	if _, err := c.do(proxyRequest{
		TableName: groceriesTable,
		Action:    actionSyncRecord,
		Payload: &syncPayload{
			ID:     recordID,
			Fields: &fields{Title: title, ItemsData: itemsJSON},
		},
	}); err != nil {
		return fmt.Errorf("failed to update grocery list: %w", err)
	}
	return nil
}

func (c *httpClient) do(req proxyRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.http.Post(c.proxyURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proxy returned %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
