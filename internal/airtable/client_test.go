package airtable

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeProxy emulates the proxy endpoint over an in-memory table map, enough
// for the client's GET_RECORD / SYNC_RECORD round-trips.
type fakeProxy struct {
	mu     sync.Mutex
	nextID int
	tables map[string][]record
}

func newFakeProxy() *fakeProxy {
	return &fakeProxy{tables: make(map[string][]record)}
}

func (p *fakeProxy) rows(table string) []record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]record, len(p.tables[table]))
	copy(out, p.tables[table])
	return out
}

func (p *fakeProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch req.Action {
	case actionGetRecord:
		var matched []record
		for _, rec := range p.tables[req.TableName] {
			if matchesFormula(rec, req.FilterByFormula) {
				matched = append(matched, rec)
				break
			}
		}
		json.NewEncoder(w).Encode(recordsResponse{Records: matched})

	case actionSyncRecord:
		if req.Payload.ID != "" {
			rows := p.tables[req.TableName]
			for i, rec := range rows {
				if rec.ID == req.Payload.ID {
					merge(&rows[i].Fields, *req.Payload.Fields)
				}
			}
			json.NewEncoder(w).Encode(recordsResponse{})
			return
		}
		var created []record
		for _, rp := range req.Payload.Records {
			p.nextID++
			rec := record{ID: fmt.Sprintf("rec%03d", p.nextID), Fields: rp.Fields}
			p.tables[req.TableName] = append(p.tables[req.TableName], rec)
			created = append(created, rec)
		}
		json.NewEncoder(w).Encode(recordsResponse{Records: created})

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

func matchesFormula(rec record, formula string) bool {
	switch {
	case strings.HasPrefix(formula, "CodeID = '"):
		return rec.Fields.CodeID == strings.TrimSuffix(strings.TrimPrefix(formula, "CodeID = '"), "'")
	case strings.HasPrefix(formula, "RECORD_ID() = '"):
		return rec.ID == strings.TrimSuffix(strings.TrimPrefix(formula, "RECORD_ID() = '"), "'")
	}
	return false
}

func merge(dst *fields, src fields) {
	if src.CodeID != "" {
		dst.CodeID = src.CodeID
	}
	if src.Data != "" {
		dst.Data = src.Data
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.ItemsData != "" {
		dst.ItemsData = src.ItemsData
	}
}

func TestClient_FetchUserDataAbsent(t *testing.T) {
	proxy := newFakeProxy()
	srv := httptest.NewServer(proxy)
	defer srv.Close()

	c := NewClient(srv.URL)
	rec, err := c.FetchUserData(TableTasks, "wd-NOSUCH1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record for an unknown code, got %+v", rec)
	}
}

func TestClient_SyncUserDataUpserts(t *testing.T) {
	proxy := newFakeProxy()
	srv := httptest.NewServer(proxy)
	defer srv.Close()

	c := NewClient(srv.URL)

	if err := c.SyncUserData(TableTasks, "wd-TESTCODE12", `{"v":1}`); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := c.SyncUserData(TableTasks, "wd-TESTCODE12", `{"v":2}`); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rows := proxy.rows(string(TableTasks))
	if len(rows) != 1 {
		t.Fatalf("expected the second sync to update in place, got %d rows", len(rows))
	}
	if rows[0].Fields.Data != `{"v":2}` {
		t.Errorf("expected latest data, got %q", rows[0].Fields.Data)
	}

	rec, err := c.FetchUserData(TableTasks, "wd-TESTCODE12")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil || rec.Data != `{"v":2}` {
		t.Errorf("expected fetch to see the updated row, got %+v", rec)
	}
}

func TestClient_GroceryListLifecycle(t *testing.T) {
	proxy := newFakeProxy()
	srv := httptest.NewServer(proxy)
	defer srv.Close()

	c := NewClient(srv.URL)

	created, err := c.CreateList("Mercado", `[{"id":"a"}]`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected the new row id to be returned")
	}

	if err := c.UpdateList(created.ID, "Mercado", `[{"id":"a"},{"id":"b"}]`); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fetched, err := c.FetchList(created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fetched == nil || fetched.ItemsData != `[{"id":"a"},{"id":"b"}]` {
		t.Errorf("expected updated items, got %+v", fetched)
	}

	missing, err := c.FetchList("recGONE")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a missing row, got %+v", missing)
	}
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.FetchUserData(TableTasks, "wd-TESTCODE12"); err == nil {
		t.Error("expected an error on non-200 proxy status")
	}
}
