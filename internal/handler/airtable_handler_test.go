package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weedoo/internal/config"
)

func TestAirtableHandler_RejectsUnsupportedMethod(t *testing.T) {
	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123"})

	req := httptest.NewRequest(http.MethodDelete, "/api/airtable", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestAirtableHandler_MissingCredentials(t *testing.T) {
	h := NewAirtableHandler(config.AirtableConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Server missing Airtable env variables") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAirtableHandler_RejectsUnknownAction(t *testing.T) {
	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123"})

	body := `{"tableName":"UsersData_Tasks","action":"DELETE_EVERYTHING"}`
	req := httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid Action") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAirtableHandler_GetRecordBuildsFilteredQuery(t *testing.T) {
	var got *http.Request
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Write([]byte(`{"records":[]}`))
	}))
	defer downstream.Close()

	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123", APIURL: downstream.URL})

	body := `{"tableName":"UsersData_Tasks","action":"GET_RECORD","filterByFormula":"CodeID = 'wd-ABC'"}`
	req := httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil {
		t.Fatal("expected a downstream request")
	}
	if got.Method != http.MethodGet {
		t.Errorf("expected GET downstream, got %s", got.Method)
	}
	if !strings.HasPrefix(got.URL.Path, "/app123/UsersData_Tasks") {
		t.Errorf("unexpected downstream path %q", got.URL.Path)
	}
	if got.URL.Query().Get("filterByFormula") != "CodeID = 'wd-ABC'" {
		t.Errorf("expected formula forwarded, got %q", got.URL.Query().Get("filterByFormula"))
	}
	if got.URL.Query().Get("maxRecords") != "1" {
		t.Error("expected maxRecords=1")
	}
	if got.Header.Get("Authorization") != "Bearer key123" {
		t.Error("expected the credential to be injected server-side")
	}
}

func TestAirtableHandler_SyncRecordCreateAndUpdate(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   string
	}
	var calls []seen
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		calls = append(calls, seen{method: r.Method, path: r.URL.Path, body: string(data)})
		w.Write([]byte(`{"records":[{"id":"rec001"}]}`))
	}))
	defer downstream.Close()

	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123", APIURL: downstream.URL})

	create := `{"tableName":"UsersData_Tasks","action":"SYNC_RECORD","payload":{"records":[{"fields":{"CodeID":"wd-ABC","Data":"{}"}}]}}`
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(create)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on create, got %d", rec.Code)
	}

	update := `{"tableName":"UsersData_Tasks","action":"SYNC_RECORD","payload":{"id":"rec001","fields":{"Data":"{\"v\":2}"}}}`
	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(update)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", rec.Code)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 downstream calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPost || !strings.Contains(calls[0].body, `"records"`) {
		t.Errorf("expected create to POST a records envelope, got %+v", calls[0])
	}
	if calls[1].method != http.MethodPatch || !strings.HasSuffix(calls[1].path, "/rec001") {
		t.Errorf("expected update to PATCH the row, got %+v", calls[1])
	}
	var patched map[string]json.RawMessage
	if err := json.Unmarshal([]byte(calls[1].body), &patched); err != nil {
		t.Fatalf("expected valid patch body, got %v", err)
	}
	if _, ok := patched["fields"]; !ok {
		t.Error("expected patch body to wrap fields")
	}
}

func TestAirtableHandler_PassesDownstreamStatusThrough(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"type":"INVALID_REQUEST"}}`))
	}))
	defer downstream.Close()

	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123", APIURL: downstream.URL})

	body := `{"tableName":"UsersData_Tasks","action":"GET_RECORD","filterByFormula":"CodeID = 'x'"}`
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected downstream status passed through, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_REQUEST") {
		t.Errorf("expected downstream body passed through, got %s", rec.Body.String())
	}
}

func TestAirtableHandler_DownstreamUnreachable(t *testing.T) {
	h := NewAirtableHandler(config.AirtableConfig{BaseID: "app123", APIKey: "key123", APIURL: "http://127.0.0.1:1"})

	body := `{"tableName":"UsersData_Tasks","action":"GET_RECORD","filterByFormula":"CodeID = 'x'"}`
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/airtable", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Server malfunction.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
