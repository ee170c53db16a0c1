package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"weedoo/internal/config"
	"weedoo/pkg/response"

	"github.com/go-playground/validator/v10"
)

// AirtableHandler is the credential-holding proxy: clients send it table
// actions, it performs the authenticated Airtable call server-side and passes
// the downstream response through untouched.
type AirtableHandler struct {
	cfg      config.AirtableConfig
	client   *http.Client
	validate *validator.Validate
}

func NewAirtableHandler(cfg config.AirtableConfig) *AirtableHandler {
	return &AirtableHandler{
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(),
	}
}

type ProxyRequest struct {
	TableName       string          `json:"tableName" validate:"required"`
	Action          string          `json:"action" validate:"required,oneof=GET_RECORD SYNC_RECORD"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	FilterByFormula string          `json:"filterByFormula,omitempty"`
}

// syncEnvelope distinguishes the two SYNC_RECORD shapes: an id means update in
// place, records means create.
type syncEnvelope struct {
	ID      string          `json:"id"`
	Fields  json.RawMessage `json:"fields"`
	Records json.RawMessage `json:"records"`
}

func (h *AirtableHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	if h.cfg.BaseID == "" || h.cfg.APIKey == "" {
		response.Error(w, http.StatusInternalServerError, "Server missing Airtable env variables")
		return
	}

	var req ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "Invalid Action")
		return
	}

	downstream, err := h.buildDownstream(&req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.client.Do(downstream)
	if err != nil {
		log.Printf("Airtable request failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Server malfunction.")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read Airtable response: %v", err)
		response.Error(w, http.StatusInternalServerError, "Server malfunction.")
		return
	}

	// Pass the downstream outcome through, success or not.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(body)
}

func (h *AirtableHandler) buildDownstream(req *ProxyRequest) (*http.Request, error) {
	tableURL := fmt.Sprintf("%s/%s/%s", h.cfg.APIURL, h.cfg.BaseID, url.PathEscape(req.TableName))

	var downstream *http.Request
	var err error

	switch req.Action {
	case "GET_RECORD":
		query := url.Values{}
		query.Set("filterByFormula", req.FilterByFormula)
		query.Set("maxRecords", "1")
		downstream, err = http.NewRequest(http.MethodGet, tableURL+"?"+query.Encode(), nil)

	case "SYNC_RECORD":
		var envelope syncEnvelope
		if err := json.Unmarshal(req.Payload, &envelope); err != nil {
			return nil, fmt.Errorf("invalid sync payload")
		}

		if envelope.ID != "" {
			body, _ := json.Marshal(map[string]json.RawMessage{"fields": envelope.Fields})
			downstream, err = http.NewRequest(http.MethodPatch,
				tableURL+"/"+url.PathEscape(envelope.ID), bytes.NewReader(body))
		} else {
			body, _ := json.Marshal(map[string]json.RawMessage{"records": envelope.Records})
			downstream, err = http.NewRequest(http.MethodPost, tableURL, bytes.NewReader(body))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	downstream.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	downstream.Header.Set("Content-Type", "application/json")
	return downstream, nil
}
