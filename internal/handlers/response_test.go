package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondData(t *testing.T) {
	rr := httptest.NewRecorder()
	respondData(rr, http.StatusCreated, "post created", map[string]string{"id": "abc"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var body envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Error != "" {
		t.Errorf("envelope = %+v", body)
	}
	if body.Message != "post created" {
		t.Errorf("message = %q, want %q", body.Message, "post created")
	}
}

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	respondError(rr, http.StatusNotFound, "post not found")

	var body envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success || body.Error != "post not found" {
		t.Errorf("envelope = %+v", body)
	}
	if strings.Contains(rr.Body.String(), `"data"`) {
		t.Error("error response should omit data")
	}
}

func TestRespondInvalid(t *testing.T) {
	rr := httptest.NewRecorder()
	respondInvalid(rr, []fieldError{{Field: "slug", Message: "too short"}})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	var body envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Details) != 1 || body.Details[0].Field != "slug" {
		t.Errorf("details = %+v", body.Details)
	}
}

func TestDecodeBody(t *testing.T) {
	t.Run("valid JSON decodes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		rr := httptest.NewRecorder()
		var dst struct {
			Name string `json:"name"`
		}
		if !decodeBody(rr, req, &dst) {
			t.Fatal("decodeBody returned false for valid JSON")
		}
		if dst.Name != "x" {
			t.Errorf("Name = %q", dst.Name)
		}
	})

	t.Run("malformed JSON writes 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
		rr := httptest.NewRecorder()
		var dst map[string]any
		if decodeBody(rr, req, &dst) {
			t.Fatal("decodeBody returned true for malformed JSON")
		}
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestListEnvelopeShape(t *testing.T) {
	payload, err := json.Marshal(listEnvelope{Success: true, Data: []int{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Pagination fields stay present even when zero.
	for _, field := range []string{"currentPage", "totalPages", "totalItems", "totalCount", "hasMorePages"} {
		if !strings.Contains(string(payload), field) {
			t.Errorf("missing %q in %s", field, payload)
		}
	}
}
