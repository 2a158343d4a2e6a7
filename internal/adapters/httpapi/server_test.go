package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/internal/adapters/httpapi"
	"github.com/aretw0/statewalk/pkg/adapters/memory"
	"github.com/aretw0/statewalk/pkg/domain"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	def := &domain.MachineDef{
		ID:      "light",
		Initial: "green",
		States: []domain.StateDef{
			{Key: "green", On: []domain.EventDef{domain.On("TIMER", "yellow")}},
			{Key: "yellow", On: []domain.EventDef{domain.On("TIMER", "red")}},
			{Key: "red", Initial: "walk", On: []domain.EventDef{domain.On("TIMER", "green")}, States: []domain.StateDef{
				{Key: "walk", On: []domain.EventDef{domain.On("PED_COUNTDOWN", "wait"), domain.Forbid("TIMER")}},
				{Key: "wait", On: []domain.EventDef{domain.On("PED_COUNTDOWN", "stop"), domain.Forbid("TIMER")}},
				{Key: "stop"},
			}},
		},
	}
	m, err := statewalk.New(def)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return httpapi.NewHandler(m, memory.NewStore(), nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetMachine(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodGet, "/machine", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID      string   `json:"id"`
		Initial string   `json:"initial"`
		Events  []string `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "light" || resp.Initial != "green" {
		t.Errorf("unexpected machine: %+v", resp)
	}
	if len(resp.Events) != 2 || resp.Events[0] != "TIMER" {
		t.Errorf("unexpected events: %v", resp.Events)
	}
}

func TestGetGraphFormats(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var g struct {
		MachineID string `json:"machine_id"`
		Edges     []any  `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.MachineID != "light" || len(g.Edges) == 0 {
		t.Errorf("unexpected graph: %+v", g)
	}

	rec = do(t, h, http.MethodGet, "/graph?format=mermaid", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "graph TD") {
		t.Errorf("mermaid output missing: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/graph?format=dot&blocked=true", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "style=dashed") {
		t.Errorf("dot output missing blocked edge: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/graph?format=svg", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format accepted: %d", rec.Code)
	}
}

func TestPostTransition(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPost, "/transition", `{"state":"green","event":"TIMER"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var state domain.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Configuration.Key() != "yellow" || !state.Changed {
		t.Errorf("unexpected state: %+v", state)
	}

	rec = do(t, h, http.MethodPost, "/transition", `{"state":{"red":"walk"},"event":"PED_COUNTDOWN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Configuration.Key() != "red.wait" {
		t.Errorf("unexpected state: %+v", state)
	}

	rec = do(t, h, http.MethodPost, "/transition", `{"state":"nowhere","event":"TIMER"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid state accepted: %d %s", rec.Code, rec.Body)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := newHandler(t)

	// First event creates the session from the initial state.
	rec := do(t, h, http.MethodPost, "/sessions/s1/events", `"TIMER"`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var state domain.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Configuration.Key() != "yellow" {
		t.Errorf("unexpected state after first event: %+v", state)
	}

	// Second event resumes from the saved snapshot.
	rec = do(t, h, http.MethodPost, "/sessions/s1/events", `"TIMER"`)
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Configuration.Key() != "red.walk" {
		t.Errorf("unexpected state after second event: %+v", state)
	}

	rec = do(t, h, http.MethodGet, "/sessions/s1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodDelete, "/sessions/s1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/sessions/s1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted session still present: %d", rec.Code)
	}
}

func TestSessionsWithoutStore(t *testing.T) {
	def := &domain.MachineDef{
		ID:      "tiny",
		Initial: "a",
		States:  []domain.StateDef{{Key: "a", On: []domain.EventDef{domain.On("GO", "a")}}},
	}
	m, err := statewalk.New(def)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	h := httpapi.NewHandler(m, nil, nil)

	rec := do(t, h, http.MethodPost, "/sessions/s1/events", `"GO"`)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 without a store, got %d", rec.Code)
	}
}
