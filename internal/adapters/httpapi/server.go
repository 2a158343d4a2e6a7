// Package httpapi exposes a machine over HTTP for inspection and remote
// driving: definition and graph endpoints for tooling, a stateless transition
// endpoint, and session routes that persist the latest state per session ID
// through a ports.StateStore.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/internal/logging"
	presentation "github.com/aretw0/statewalk/internal/presentation/graph"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
	"github.com/aretw0/statewalk/pkg/ports"
)

// Server wires one machine and one state store behind the HTTP routes.
type Server struct {
	machine *statewalk.Machine
	store   ports.StateStore
	logger  *slog.Logger
}

// NewHandler builds the chi router for a machine. The store may be nil, in
// which case the session routes answer 501.
func NewHandler(m *statewalk.Machine, store ports.StateStore, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{machine: m, store: store, logger: logger}

	r := chi.NewRouter()
	r.Get("/machine", s.getMachine)
	r.Get("/graph", s.getGraph)
	r.Post("/transition", s.postTransition)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Delete("/", s.deleteSession)
		r.Post("/events", s.postSessionEvent)
	})
	return r
}

type machineResponse struct {
	ID      string            `json:"id"`
	Initial string            `json:"initial"`
	Events  []string          `json:"events"`
	States  []domain.NodeInfo `json:"states"`
}

func (s *Server) getMachine(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.machine.StateNodes()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, machineResponse{
		ID:      s.machine.ID(),
		Initial: s.machine.InitialState().Configuration.Key(),
		Events:  s.machine.Events(),
		States:  nodes,
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	var opts []graph.Option
	if r.URL.Query().Get("blocked") == "true" {
		opts = append(opts, graph.WithBlockedEdges())
	}
	g, err := graph.ToDirectedGraph(s.machine, opts...)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.respond(w, g)
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, presentation.Mermaid(g, nil))
	case "dot":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, presentation.Dot(g))
	default:
		s.fail(w, http.StatusBadRequest, fmt.Errorf("unknown graph format %q", format))
	}
}

type transitionRequest struct {
	State any `json:"state"`
	Event any `json:"event"`
}

func (s *Server) postTransition(w http.ResponseWriter, r *http.Request) {
	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	state, err := s.machine.Transition(body.State, body.Event)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	s.respond(w, state)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, http.StatusNotImplemented, errors.New("no state store configured"))
		return
	}
	state, err := s.store.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	s.respond(w, state)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, http.StatusNotImplemented, errors.New("no state store configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postSessionEvent applies one event to a session. A session that does not
// exist yet starts from the machine's initial state.
func (s *Server) postSessionEvent(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, http.StatusNotImplemented, errors.New("no state store configured"))
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	var event any
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid event body: %w", err))
		return
	}

	state, err := s.store.Load(r.Context(), sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		state = s.machine.InitialState()
	} else if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	next, err := s.machine.Transition(state, event)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	if err := s.store.Save(r.Context(), sessionID, next); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, next)
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", slog.Any("err", err))
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Any("err", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingEvent), domain.ErrInvalidStateReference(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
