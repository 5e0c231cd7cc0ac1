// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package server exposes a running simulation over HTTP: state machine
// control, input updates and node value snapshots.
//
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	ms "github.com/db47h/meshsim"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// StateResponse is the body of state related responses.
//
type StateResponse struct {
	State    string `json:"state"`
	Tick     uint64 `json:"tick"`
	TickRate string `json:"tick_rate"`
}

// SnapshotResponse is the body of GET /snapshot.
//
type SnapshotResponse struct {
	Tick        uint64          `json:"tick"`
	Oscillation bool            `json:"oscillation"`
	Values      map[string]bool `json:"values"`
}

// PinResponse is the body of GET /snapshot/{path}.
//
type PinResponse struct {
	Path  string `json:"path"`
	Node  int    `json:"node"`
	Value bool   `json:"value"`
}

// InputRequest is the body of PUT /inputs/{path}.
//
type InputRequest struct {
	Value bool `json:"value"`
}

// TickRateRequest is the body of PUT /tick-rate.
//
type TickRateRequest struct {
	TickRate string `json:"tick_rate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves a single simulation.
//
type Server struct {
	Sim *ms.Simulation
	Log *slog.Logger
}

// NewHandler creates a new HTTP handler for sim.
//
func NewHandler(sim *ms.Simulation, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{Sim: sim, Log: log}
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/state", s.GetState)
	r.Post("/start", s.control(sim.Start))
	r.Post("/stop", s.control(sim.Stop))
	r.Post("/pause", s.control(sim.Pause))
	r.Post("/resume", s.control(sim.Resume))
	r.Post("/step", s.Step)
	r.Put("/tick-rate", s.SetTickRate)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/snapshot/{path}", s.GetPin)
	r.Put("/inputs/{path}", s.SetInput)
	r.Post("/inputs/{path}/toggle", s.Toggle)
	return r
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ms.ErrUnknownPin):
		return http.StatusNotFound
	case errors.Is(err, ms.ErrInvalidSteps):
		return http.StatusBadRequest
	case errors.Is(err, ms.ErrNotFreeNode),
		errors.Is(err, ms.ErrRunning),
		errors.Is(err, ms.ErrNotRunning),
		errors.Is(err, ms.ErrNotPaused),
		errors.Is(err, ms.ErrNoMesh):
		return http.StatusConflict
	case errors.Is(err, ms.ErrClosed):
		return http.StatusServiceUnavailable
	}
	var ve *ms.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.Log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, errorResponse{err.Error()})
}

func (s *Server) state() StateResponse {
	return StateResponse{
		State:    s.Sim.State().String(),
		Tick:     s.Sim.Ticks(),
		TickRate: s.Sim.TickRate().String(),
	}
}

// GetState handles GET /state.
//
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) control(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.state())
	}
}

// MaxSteps is the largest step count accepted by a single POST /step.
//
const MaxSteps = 10000

// Step handles POST /step?n=count. n defaults to 1 and may not exceed
// MaxSteps.
//
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid step count " + strconv.Quote(v)})
			return
		}
	}
	if n > MaxSteps {
		writeJSON(w, http.StatusBadRequest, errorResponse{"step count " + strconv.Itoa(n) + " exceeds " + strconv.Itoa(MaxSteps)})
		return
	}
	res, err := s.Sim.Step(n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SetTickRate handles PUT /tick-rate.
//
func (s *Server) SetTickRate(w http.ResponseWriter, r *http.Request) {
	var body TickRateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid request body"})
		return
	}
	d, err := time.ParseDuration(body.TickRate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	if err = s.Sim.SetTickRate(d); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

// GetSnapshot handles GET /snapshot.
//
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	writeJSON(w, http.StatusOK, SnapshotResponse{
		Tick:        snap.Tick,
		Oscillation: snap.Oscillation,
		Values:      snap.Values(),
	})
}

func pathParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "path"))
}

// GetPin handles GET /snapshot/{path}.
//
func (s *Server) GetPin(w http.ResponseWriter, r *http.Request) {
	p, err := pathParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	snap := s.Sim.Snapshot()
	m := snap.Mesh()
	if m == nil {
		s.fail(w, r, ms.ErrNoMesh)
		return
	}
	n, ok := m.NodeOf(p)
	if !ok {
		s.fail(w, r, errors.Wrap(ms.ErrUnknownPin, p))
		return
	}
	writeJSON(w, http.StatusOK, PinResponse{Path: p, Node: int(n), Value: snap.Node(n)})
}

// SetInput handles PUT /inputs/{path}.
//
func (s *Server) SetInput(w http.ResponseWriter, r *http.Request) {
	p, err := pathParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	var body InputRequest
	if err = json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid request body"})
		return
	}
	if err = s.Sim.SetInput(p, body.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /inputs/{path}/toggle.
//
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	p, err := pathParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	if err = s.Sim.Toggle(p); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
