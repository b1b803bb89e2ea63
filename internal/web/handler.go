// Copyright 2026 The multipass Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package web serves the JSON API behind the pass builder UI.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/steindani/multipass/internal/metrics"
	"github.com/steindani/multipass/internal/output"
	"github.com/steindani/multipass/internal/pass"
	"github.com/steindani/multipass/internal/qr"
	"github.com/steindani/multipass/internal/session"
)

const (
	maxRequestBody = 1 << 20  // 1MB
	maxImageBody   = 10 << 20 // 10MB
)

const rescanHint = "Scan not understood. Please scan the QR code again."

// Server holds the dependencies of the API handlers.
type Server struct {
	store    *session.Store
	signer   session.Signer
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// NewServer creates a server keeping sessions in store and signing with signer.
func NewServer(store *session.Store, signer session.Signer) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		store:    store,
		signer:   signer,
		metrics:  metrics.New(reg),
		registry: reg,
	}
}

// Handler returns the HTTP handler with all API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("POST /api/scan/image", s.handleScanImage)
	mux.HandleFunc("POST /api/edit", s.handleEdit)
	mux.HandleFunc("POST /api/sign", s.handleSign)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.ActiveSessions.Set(float64(s.store.Len()))
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := s.store.Create()
	writeState(w, http.StatusCreated, id, session.State{})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeState(w, http.StatusOK, id, st)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type scanRequest struct {
	Session string `json:"session"`
	Input   string `json:"input"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.scan(w, req.Session, req.Input)
}

func (s *Server) handleScanImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBody)
	if err := r.ParseMultipartForm(maxImageBody); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	f, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer f.Close()

	text, err := qr.Scan(f)
	if err != nil {
		s.metrics.Scans.WithLabelValues(metrics.ScanRejected, "").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "hint": rescanHint})
		return
	}
	s.scan(w, r.FormValue("session"), text)
}

func (s *Server) scan(w http.ResponseWriter, id, input string) {
	st, err := s.store.Update(id, func(cur session.State) (session.State, error) {
		return cur.Scan(input)
	})
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, session.ErrNotUnderstood):
		slog.Info("Rejected scan", "session", id, "error", err)
		s.metrics.Scans.WithLabelValues(metrics.ScanRejected, "").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "hint": rescanHint})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if strings.TrimSpace(input) == "" {
		s.metrics.Scans.WithLabelValues(metrics.ScanCleared, "").Inc()
	} else {
		s.metrics.Scans.WithLabelValues(metrics.ScanDecoded, st.Variant().String()).Inc()
	}
	writeState(w, http.StatusOK, id, st)
}

type editRequest struct {
	Session string `json:"session"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := pass.ParseField(req.Field)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := s.store.Update(req.Session, func(cur session.State) (session.State, error) {
		return cur.Edit(field, req.Value), nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.metrics.Edits.Inc()
	writeState(w, http.StatusOK, req.Session, st)
}

type signRequest struct {
	Session string `json:"session"`
}

// handleSign signs a snapshot of the session. The store is not locked while
// the signer runs, so scans and edits arriving meanwhile are handled and
// supersede the snapshot.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := s.store.Get(req.Session)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !st.Ready() {
		s.metrics.SignRequests.WithLabelValues(metrics.SignNotReady).Inc()
		writeError(w, http.StatusConflict, fmt.Sprintf("record is not ready: missing %v", st.Record.Missing()))
		return
	}

	art, err := st.Submit(r.Context(), s.signer)
	if err != nil {
		slog.Warn("Signing failed", "session", req.Session, "error", err)
		s.metrics.SignRequests.WithLabelValues(metrics.SignError).Inc()
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.metrics.SignRequests.WithLabelValues(metrics.SignOK).Inc()

	contentType := art.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifactName(contentType)+`"`)
	w.Write(art.Data)
}

func artifactName(contentType string) string {
	if strings.HasPrefix(contentType, "application/json") {
		return "multipass.json"
	}
	return "multipass.pkpass"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeState(w http.ResponseWriter, status int, id string, st session.State) {
	out := output.BuildStateJSON(st)
	out["session"] = id
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
