// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xache-protocol/xache-go/pkg/fingerprint"
	"github.com/xache-protocol/xache-go/pkg/probe"
)

const maxProbeBody = 1 << 20

// ProbeRequest is the body of POST /v1/probe.
type ProbeRequest struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Limit       int                     `json:"limit,omitempty"`
	MinScore    float64                 `json:"minScore,omitempty"`
	Category    fingerprint.Category    `json:"category,omitempty"`
}

// ProbeMatch is one entry of a probe response.
type ProbeMatch struct {
	MemoryID     string               `json:"memoryId"`
	Score        float64              `json:"score"`
	TopicOverlap int                  `json:"topicOverlap"`
	Category     fingerprint.Category `json:"category"`
}

// ProbeResponse is the body returned by POST /v1/probe.
type ProbeResponse struct {
	Matches []ProbeMatch `json:"matches"`
}

type probeAPI struct {
	index *probe.Index
}

// NewProbeRouter serves a fingerprint index behind DID authentication:
//
//	PUT    /v1/fingerprints/{memoryID}
//	GET    /v1/fingerprints/{memoryID}
//	DELETE /v1/fingerprints/{memoryID}
//	POST   /v1/probe
//	GET    /healthz
//
// Memory ids are scoped to the authenticated DID. Concepts are never stored.
func NewProbeRouter(index *probe.Index, auth *DIDAuthMiddleware) http.Handler {
	api := &probeAPI{index: index}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.Wrap)
		r.Put("/fingerprints/{memoryID}", api.handlePut)
		r.Get("/fingerprints/{memoryID}", api.handleGet)
		r.Delete("/fingerprints/{memoryID}", api.handleDelete)
		r.Post("/probe", api.handleProbe)
	})
	return r
}

func (a *probeAPI) handlePut(w http.ResponseWriter, r *http.Request) {
	key, ok := scopedKey(w, r)
	if !ok {
		return
	}
	var fp fingerprint.Fingerprint
	if !readJSON(w, r, &fp) {
		return
	}
	if fp.Version != fingerprint.Version || !fp.Category.Valid() {
		writeError(w, http.StatusBadRequest, "unsupported fingerprint")
		return
	}
	fp.Concepts = []string{}

	if err := a.index.Put(r.Context(), key, &fp); err != nil {
		log.Printf("probe api: put: %v", err)
		writeError(w, http.StatusInternalServerError, "store failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *probeAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := scopedKey(w, r)
	if !ok {
		return
	}
	fp, found, err := a.index.Get(r.Context(), key)
	if err != nil {
		log.Printf("probe api: get: %v", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

func (a *probeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := scopedKey(w, r)
	if !ok {
		return
	}
	if err := a.index.Delete(r.Context(), key); err != nil {
		log.Printf("probe api: delete: %v", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *probeAPI) handleProbe(w http.ResponseWriter, r *http.Request) {
	agentDID, ok := GetAgentDIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	var req ProbeRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Category != "" && !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	prefix := string(agentDID) + "/"
	matches, err := a.index.Probe(r.Context(), &req.Fingerprint, probe.Options{
		Limit:    req.Limit,
		MinScore: req.MinScore,
		Category: req.Category,
		IDPrefix: prefix,
	})
	if err != nil {
		log.Printf("probe api: probe: %v", err)
		writeError(w, http.StatusInternalServerError, "probe failed")
		return
	}

	resp := ProbeResponse{Matches: make([]ProbeMatch, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, ProbeMatch{
			MemoryID:     strings.TrimPrefix(m.MemoryID, prefix),
			Score:        m.Score,
			TopicOverlap: m.TopicOverlap,
			Category:     m.Category,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func scopedKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	agentDID, ok := GetAgentDIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	memoryID := strings.TrimSpace(chi.URLParam(r, "memoryID"))
	if memoryID == "" {
		writeError(w, http.StatusBadRequest, "missing memory id")
		return "", false
	}
	return string(agentDID) + "/" + memoryID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("probe api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProbeBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
