// Package server exposes the layout engine over HTTP.
//
// The API mirrors the pipeline stages: validation, migration, and scene
// composition each have an endpoint, plus CRUD on stored layouts. All
// request and response bodies are JSON. Validation failures are part of the
// response payload, not HTTP errors; only malformed requests and backend
// faults map to error status codes.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ffErrors "floorforge/pkg/errors"
	"floorforge/pkg/grid"
	"floorforge/pkg/pipeline"
	"floorforge/pkg/schema"
	"floorforge/pkg/store"
)

// maxBodyBytes bounds request bodies; layout documents are small.
const maxBodyBytes = 4 << 20

// Server wires the pipeline and the layout store into an HTTP handler.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. The logger must not be nil.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/migrate", s.handleMigrate)
		r.Post("/plan", s.handlePlan)
		r.Post("/scene", s.handleScene)

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Post("/", s.handleCreateLayout)
			r.Get("/{siteID}", s.handleGetLayout)
			r.Put("/{siteID}", s.handlePutLayout)
			r.Delete("/{siteID}", s.handleDeleteLayout)
		})
	})

	return r
}

// logRequests logs one line per request with status and timing.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code ffErrors.Code, message string) {
	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = message
	respondJSON(w, status, body)
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, ffErrors.ErrCodeInvalidFormat, "read request body: "+err.Error())
		return nil, false
	}
	return data, true
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, schema.ValidateBytes(data))
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, err := schema.Parse(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, ffErrors.ErrCodeInvalidDocument, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, schema.Migrate(doc))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	var spec grid.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		respondError(w, http.StatusBadRequest, ffErrors.ErrCodeInvalidFormat, err.Error())
		return
	}
	placements, err := grid.Plan(spec)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, ffErrors.GetCode(err), ffErrors.UserMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":      len(placements),
		"placements": placements,
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	result, err := s.runner.Execute(r.Context(), data)
	if err != nil {
		code := ffErrors.GetCode(err)
		if code == "" {
			code = ffErrors.ErrCodeInternal
		}
		respondError(w, http.StatusUnprocessableEntity, code, ffErrors.UserMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ffErrors.ErrCodeStore, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"layouts": ids})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, ok := s.decodeValidLayout(w, data)
	if !ok {
		return
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		respondError(w, http.StatusInternalServerError, ffErrors.ErrCodeStore, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	doc, err := s.store.Get(r.Context(), siteID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, ffErrors.ErrCodeLayoutNotFound, "no layout for site "+siteID)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ffErrors.ErrCodeStore, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, ok := s.decodeValidLayout(w, data)
	if !ok {
		return
	}
	doc.SiteID = chi.URLParam(r, "siteID")
	if err := s.store.Put(r.Context(), doc); err != nil {
		respondError(w, http.StatusInternalServerError, ffErrors.ErrCodeStore, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "siteID")); err != nil {
		respondError(w, http.StatusInternalServerError, ffErrors.ErrCodeStore, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValidLayout parses and validates a layout payload. Migration runs
// before storage so persisted documents are always current.
func (s *Server) decodeValidLayout(w http.ResponseWriter, data []byte) (*schema.Document, bool) {
	result := schema.ValidateBytes(data)
	if !result.Valid {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return nil, false
	}
	doc, err := schema.Parse(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, ffErrors.ErrCodeInvalidDocument, err.Error())
		return nil, false
	}
	return schema.Migrate(doc), true
}
