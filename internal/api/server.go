// Package api exposes the HTTP trigger and read surface for audiobook
// production. Trigger endpoints validate the target entity, launch the
// pipeline stage detached, and answer 202 with a correlation id; progress is
// observed by polling the read endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"fablecast/internal/config"
	"fablecast/internal/library"
	"fablecast/internal/logging"
	"fablecast/internal/synthesis"
	"fablecast/internal/voice"
)

// Pipeline is the trigger surface the server launches stages through.
type Pipeline interface {
	TriggerParse(documentID int64) string
	TriggerAnalyze(documentID int64) string
	TriggerSegment(chapterID int64) string
	TriggerGenerate(chapterID int64) string
	TriggerProduce(documentID int64) string
}

// Server routes production requests to the store and the pipeline.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	store    *library.Store
	pipeline Pipeline
	synth    synthesis.Synthesizer
	registry *voice.Registry
	logger   *slog.Logger
}

// NewServer wires the HTTP surface. A nil logger disables logging.
func NewServer(
	cfg *config.Config,
	store *library.Store,
	pipeline Pipeline,
	synth synthesis.Synthesizer,
	registry *voice.Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if registry == nil {
		registry = voice.NewRegistry()
	}
	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		store:    store,
		pipeline: pipeline,
		synth:    synth,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Post("/api/documents", s.handleUploadDocument)
	s.router.Get("/api/documents", s.handleListDocuments)
	s.router.Get("/api/documents/{id}", s.handleGetDocument)
	s.router.Delete("/api/documents/{id}", s.handleDeleteDocument)

	s.router.Post("/api/documents/{id}/cover", s.handleUploadCover)

	s.router.Post("/api/documents/{id}/parse", s.handleTriggerParse)
	s.router.Post("/api/documents/{id}/analyze", s.handleTriggerAnalyze)
	s.router.Post("/api/documents/{id}/produce", s.handleTriggerProduce)
	s.router.Get("/api/documents/{id}/chapters", s.handleListChapters)
	s.router.Get("/api/documents/{id}/characters", s.handleListCharacters)

	s.router.Post("/api/chapters/{id}/segment", s.handleTriggerSegment)
	s.router.Post("/api/chapters/{id}/generate", s.handleTriggerGenerate)
	s.router.Get("/api/chapters/{id}/segments", s.handleListSegments)

	s.router.Patch("/api/characters/{id}", s.handleUpdateCharacter)
	s.router.Get("/api/voices", s.handleListVoices)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type triggerResponse struct {
	CorrelationID string `json:"correlation_id"`
	Stage         string `json:"stage"`
}

func writeAccepted(w http.ResponseWriter, stage, correlationID string) {
	writeJSON(w, http.StatusAccepted, triggerResponse{CorrelationID: correlationID, Stage: stage})
}
