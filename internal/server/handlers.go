package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/postforge/postforge/internal/identity"
	"github.com/postforge/postforge/internal/pipeline"
	"github.com/postforge/postforge/internal/scraper"
)

// PostRunner runs the generation pipeline to a final state.
type PostRunner interface {
	Run(ctx context.Context, topic string) (*pipeline.State, error)
}

// PostFetcher fetches and analyzes scraped posts.
type PostFetcher interface {
	FetchAndAnalyze(ctx context.Context, params scraper.FetchParams) (*scraper.Result, error)
}

// RunRecorder persists a finished pipeline state. Optional.
type RunRecorder interface {
	RecordState(ctx context.Context, id string, st *pipeline.State) error
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	runner   PostRunner
	fetcher  PostFetcher
	recorder RunRecorder
}

// HandlersConfig contains configuration for creating Handlers.
type HandlersConfig struct {
	// Runner generates posts. Required.
	Runner PostRunner
	// Fetcher serves /fetch-linkedin-data. May be nil when no scraper
	// token is configured.
	Fetcher PostFetcher
	// Recorder persists completed runs. May be nil.
	Recorder RunRecorder
}

// NewHandlers creates the handler set.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		runner:   cfg.Runner,
		fetcher:  cfg.Fetcher,
		recorder: cfg.Recorder,
	}
}

type generateRequest struct {
	Topic        string `json:"topic"`
	CustomPrompt string `json:"custom_prompt"`
}

type generateResponse struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// GeneratePost runs the full pipeline and returns the assembled post.
// Failures are classified: transient generation errors map to 502 and are
// worth a client retry; identity configuration problems are not, and map to
// 422 or 503.
func (h *Handlers) GeneratePost(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err, false)
		return
	}

	topic := req.Topic
	if topic == "" {
		topic = req.CustomPrompt
	}

	st, err := h.runner.Run(r.Context(), topic)
	if err != nil {
		writeError(w, generateStatus(err), err, pipeline.Retryable(err))
		return
	}

	if h.recorder != nil {
		runID := uuid.NewString()
		if err := h.recorder.RecordState(r.Context(), runID, st); err != nil {
			log.Printf("[server] failed to record run %s: %v", runID, err)
		}
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Text:     st.PostPayload.Text,
		ImageURL: st.PostPayload.ImageURL,
		Status:   "success",
	})
}

// FetchLinkedInData scrapes recent posts for a username and returns them
// with engagement analysis.
func (h *Handlers) FetchLinkedInData(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("scraper is not configured"), false)
		return
	}

	var params scraper.FetchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, err, false)
		return
	}
	if params.Username == "" {
		writeError(w, http.StatusBadRequest, errors.New("username is required"), false)
		return
	}

	result, err := h.fetcher.FetchAndAnalyze(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusBadGateway, err, true)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateStatus maps a pipeline failure to an HTTP status. Missing or
// invalid identity is a deployment problem, not a request problem.
func generateStatus(err error) int {
	if errors.Is(err, identity.ErrNoActiveIdentity) {
		return http.StatusServiceUnavailable
	}
	if !pipeline.Retryable(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error, retryable bool) {
	writeJSON(w, status, errorResponse{
		Status:    "error",
		Error:     err.Error(),
		Retryable: retryable,
	})
}
