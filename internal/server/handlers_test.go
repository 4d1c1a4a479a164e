package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/postforge/postforge/internal/identity"
	"github.com/postforge/postforge/internal/pipeline"
	"github.com/postforge/postforge/internal/scraper"
)

type stubRunner struct {
	topic string
	state *pipeline.State
	err   error
}

func (s *stubRunner) Run(ctx context.Context, topic string) (*pipeline.State, error) {
	s.topic = topic
	if s.err != nil {
		return nil, s.err
	}
	return s.state, nil
}

type stubFetcher struct {
	params scraper.FetchParams
	result *scraper.Result
	err    error
}

func (s *stubFetcher) FetchAndAnalyze(ctx context.Context, params scraper.FetchParams) (*scraper.Result, error) {
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type recordedRun struct {
	id    string
	state *pipeline.State
}

type stubRecorder struct {
	runs []recordedRun
	err  error
}

func (s *stubRecorder) RecordState(ctx context.Context, id string, st *pipeline.State) error {
	s.runs = append(s.runs, recordedRun{id: id, state: st})
	return s.err
}

func goodState(topic string) *pipeline.State {
	st := pipeline.NewState(topic)
	st.QAScore = 8
	st.PostPayload = &pipeline.PostPayload{Text: "hook\n\nbody\n\ncta", ImageURL: ""}
	return st
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGeneratePostSuccess(t *testing.T) {
	runner := &stubRunner{state: goodState("go generics")}
	recorder := &stubRecorder{}
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: runner, Recorder: recorder}))

	rec := postJSON(t, srv.Router(), "/generate-post", `{"topic":"go generics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || resp.Text != "hook\n\nbody\n\ncta" {
		t.Errorf("response = %+v, want success with payload text", resp)
	}
	if runner.topic != "go generics" {
		t.Errorf("runner topic = %q, want %q", runner.topic, "go generics")
	}
	if len(recorder.runs) != 1 || recorder.runs[0].state != runner.state {
		t.Errorf("recorder got %d runs, want the pipeline state recorded once", len(recorder.runs))
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGeneratePostCustomPromptFallback(t *testing.T) {
	runner := &stubRunner{state: goodState("")}
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: runner}))

	rec := postJSON(t, srv.Router(), "/generate-post", `{"custom_prompt":"ship small"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.topic != "ship small" {
		t.Errorf("runner topic = %q, want custom prompt as topic", runner.topic)
	}
}

func TestGeneratePostErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantRetryable bool
	}{
		{
			name:          "no active identity",
			err:           identity.ErrNoActiveIdentity,
			wantStatus:    http.StatusServiceUnavailable,
			wantRetryable: false,
		},
		{
			name:          "invalid stored spec",
			err:           &identity.SpecValidationError{Field: "creator", Reason: "is required"},
			wantStatus:    http.StatusUnprocessableEntity,
			wantRetryable: false,
		},
		{
			name:          "missing stage input",
			err:           &pipeline.MissingInputError{Stage: "generate_body", Field: "hookText"},
			wantStatus:    http.StatusUnprocessableEntity,
			wantRetryable: false,
		},
		{
			name:          "transient model failure",
			err:           errors.New("anthropic: 529 overloaded"),
			wantStatus:    http.StatusBadGateway,
			wantRetryable: true,
		},
		{
			name:          "parse failure",
			err:           &pipeline.OutputParseError{Stage: "research", Err: errors.New("bad json")},
			wantStatus:    http.StatusBadGateway,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{err: tt.err}
			srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: runner}))

			rec := postJSON(t, srv.Router(), "/generate-post", `{"topic":"x"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != "error" || resp.Retryable != tt.wantRetryable {
				t.Errorf("response = %+v, want status=error retryable=%v", resp, tt.wantRetryable)
			}
		})
	}
}

func TestGeneratePostRecorderFailureDoesNotAffectResponse(t *testing.T) {
	runner := &stubRunner{state: goodState("topic")}
	recorder := &stubRecorder{err: errors.New("disk full")}
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: runner, Recorder: recorder}))

	rec := postJSON(t, srv.Router(), "/generate-post", `{"topic":"topic"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite recorder failure", rec.Code)
	}
}

func TestGeneratePostBadJSON(t *testing.T) {
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: &stubRunner{}}))

	rec := postJSON(t, srv.Router(), "/generate-post", `{"topic":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFetchLinkedInData(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.Result{}}
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: &stubRunner{}, Fetcher: fetcher}))

	rec := postJSON(t, srv.Router(), "/fetch-linkedin-data", `{"username":"jane","limit":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if fetcher.params.Username != "jane" || fetcher.params.Limit != 5 {
		t.Errorf("fetch params = %+v, want username=jane limit=5", fetcher.params)
	}
}

func TestFetchLinkedInDataValidation(t *testing.T) {
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: &stubRunner{}, Fetcher: &stubFetcher{}}))

	rec := postJSON(t, srv.Router(), "/fetch-linkedin-data", `{"limit":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing username: status = %d, want 400", rec.Code)
	}
}

func TestFetchLinkedInDataUnconfigured(t *testing.T) {
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: &stubRunner{}}))

	rec := postJSON(t, srv.Router(), "/fetch-linkedin-data", `{"username":"jane"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when scraper unconfigured", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := New(DefaultConfig(), NewHandlers(HandlersConfig{Runner: &stubRunner{}}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s, want ok status", rec.Body.String())
	}
}
