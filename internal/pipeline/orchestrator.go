package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/postforge/postforge/internal/identity"
	"github.com/postforge/postforge/internal/llm"
)

// DefaultStageTimeout bounds a single stage, including its validation
// retries, when no explicit timeout is configured.
const DefaultStageTimeout = 90 * time.Second

// Orchestrator wires the fixed stage chain and runs it to completion.
// Instances are cheap; the stage list is rebuilt per run so no state leaks
// between requests.
type Orchestrator struct {
	provider     *identity.Provider
	gen          llm.Generator
	stageTimeout time.Duration
}

// OrchestratorConfig contains configuration for creating an Orchestrator.
type OrchestratorConfig struct {
	// Provider loads the identity spec at the start of every run.
	Provider *identity.Provider
	// Generator is the shared text-generation client.
	Generator llm.Generator
	// StageTimeout bounds each stage. Defaults to DefaultStageTimeout.
	StageTimeout time.Duration
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	timeout := cfg.StageTimeout
	if timeout <= 0 {
		timeout = DefaultStageTimeout
	}
	return &Orchestrator{
		provider:     cfg.Provider,
		gen:          cfg.Generator,
		stageTimeout: timeout,
	}
}

// stages builds fresh stage instances in the fixed forward order:
// Identity -> Topic -> Research -> Hook -> Body -> CTA -> QA -> Assemble.
func (o *Orchestrator) stages() []Stage {
	return []Stage{
		NewIdentityStage(o.provider),
		NewTopicStage(o.gen),
		NewResearchStage(o.gen),
		NewHookStage(o.gen),
		NewBodyStage(o.gen),
		NewCTAStage(o.gen),
		NewQAStage(o.gen),
		NewAssembleStage(o.gen),
	}
}

// GeneratePost runs the full pipeline for an optional preset topic and
// returns the assembled payload. The first stage error aborts the run and
// propagates wrapped with pipeline context; no partial post is returned.
func (o *Orchestrator) GeneratePost(ctx context.Context, topic string) (*PostPayload, error) {
	st, err := o.Run(ctx, topic)
	if err != nil {
		return nil, err
	}
	return st.PostPayload, nil
}

// Run executes the pipeline and returns the final state, which callers may
// persist for the audit trail.
func (o *Orchestrator) Run(ctx context.Context, topic string) (*State, error) {
	runID := uuid.NewString()
	log.Printf("[pipeline] run %s: starting, topic=%q", runID, topic)

	st := NewState(topic)
	for _, stage := range o.stages() {
		start := time.Now()

		stageCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
		err := stage.Run(stageCtx, st)
		cancel()

		if err != nil {
			log.Printf("[pipeline] run %s: stage %s failed after %s: %v", runID, stage.Name(), time.Since(start).Round(time.Millisecond), err)
			return nil, fmt.Errorf("post generation failed at stage %s: %w", stage.Name(), err)
		}
		log.Printf("[pipeline] run %s: stage %s done in %s", runID, stage.Name(), time.Since(start).Round(time.Millisecond))
	}

	if st.PostPayload == nil || st.PostPayload.Text == "" {
		return nil, fmt.Errorf("post generation failed: %w", ErrNoPayload)
	}

	log.Printf("[pipeline] run %s: complete, %d chars, qa score %d", runID, len(st.PostPayload.Text), st.QAScore)
	return st, nil
}
