package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/postforge/postforge/internal/llm"
)

const qaSystemTmpl = `You are a professional content quality-assurance reviewer.
Review the post for clarity, structure, engagement potential, professional tone, grammar, and value to the audience.{guidance}

Reply with one JSON object:
{"feedback": "overall feedback", "suggestions": ["..."], "score": 7, "issues": ["..."]}`

type qaResult struct {
	Feedback    flexString     `json:"feedback"`
	Suggestions flexStringList `json:"suggestions"`
	Score       int            `json:"score"`
	Issues      flexStringList `json:"issues"`
}

// QAStage reviews the assembled sections and records advisory feedback.
// It never retries and its score never gates the pipeline: a score of 2 is
// recorded and the run continues.
type QAStage struct {
	stageBase
}

// NewQAStage creates the QA stage.
func NewQAStage(gen llm.Generator) *QAStage {
	return &QAStage{stageBase{name: "qa_check", gen: gen}}
}

// Run writes the QA feedback, suggestions, score, and issues into state.
func (s *QAStage) Run(ctx context.Context, st *State) error {
	switch {
	case st.Topic == "":
		return &MissingInputError{Stage: s.name, Field: "topic"}
	case st.HookText == "":
		return &MissingInputError{Stage: s.name, Field: "hookText"}
	case st.BodyText == "":
		return &MissingInputError{Stage: s.name, Field: "bodyText"}
	case st.CTAText == "":
		return &MissingInputError{Stage: s.name, Field: "ctaText"}
	}

	system := renderPrompt(qaSystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
	})
	user := renderPrompt("Review the following post:\nTopic: {topic}\nHook: {hook}\nBody: {body}\nCTA: {cta}", map[string]string{
		"topic": st.Topic,
		"hook":  st.HookText,
		"body":  st.BodyText,
		"cta":   st.CTAText,
	})

	var result qaResult
	if err := s.complete(ctx, system, user, &result); err != nil {
		return err
	}

	st.QAFeedback = string(result.Feedback)
	st.QASuggestions = result.Suggestions
	st.QAScore = result.Score
	st.QAIssues = result.Issues

	st.AppendMessage("assistant", fmt.Sprintf("QA Review:\nScore: %d/10\nFeedback: %s\nSuggestions: %s\nIssues: %s",
		result.Score, result.Feedback,
		strings.Join(result.Suggestions, ", "), strings.Join(result.Issues, ", ")))
	return nil
}
