package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/postforge/postforge/internal/llm"
)

const bodySystemTmpl = `You are a professional social-media content creator.
Write the main body of a post that flows naturally from the hook, weaves in the research, and keeps a professional, engaging voice.
Keep sentences short and use at most one emoji.{guidance}

Reply with one JSON object:
{"body_text": "the body", "key_points": ["..."], "tone": "the tone used"}`

type bodyResult struct {
	BodyText  flexString     `json:"body_text"`
	KeyPoints flexStringList `json:"key_points"`
	Tone      flexString     `json:"tone"`
}

// BodyStage generates the main body. Its output is checked against the
// sentence/emoji rules and the tone score.
type BodyStage struct {
	stageBase
}

// NewBodyStage creates the body stage.
func NewBodyStage(gen llm.Generator) *BodyStage {
	return &BodyStage{stageBase{name: "generate_body", gen: gen}}
}

// Run writes the body text into state.
func (s *BodyStage) Run(ctx context.Context, st *State) error {
	if st.Topic == "" {
		return &MissingInputError{Stage: s.name, Field: "topic"}
	}
	if st.HookText == "" {
		return &MissingInputError{Stage: s.name, Field: "hookText"}
	}

	research := "No research data available"
	if len(st.ResearchItems) > 0 {
		lines := make([]string, 0, len(st.ResearchItems))
		for _, item := range st.ResearchItems {
			lines = append(lines, fmt.Sprintf("%s: %s", item.Source, item.Snippet))
		}
		research = strings.Join(lines, "\n")
	}

	system := renderPrompt(bodySystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
	})
	user := renderPrompt("Generate body content for a post about: {topic}\nHook: {hook}\nResearch Context:\n{research}", map[string]string{
		"topic":    st.Topic,
		"hook":     st.HookText,
		"research": research,
	})

	var check func(string) (bool, string)
	if st.Validators != nil && st.Validators.Body != nil {
		check = st.Validators.Body
	}

	var result bodyResult
	err := s.completeValidated(ctx, st, system, user, &result,
		func() string { return string(result.BodyText) }, check)
	if err != nil {
		return err
	}

	st.BodyText = string(result.BodyText)
	st.AppendMessage("assistant", fmt.Sprintf("Generated body text: %s", result.BodyText))
	return nil
}
