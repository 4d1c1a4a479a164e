package pipeline

import (
	"context"
	"fmt"

	"github.com/postforge/postforge/internal/llm"
)

const ctaSystemTmpl = `You are a professional social-media content creator.
Write a clear, compelling call-to-action that aligns with the post's content and tone.{guidance}{style}

Reply with one JSON object:
{"cta_text": "the call-to-action", "action_type": "comment|share|connect|...", "urgency_level": "high|medium|low"}`

type ctaResult struct {
	CTAText      flexString `json:"cta_text"`
	ActionType   flexString `json:"action_type"`
	UrgencyLevel flexString `json:"urgency_level"`
}

// CTAStage generates the call-to-action. It reuses the body sentence/emoji
// rules plus the tone score.
type CTAStage struct {
	stageBase
}

// NewCTAStage creates the CTA stage.
func NewCTAStage(gen llm.Generator) *CTAStage {
	return &CTAStage{stageBase{name: "generate_cta", gen: gen}}
}

// Run writes the CTA text into state.
func (s *CTAStage) Run(ctx context.Context, st *State) error {
	if st.Topic == "" {
		return &MissingInputError{Stage: s.name, Field: "topic"}
	}
	if st.BodyText == "" {
		return &MissingInputError{Stage: s.name, Field: "bodyText"}
	}

	style := ""
	if st.IdentitySpec != nil && st.IdentitySpec.CTAStyle != "" {
		style = renderPrompt("\n\nPreferred CTA style: {style}", map[string]string{
			"style": st.IdentitySpec.CTAStyle,
		})
	}

	system := renderPrompt(ctaSystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
		"style":    style,
	})
	user := renderPrompt("Generate a CTA for a post about: {topic}\nContent: {content}", map[string]string{
		"topic":   st.Topic,
		"content": st.BodyText,
	})

	var check func(string) (bool, string)
	if st.Validators != nil && st.Validators.Body != nil {
		check = st.Validators.Body
	}

	var result ctaResult
	err := s.completeValidated(ctx, st, system, user, &result,
		func() string { return string(result.CTAText) }, check)
	if err != nil {
		return err
	}

	st.CTAText = string(result.CTAText)
	st.AppendMessage("assistant", fmt.Sprintf("Generated CTA: %s\nAction Type: %s\nUrgency Level: %s",
		result.CTAText, result.ActionType, result.UrgencyLevel))
	return nil
}
