package pipeline

import (
	"context"
	"fmt"

	"github.com/postforge/postforge/internal/llm"
)

const assembleSystemTmpl = `You are a professional social-media content editor.
Combine the hook, body, and CTA into one cohesive post with proper formatting, paragraph breaks, relevant hashtags, and smooth transitions.{guidance}

Reply with one JSON object:
{"text": "the complete post text", "image_url": "URL of the post image, or empty string if none"}`

type assembleResult struct {
	Text     flexString `json:"text"`
	ImageURL flexString `json:"image_url"`
}

// AssembleStage merges the three sections into the final post payload.
type AssembleStage struct {
	stageBase
}

// NewAssembleStage creates the assembler stage.
func NewAssembleStage(gen llm.Generator) *AssembleStage {
	return &AssembleStage{stageBase{name: "assemble_post", gen: gen}}
}

// Run writes state.PostPayload. ImageURL defaults to "" when the model
// omits it.
func (s *AssembleStage) Run(ctx context.Context, st *State) error {
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

	system := renderPrompt(assembleSystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
	})
	user := renderPrompt("Assemble the final post with:\nTopic: {topic}\nHook: {hook}\nBody: {body}\nCTA: {cta}", map[string]string{
		"topic": st.Topic,
		"hook":  st.HookText,
		"body":  st.BodyText,
		"cta":   st.CTAText,
	})

	var result assembleResult
	if err := s.complete(ctx, system, user, &result); err != nil {
		return err
	}

	st.PostPayload = &PostPayload{
		Text:     string(result.Text),
		ImageURL: string(result.ImageURL),
	}
	st.AppendMessage("assistant", fmt.Sprintf("Final post assembled successfully:\n%s", result.Text))
	return nil
}
