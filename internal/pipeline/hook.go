package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/postforge/postforge/internal/llm"
)

const hookSystemTmpl = `You are a professional social-media content creator.
Write an engaging opening hook that captures attention and makes the reader continue.{guidance}{templates}

Reply with one JSON object:
{"hook_text": "the hook", "tone": "the tone used", "target_audience": "who it is for"}`

type hookResult struct {
	HookText       flexString `json:"hook_text"`
	Tone           flexString `json:"tone"`
	TargetAudience flexString `json:"target_audience"`
}

// HookStage generates the opening hook. Its output is checked against the
// identity's approved hook templates and the tone score.
type HookStage struct {
	stageBase
}

// NewHookStage creates the hook stage.
func NewHookStage(gen llm.Generator) *HookStage {
	return &HookStage{stageBase{name: "generate_hook", gen: gen}}
}

// Run writes the hook text into state.
func (s *HookStage) Run(ctx context.Context, st *State) error {
	if st.Topic == "" {
		return &MissingInputError{Stage: s.name, Field: "topic"}
	}

	templates := ""
	if st.IdentitySpec != nil && len(st.IdentitySpec.HookTemplates) > 0 {
		templates = renderPrompt("\n\nThe hook must follow one of these approved templates exactly, filling in each {placeholder}:\n{list}", map[string]string{
			"list": "- " + strings.Join(st.IdentitySpec.HookTemplates, "\n- "),
		})
	}

	system := renderPrompt(hookSystemTmpl, map[string]string{
		"guidance":  identityGuidance(st.IdentitySpec),
		"templates": templates,
	})
	user := renderPrompt("Generate a hook for a post about: {topic}", map[string]string{
		"topic": st.Topic,
	})

	var check func(string) (bool, string)
	if st.Validators != nil && st.Validators.Hook != nil {
		check = st.Validators.Hook
	}

	var result hookResult
	err := s.completeValidated(ctx, st, system, user, &result,
		func() string { return string(result.HookText) }, check)
	if err != nil {
		return err
	}

	st.HookText = string(result.HookText)
	st.AppendMessage("assistant", fmt.Sprintf("Generated hook: %s\nTone: %s\nTarget Audience: %s",
		result.HookText, result.Tone, result.TargetAudience))
	return nil
}
