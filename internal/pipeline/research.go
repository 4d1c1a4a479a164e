package pipeline

import (
	"context"
	"fmt"

	"github.com/postforge/postforge/internal/llm"
)

const researchSystemTmpl = `You are a research assistant for professional content creation.
Gather relevant facts, statistics, and supporting insights for the given topic, citing where each came from.{guidance}

Reply with one JSON object:
{"items": [{"source": "where the information comes from", "snippet": "the relevant information"}]}`

type researchResult struct {
	Items []struct {
		Source  flexString `json:"source"`
		Snippet flexString `json:"snippet"`
	} `json:"items"`
}

// ResearchStage gathers supporting material for the selected topic.
type ResearchStage struct {
	stageBase
}

// NewResearchStage creates the research stage.
func NewResearchStage(gen llm.Generator) *ResearchStage {
	return &ResearchStage{stageBase{name: "research", gen: gen}}
}

// Run appends research items for the topic into state.
func (s *ResearchStage) Run(ctx context.Context, st *State) error {
	if st.Topic == "" {
		return &MissingInputError{Stage: s.name, Field: "topic"}
	}

	system := renderPrompt(researchSystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
	})
	user := renderPrompt("Research information about: {topic}", map[string]string{
		"topic": st.Topic,
	})

	var result researchResult
	if err := s.complete(ctx, system, user, &result); err != nil {
		return err
	}

	for _, item := range result.Items {
		st.ResearchItems = append(st.ResearchItems, ResearchItem{
			Source:  string(item.Source),
			Snippet: string(item.Snippet),
		})
	}
	st.AppendMessage("assistant", fmt.Sprintf("Research completed for topic: %s. Found %d items.", st.Topic, len(result.Items)))
	return nil
}
