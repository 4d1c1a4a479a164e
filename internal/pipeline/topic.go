package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/postforge/postforge/internal/llm"
)

const topicSystemTmpl = `You are a professional social-media content strategist.
Select an engaging topic for a professional post and write a short structured brief for it.
Consider industry relevance, audience engagement potential, current trends, and professional value.{guidance}

Reply with one JSON object:
{"topic": "the selected topic", "brief": {"title": "...", "target_audience": "...", "key_points": ["..."], "tone": "...", "hashtags": ["#..."]}}`

// topicResult is the typed reply of the topic stage. The brief stays
// unstructured: it is logged for the audit trail and then discarded, only
// the topic itself is carried forward.
type topicResult struct {
	Topic flexString      `json:"topic"`
	Brief json.RawMessage `json:"brief"`
}

// TopicStage selects a topic, or briefs a preset one.
type TopicStage struct {
	stageBase
}

// NewTopicStage creates the topic-selection stage.
func NewTopicStage(gen llm.Generator) *TopicStage {
	return &TopicStage{stageBase{name: "select_topic", gen: gen}}
}

// Run picks or briefs the topic and writes it into state.
func (s *TopicStage) Run(ctx context.Context, st *State) error {
	system := renderPrompt(topicSystemTmpl, map[string]string{
		"guidance": identityGuidance(st.IdentitySpec),
	})

	user := "Select a topic for a professional post and write its brief."
	if st.Topic != "" {
		user = renderPrompt("Write a brief for a professional post about: {topic}", map[string]string{
			"topic": st.Topic,
		})
	}

	var result topicResult
	if err := s.complete(ctx, system, user, &result); err != nil {
		return err
	}

	st.Topic = string(result.Topic)
	log.Printf("[pipeline] stage %s: topic=%q brief=%s", s.name, st.Topic, result.Brief)
	st.AppendMessage("assistant", fmt.Sprintf("Selected topic: %s\nBrief: %s", st.Topic, result.Brief))
	return nil
}
