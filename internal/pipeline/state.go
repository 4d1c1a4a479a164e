package pipeline

import "github.com/postforge/postforge/internal/identity"

// Message is one entry in the append-only audit log carried through a run.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResearchItem is one piece of supporting material gathered for the topic.
type ResearchItem struct {
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

// PostPayload is the assembled result of a pipeline run.
type PostPayload struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

// State is the shared pipeline state. It is created once per generation
// request, mutated in place by each stage in sequence, and discarded after
// the payload is extracted. A run owns its State exclusively; nothing here
// needs locking.
type State struct {
	Topic    string
	HookText string
	BodyText string
	CTAText  string

	ResearchItems []ResearchItem
	Messages      []Message

	QAFeedback    string
	QASuggestions []string
	QAScore       int
	QAIssues      []string

	PostPayload *PostPayload

	IdentitySpec *identity.Spec
	Validators   *identity.Validators
}

// NewState seeds a fresh run state with an optional preset topic.
func NewState(topic string) *State {
	return &State{Topic: topic}
}

// AppendMessage records an audit-log entry.
func (s *State) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}
