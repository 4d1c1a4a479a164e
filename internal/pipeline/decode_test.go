package pipeline

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "bare json", reply: `{"a": 1}`, want: `{"a": 1}`},
		{name: "padded json", reply: "  {\"a\": 1}\n", want: `{"a": 1}`},
		{
			name:  "json fence",
			reply: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "plain fence",
			reply: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "fence with surrounding prose",
			reply: "Here is the result:\n```json\n{\"a\": 1}\n```\nLet me know if you need changes.",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.reply); got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeReply_FencedEqualsBare(t *testing.T) {
	bare := `{"hook_text": "What if onboarding could run itself?", "tone": "curious", "target_audience": "founders"}`
	fenced := "```json\n" + bare + "\n```"

	var fromBare, fromFenced hookResult
	if err := decodeReply("generate_hook", bare, &fromBare); err != nil {
		t.Fatalf("bare decode error = %v", err)
	}
	if err := decodeReply("generate_hook", fenced, &fromFenced); err != nil {
		t.Fatalf("fenced decode error = %v", err)
	}
	if fromBare != fromFenced {
		t.Errorf("fenced decode %+v differs from bare decode %+v", fromFenced, fromBare)
	}
}

func TestDecodeReply_ListForStringJoins(t *testing.T) {
	reply := `{"body_text": ["First point.", "Second point."], "key_points": ["a"], "tone": "direct"}`

	var result bodyResult
	if err := decodeReply("generate_body", reply, &result); err != nil {
		t.Fatalf("decodeReply() error = %v", err)
	}
	if got := string(result.BodyText); got != "First point., Second point." {
		t.Errorf("BodyText = %q, want list joined with %q", got, ", ")
	}
}

func TestDecodeReply_StringForListWraps(t *testing.T) {
	reply := `{"feedback": "fine", "suggestions": "add a statistic", "score": 6, "issues": []}`

	var result qaResult
	if err := decodeReply("qa_check", reply, &result); err != nil {
		t.Fatalf("decodeReply() error = %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "add a statistic" {
		t.Errorf("Suggestions = %v, want single wrapped element", result.Suggestions)
	}
}

func TestDecodeReply_MalformedJSON(t *testing.T) {
	var result hookResult
	err := decodeReply("generate_hook", "I could not produce JSON, sorry.", &result)

	var parseErr *OutputParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("decodeReply() error = %v, want *OutputParseError", err)
	}
	if parseErr.Stage != "generate_hook" {
		t.Errorf("Stage = %q, want generate_hook", parseErr.Stage)
	}
}

func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{
			name: "simple substitution",
			tmpl: "Post about: {topic}",
			vars: map[string]string{"topic": "AI adoption"},
			want: "Post about: AI adoption",
		},
		{
			name: "value containing a slot name is not re-expanded",
			tmpl: "Hook: {hook}\nTopic: {topic}",
			vars: map[string]string{"hook": "use {topic} wisely", "topic": "AI"},
			want: "Hook: use {topic} wisely\nTopic: AI",
		},
		{
			name: "braces in values survive literally",
			tmpl: "Template: {tmpl}",
			vars: map[string]string{"tmpl": "What if {thing} could {outcome}?"},
			want: "Template: What if {thing} could {outcome}?",
		},
		{
			name: "unknown slots stay untouched",
			tmpl: "Keep {placeholder} as-is",
			vars: map[string]string{"topic": "x"},
			want: "Keep {placeholder} as-is",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderPrompt(tt.tmpl, tt.vars); got != tt.want {
				t.Errorf("renderPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}
