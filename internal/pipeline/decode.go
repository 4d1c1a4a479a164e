package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The model reply is expected to contain one JSON object, possibly wrapped
// in a markdown code fence and surrounded by prose. Decoding is lenient
// about a fixed table of shape deviations and strict about everything else:
//
//	expected          accepted instead    coercion
//	string field      list of strings     joined with ", "
//	list of strings   single string       wrapped as one-element list
//
// Any other malformed shape surfaces as an OutputParseError and aborts the
// run. The typed result structs below are the only thing later pipeline code
// ever sees.

// fencePattern captures the content of the first fenced block in a reply.
var fencePattern = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?[ \t]*\n?(.+?)\n?[ \t]*```")

// stripFences returns the contents of the first markdown code fence, or the
// trimmed reply when no fence is present.
func stripFences(reply string) string {
	if m := fencePattern.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(reply)
}

// decodeReply strips fences and unmarshals the reply into out, converting
// failures into an OutputParseError for the named stage.
func decodeReply(stage, reply string, out any) error {
	cleaned := stripFences(reply)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &OutputParseError{Stage: stage, Raw: cleaned, Err: err}
	}
	return nil
}

// flexString is a string field that tolerates being delivered as a list of
// strings, which some models do despite the prompt. Lists join with ", ".
type flexString string

// UnmarshalJSON implements the lenient string decode.
func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = flexString(strings.Join(list, ", "))
		return nil
	}

	return fmt.Errorf("expected string or list of strings, got %s", data)
}

// flexStringList is a string list that tolerates a bare string, wrapping it
// as a one-element list.
type flexStringList []string

// UnmarshalJSON implements the lenient list decode.
func (f *flexStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = []string{s}
		return nil
	}

	return fmt.Errorf("expected list of strings or string, got %s", data)
}
