package identity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Validation limits for generated text.
const (
	// MaxEmojis is the maximum emoji codepoints allowed in a body.
	MaxEmojis = 1
	// MaxSentenceWords is the maximum words allowed per sentence.
	MaxSentenceWords = 25
)

var (
	// emojiPattern matches astral-plane codepoints, where emoji live.
	emojiPattern = regexp.MustCompile(`[\x{10000}-\x{10FFFF}]`)
	// sentenceSplitPattern splits text into sentences.
	sentenceSplitPattern = regexp.MustCompile(`[.!?]`)
	// placeholderPattern matches a quoted {placeholder} segment in a template.
	placeholderPattern = regexp.MustCompile(`\\\{[^{}]*\\\}`)
)

// Validators is the closed set of validation capabilities built from a Spec.
// Stages receive the validators relevant to them at construction time.
type Validators struct {
	// Hook reports whether text fully matches an approved hook template.
	Hook func(text string) (bool, string)
	// Body reports whether text satisfies the sentence-length and emoji rules.
	Body func(text string) (bool, string)
	// Tone scores text readability in [0.2, 1.0] (higher is better).
	Tone func(text string) float64
}

// BuildValidators constructs the validator set for a spec.
func BuildValidators(spec *Spec) *Validators {
	templates := compileHookTemplates(spec.HookTemplates)
	return &Validators{
		Hook: func(text string) (bool, string) {
			return validateHook(text, templates)
		},
		Body: validateBody,
		Tone: scoreTone,
	}
}

// compileHookTemplates converts each template into a full-match pattern where
// {placeholder} segments are wildcarded and everything else is literal.
func compileHookTemplates(templates []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(templates))
	for _, tmpl := range templates {
		pattern := placeholderPattern.ReplaceAllString(regexp.QuoteMeta(tmpl), `.+`)
		re, err := regexp.Compile(`(?s)\A(?:` + pattern + `)\z`)
		if err != nil {
			// QuoteMeta output is always compilable; this is unreachable
			// unless the wildcard substitution is changed.
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// validateHook checks text against the approved templates, first match wins.
func validateHook(text string, templates []*regexp.Regexp) (bool, string) {
	for _, re := range templates {
		if re.MatchString(text) {
			return true, ""
		}
	}
	return false, "Hook does not match any approved template"
}

// validateBody enforces the sentence-length and emoji limits.
func validateBody(text string) (bool, string) {
	for _, sentence := range sentenceSplitPattern.Split(text, -1) {
		if len(strings.Fields(sentence)) > MaxSentenceWords {
			return false, "Sentence too long"
		}
	}
	if len(emojiPattern.FindAllString(text, -1)) > MaxEmojis {
		return false, "Too many emojis"
	}
	return true, ""
}

// scoreTone maps a reading-grade estimate to a 0.2-1.0 quality score.
// Grade 5 or below scores 1.0, grade 14 or above scores 0.2, with linear
// interpolation between and a 0.2 floor.
func scoreTone(text string) float64 {
	grade := FleschKincaidGrade(text)
	switch {
	case grade <= 5:
		return 1.0
	case grade >= 14:
		return 0.2
	default:
		score := 1.0 - (grade-5)*0.05
		if score < 0.2 {
			return 0.2
		}
		return score
	}
}

// DescribeVoice renders the free-form voice attributes for prompt guidance.
func DescribeVoice(voice map[string]any) string {
	if len(voice) == 0 {
		return ""
	}
	keys := make([]string, 0, len(voice))
	for k := range voice {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, voice[k]))
	}
	return strings.Join(parts, "; ")
}
