package pipeline

import "strings"

// Prompt templates use {name} slots. Interpolated values are escaped before
// substitution so brace sequences inside model- or user-supplied text can
// never be re-read as template directives.

const (
	leftBraceSentinel  = "\x00LB\x00"
	rightBraceSentinel = "\x00RB\x00"
)

var (
	valueEscaper    = strings.NewReplacer("{", leftBraceSentinel, "}", rightBraceSentinel)
	sentinelRestore = strings.NewReplacer(leftBraceSentinel, "{", rightBraceSentinel, "}")
)

// renderPrompt substitutes vars into the {name} slots of tmpl.
func renderPrompt(tmpl string, vars map[string]string) string {
	out := tmpl
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", valueEscaper.Replace(value))
	}
	return sentinelRestore.Replace(out)
}
