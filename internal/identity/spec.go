// Package identity loads the brand identity specification and builds the
// validation rules that generation stages check their output against.
package identity

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// hexColorPattern matches 3- or 6-digit hex colors like "#1a2b3c".
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// VisualSpec holds the visual identity settings.
type VisualSpec struct {
	PrimaryColor string `json:"primary_color" yaml:"primary_color"`
	Background   string `json:"background" yaml:"background"`
	FontFamily   string `json:"font_family" yaml:"font_family"`
	Icon         string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Spec is the brand style guide as stored in the identity_spec.spec column.
// It is immutable once loaded; a fresh copy is fetched per pipeline run.
type Spec struct {
	Creator          string         `json:"creator" yaml:"creator"`
	Promise          string         `json:"promise" yaml:"promise"`
	Voice            map[string]any `json:"voice" yaml:"voice"`
	Visual           VisualSpec     `json:"visual" yaml:"visual"`
	PillarsRanked    []string       `json:"pillars_ranked" yaml:"pillars_ranked"`
	SignatureStories []string       `json:"signature_stories" yaml:"signature_stories"`
	HookTemplates    []string       `json:"hook_templates" yaml:"hook_templates"`
	CTAStyle         string         `json:"cta_style" yaml:"cta_style"`
}

// SpecValidationError indicates a stored spec does not satisfy the schema.
type SpecValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *SpecValidationError) Error() string {
	return fmt.Sprintf("identity spec validation failed: field %q %s", e.Field, e.Reason)
}

// Validate checks the schema invariants. A failure here aborts pipeline
// startup; no generation call is ever made with an invalid identity.
func (s *Spec) Validate() error {
	if s.Creator == "" {
		return &SpecValidationError{Field: "creator", Reason: "is required"}
	}
	if s.Promise == "" {
		return &SpecValidationError{Field: "promise", Reason: "is required"}
	}
	if s.CTAStyle == "" {
		return &SpecValidationError{Field: "cta_style", Reason: "is required"}
	}
	if !hexColorPattern.MatchString(s.Visual.PrimaryColor) {
		return &SpecValidationError{
			Field:  "visual.primary_color",
			Reason: fmt.Sprintf("must be a hex color, got %q", s.Visual.PrimaryColor),
		}
	}
	return nil
}

// ParseSpec decodes and validates a spec from its stored JSON form.
func ParseSpec(raw []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, &SpecValidationError{Field: "spec", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
