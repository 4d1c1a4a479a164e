package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSpecFile reads and validates an identity spec from a local YAML or
// JSON file. Used by the identity CLI subcommands before anything touches
// the database.
func LoadSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}

	var spec Spec
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, &SpecValidationError{Field: "spec", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
		}
	default:
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, &SpecValidationError{Field: "spec", Reason: fmt.Sprintf("is not valid YAML: %v", err)}
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// MarshalSpecJSON renders a spec in the JSON form stored in identity_spec.
func MarshalSpecJSON(spec *Spec) ([]byte, error) {
	return json.Marshal(spec)
}
