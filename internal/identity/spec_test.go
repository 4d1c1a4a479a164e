package identity

import (
	"context"
	"errors"
	"testing"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Spec)
		wantField string
	}{
		{name: "valid spec", mutate: func(s *Spec) {}},
		{
			name:      "missing creator",
			mutate:    func(s *Spec) { s.Creator = "" },
			wantField: "creator",
		},
		{
			name:      "missing promise",
			mutate:    func(s *Spec) { s.Promise = "" },
			wantField: "promise",
		},
		{
			name:      "missing cta style",
			mutate:    func(s *Spec) { s.CTAStyle = "" },
			wantField: "cta_style",
		},
		{
			name:      "bad primary color",
			mutate:    func(s *Spec) { s.Visual.PrimaryColor = "blue" },
			wantField: "visual.primary_color",
		},
		{
			name:      "hex without hash",
			mutate:    func(s *Spec) { s.Visual.PrimaryColor = "1a2b3c" },
			wantField: "visual.primary_color",
		},
		{
			name:   "short hex form",
			mutate: func(s *Spec) { s.Visual.PrimaryColor = "#abc" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(spec)
			err := spec.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *SpecValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *SpecValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParseSpec_MalformedJSON(t *testing.T) {
	if _, err := ParseSpec([]byte("{not json")); err == nil {
		t.Fatal("ParseSpec() expected error for malformed JSON")
	}
}

func TestParseSpec_RoundTrip(t *testing.T) {
	raw, err := MarshalSpecJSON(testSpec())
	if err != nil {
		t.Fatalf("MarshalSpecJSON() error = %v", err)
	}

	spec, err := ParseSpec(raw)
	if err != nil {
		t.Fatalf("ParseSpec() error = %v", err)
	}
	if spec.Creator != "Jordan Takes" {
		t.Errorf("Creator = %q", spec.Creator)
	}
	if len(spec.HookTemplates) != 2 {
		t.Errorf("HookTemplates = %d entries, want 2", len(spec.HookTemplates))
	}
}

type stubSource struct {
	id   int64
	spec *Spec
	err  error
}

func (s *stubSource) ActiveSpec(ctx context.Context) (int64, *Spec, error) {
	return s.id, s.spec, s.err
}

func TestProviderLoad(t *testing.T) {
	p := NewProvider(&stubSource{id: 7, spec: testSpec()})

	spec, validators, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if spec.Creator != "Jordan Takes" {
		t.Errorf("Creator = %q", spec.Creator)
	}
	if validators == nil || validators.Hook == nil || validators.Body == nil || validators.Tone == nil {
		t.Fatal("Load() must build all three validators")
	}
}

func TestProviderLoad_NoActiveIdentity(t *testing.T) {
	p := NewProvider(&stubSource{err: ErrNoActiveIdentity})

	_, _, err := p.Load(context.Background())
	if !errors.Is(err, ErrNoActiveIdentity) {
		t.Fatalf("Load() error = %v, want ErrNoActiveIdentity", err)
	}
}
