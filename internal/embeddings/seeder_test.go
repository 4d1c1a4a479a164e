package embeddings

import (
	"testing"

	"github.com/postforge/postforge/internal/identity"
)

func TestBrandPhrases(t *testing.T) {
	tests := []struct {
		name string
		spec identity.Spec
		want []string
	}{
		{
			name: "voice strings then pillars",
			spec: identity.Spec{
				Voice: map[string]any{
					"tone":    "conversational",
					"persona": "visionary",
				},
				PillarsRanked: []string{"Founder Mindset", "AI for Scale"},
			},
			want: []string{"visionary", "conversational", "Founder Mindset", "AI for Scale"},
		},
		{
			name: "list-valued voice attributes flatten",
			spec: identity.Spec{
				Voice: map[string]any{
					"traits": []any{"friendly", "passionate"},
				},
			},
			want: []string{"friendly", "passionate"},
		},
		{
			name: "duplicates and blanks dropped",
			spec: identity.Spec{
				Voice: map[string]any{
					"tone": "friendly",
					"mood": "  ",
				},
				PillarsRanked: []string{"friendly", "Bootstrapping"},
			},
			want: []string{"friendly", "Bootstrapping"},
		},
		{
			name: "non-string voice values ignored",
			spec: identity.Spec{
				Voice: map[string]any{
					"emoji_budget": float64(2),
					"tone":         "authoritative",
				},
			},
			want: []string{"authoritative"},
		},
		{
			name: "empty spec",
			spec: identity.Spec{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BrandPhrases(&tt.spec)
			if len(got) != len(tt.want) {
				t.Fatalf("BrandPhrases() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("BrandPhrases()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVectorLiteral(t *testing.T) {
	tests := []struct {
		name string
		vec  []float64
		want string
	}{
		{"empty", nil, "[]"},
		{"single", []float64{0.5}, "[0.5]"},
		{"multiple", []float64{0.1, -0.25, 1}, "[0.1,-0.25,1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VectorLiteral(tt.vec); got != tt.want {
				t.Errorf("VectorLiteral(%v) = %q, want %q", tt.vec, got, tt.want)
			}
		})
	}
}
