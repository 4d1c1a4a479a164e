package identity

import (
	"strings"
	"testing"
)

func testSpec() *Spec {
	return &Spec{
		Creator: "Jordan Takes",
		Promise: "Practical startup lessons",
		Voice:   map[string]any{"style": "conversational"},
		Visual: VisualSpec{
			PrimaryColor: "#1a2b3c",
			Background:   "white",
			FontFamily:   "Inter",
		},
		PillarsRanked:    []string{"Founder Mindset", "AI for Scale"},
		SignatureStories: []string{"The first failed launch"},
		HookTemplates: []string{
			"What if {thing} could {outcome}?",
			"I spent {time} learning {lesson}.",
		},
		CTAStyle: "question",
	}
}

func TestHookValidator(t *testing.T) {
	v := BuildValidators(testSpec())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "matches first template",
			text: "What if every meeting could run itself?",
			want: true,
		},
		{
			name: "matches second template",
			text: "I spent 3 years learning how to say no.",
			want: true,
		},
		{
			name: "placeholder spanning several words",
			text: "What if your entire sales pipeline could close while you sleep?",
			want: true,
		},
		{
			name: "no template matches",
			text: "Here is a thought about meetings.",
			want: false,
		},
		{
			name: "prefix match only is rejected",
			text: "What if every meeting could run itself? Extra trailing words",
			want: false,
		},
		{
			name: "empty placeholder content is rejected",
			text: "What if  could ?",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Hook(tt.text)
			if ok != tt.want {
				t.Errorf("Hook(%q) = %v (reason %q), want %v", tt.text, ok, reason, tt.want)
			}
			if !ok && reason == "" {
				t.Error("failed validation must carry a reason")
			}
		})
	}
}

func TestHookValidator_NoTemplates(t *testing.T) {
	spec := testSpec()
	spec.HookTemplates = nil
	v := BuildValidators(spec)

	if ok, _ := v.Hook("Anything at all"); ok {
		t.Error("Hook() with no templates should reject everything")
	}
}

func TestBodyValidator(t *testing.T) {
	v := BuildValidators(testSpec())

	longSentence := strings.Repeat("word ", 30)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty string passes", text: "", want: true},
		{name: "short sentences pass", text: "Short and sharp. It reads well!", want: true},
		{name: "thirty word sentence fails", text: longSentence + ".", want: false},
		{name: "long sentence buried mid-text fails", text: "Fine start. " + longSentence + ". Fine end.", want: false},
		{name: "single emoji passes", text: "Shipping day \U0001F680 is here.", want: true},
		{name: "two emojis fail", text: "Shipping day \U0001F680\U0001F389 is here.", want: false},
		{
			name: "exactly 25 words passes",
			text: strings.TrimSpace(strings.Repeat("word ", 25)) + ".",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Body(tt.text)
			if ok != tt.want {
				t.Errorf("Body() = %v (reason %q), want %v", ok, reason, tt.want)
			}
		})
	}
}

func TestToneScore_Bounds(t *testing.T) {
	v := BuildValidators(testSpec())

	texts := []string{
		"",
		"See the dog run. The dog is fast. We like the dog.",
		"Notwithstanding multifaceted organizational considerations, interdepartmental synergies necessitate comprehensive recalibration of institutional methodologies across heterogeneous administrative infrastructures.",
	}

	for _, text := range texts {
		score := v.Tone(text)
		if score < 0.2 || score > 1.0 {
			t.Errorf("Tone(%q) = %v, want within [0.2, 1.0]", text, score)
		}
	}
}

func TestToneScore_MonotoneInGrade(t *testing.T) {
	// Increasingly complex texts should never score higher than simpler ones.
	simple := "See the dog run. The dog is fast. We like the dog."
	medium := "Our latest product update improves reporting accuracy and shortens onboarding time for new customers."
	complex := "Notwithstanding multifaceted organizational considerations, interdepartmental synergies necessitate comprehensive recalibration of institutional methodologies across heterogeneous administrative infrastructures simultaneously."

	gradeSimple := FleschKincaidGrade(simple)
	gradeMedium := FleschKincaidGrade(medium)
	gradeComplex := FleschKincaidGrade(complex)

	if !(gradeSimple < gradeMedium && gradeMedium < gradeComplex) {
		t.Fatalf("grade ordering broken: %v, %v, %v", gradeSimple, gradeMedium, gradeComplex)
	}

	v := BuildValidators(testSpec())
	if v.Tone(simple) < v.Tone(medium) || v.Tone(medium) < v.Tone(complex) {
		t.Errorf("Tone() not monotone: %v, %v, %v", v.Tone(simple), v.Tone(medium), v.Tone(complex))
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"dog", 1},
		{"running", 2},
		{"readable", 3},
		{"idea", 2},
		{"the", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := countSyllables(tt.word); got != tt.want {
				t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}
