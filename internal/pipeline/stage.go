package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/postforge/postforge/internal/identity"
	"github.com/postforge/postforge/internal/llm"
)

// toneThreshold is the minimum acceptable tone score before a rewrite is
// requested.
const toneThreshold = 0.6

// Stage is one step of the fixed pipeline. Run mutates the shared state and
// returns an error to abort the whole run; no partial post is ever produced.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

// stageBase carries the pieces every generation stage shares: a name for
// logs and errors, and the text-generation client.
type stageBase struct {
	name string
	gen  llm.Generator
}

// Name returns the stage name.
func (b *stageBase) Name() string {
	return b.name
}

// complete invokes the generator once and decodes the JSON reply into out.
func (b *stageBase) complete(ctx context.Context, system, user string, out any) error {
	reply, err := b.gen.Generate(ctx, system, user)
	if err != nil {
		return fmt.Errorf("stage %s: generation failed: %w", b.name, err)
	}
	return decodeReply(b.name, reply, out)
}

// completeValidated generates, then applies the stage's rule validator and
// the tone score. Each check triggers at most one guided retry, and the
// retry result is accepted unconditionally — the source system behaves this
// way and stricter semantics are explicitly not wanted.
func (b *stageBase) completeValidated(ctx context.Context, st *State, system, user string, out any, textOf func() string, check func(string) (bool, string)) error {
	if err := b.complete(ctx, system, user, out); err != nil {
		return err
	}

	if check != nil {
		if ok, reason := check(textOf()); !ok {
			log.Printf("[pipeline] stage %s: validation failed (%s), retrying once", b.name, reason)
			st.AppendMessage("system", fmt.Sprintf("%s output rejected: %s; regenerating", b.name, reason))

			guided := user + "\n\nYour previous answer was rejected: " + reason +
				". Fix that problem and reply in the same JSON format."
			if err := b.complete(ctx, system, guided, out); err != nil {
				return err
			}
		}
	}

	if st.Validators != nil && st.Validators.Tone != nil {
		if score := st.Validators.Tone(textOf()); score < toneThreshold {
			log.Printf("[pipeline] stage %s: tone score %.2f below %.2f, retrying once", b.name, score, toneThreshold)
			st.AppendMessage("system", fmt.Sprintf("%s tone score %.2f too low; regenerating", b.name, score))

			guided := user + "\n\nRewrite using shorter sentences and simpler words so it reads easily." +
				" Reply in the same JSON format."
			if err := b.complete(ctx, system, guided, out); err != nil {
				return err
			}
		}
	}

	return nil
}

// identityGuidance renders the brand guidance block appended to stage
// prompts when an identity spec is loaded.
func identityGuidance(spec *identity.Spec) string {
	if spec == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nBrand guidance:\n")
	fmt.Fprintf(&sb, "- Creator: %s\n", spec.Creator)
	fmt.Fprintf(&sb, "- Promise: %s\n", spec.Promise)
	if voice := identity.DescribeVoice(spec.Voice); voice != "" {
		fmt.Fprintf(&sb, "- Voice: %s\n", voice)
	}
	if len(spec.PillarsRanked) > 0 {
		fmt.Fprintf(&sb, "- Content pillars (ranked): %s\n", strings.Join(spec.PillarsRanked, ", "))
	}
	if len(spec.SignatureStories) > 0 {
		fmt.Fprintf(&sb, "- Signature stories: %s\n", strings.Join(spec.SignatureStories, "; "))
	}
	return sb.String()
}
