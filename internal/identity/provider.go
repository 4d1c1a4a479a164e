package identity

import (
	"context"
	"log"
)

// SpecSource yields the active identity spec. *Store implements it against
// Postgres; tests substitute an in-memory source.
type SpecSource interface {
	ActiveSpec(ctx context.Context) (int64, *Spec, error)
}

// Provider loads the identity spec and builds its validators. One load
// happens at the start of every pipeline run so mid-flight spec updates
// never affect a run already underway.
type Provider struct {
	source SpecSource
}

// NewProvider creates a provider over the given spec source.
func NewProvider(source SpecSource) *Provider {
	return &Provider{source: source}
}

// Load fetches the active spec and builds the validator set.
// Returns ErrNoActiveIdentity when the store has no open row and a
// *SpecValidationError when the stored JSON fails the schema.
func (p *Provider) Load(ctx context.Context) (*Spec, *Validators, error) {
	id, spec, err := p.source.ActiveSpec(ctx)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[identity] loaded spec id=%d creator=%s templates=%d", id, spec.Creator, len(spec.HookTemplates))
	return spec, BuildValidators(spec), nil
}
