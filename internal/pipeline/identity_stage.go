package pipeline

import (
	"context"
	"fmt"

	"github.com/postforge/postforge/internal/identity"
)

// IdentityStage loads the brand spec and attaches it plus its validators to
// the run state. It is always the entry node; a failure here means no
// generation call is ever made.
type IdentityStage struct {
	provider *identity.Provider
}

// NewIdentityStage creates the identity-loading stage.
func NewIdentityStage(provider *identity.Provider) *IdentityStage {
	return &IdentityStage{provider: provider}
}

// Name returns the stage name.
func (s *IdentityStage) Name() string {
	return "identity"
}

// Run fetches the active spec and builds the validator set.
func (s *IdentityStage) Run(ctx context.Context, st *State) error {
	spec, validators, err := s.provider.Load(ctx)
	if err != nil {
		return err
	}

	st.IdentitySpec = spec
	st.Validators = validators
	st.AppendMessage("system", fmt.Sprintf("Identity loaded for creator: %s", spec.Creator))
	return nil
}
