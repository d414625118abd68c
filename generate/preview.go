package generate

import (
	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/model"
	"github.com/randalmurphal/prospectkit/tokens"
)

// Preview is a composed request that has not been sent.
type Preview struct {
	Composition   compose.Composition `json:"composition"`
	Estimate      tokens.Estimate     `json:"estimate"`
	EstimatedCost model.Cost          `json:"estimated_cost"`
	Fallback      bool                `json:"fallback_template"`
}

// Preview validates and composes req without calling the provider. The
// estimated cost assumes the full completion allowance is used. Invalid input
// is returned as a *Failure.
func (s *Service) Preview(req Request) (*Preview, error) {
	if f := s.validate(req); f != nil && f.Kind == KindInvalidInput {
		return nil, f
	}

	comp, loaded := s.compose(req)
	modelID := string(model.NormalizeModelID(s.cfg.Model))
	est := tokens.EstimateRequest(s.counter, modelID, comp.System, comp.Prompt, s.cfg.MaxTokens)

	return &Preview{
		Composition:   comp,
		Estimate:      est,
		EstimatedCost: s.costs.Estimate(s.cfg.Model, est.Input(), est.MaxCompletion),
		Fallback:      loaded.Fallback,
	}, nil
}
