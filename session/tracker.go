package session

import (
	"context"
	"sync"

	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/model"
)

// Generator runs a generation. *generate.Service implements it.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
}

// Outcome is the result of Tracker.Run.
type Outcome struct {
	Result *generate.Result

	// Duplicate is set when Result is the remembered result of an identical
	// earlier input and no generation ran.
	Duplicate bool
}

// Tracker remembers the last successful generation of one session.
// Safe for concurrent use. Two identical inputs racing on an empty tracker
// may both reach the provider.
type Tracker struct {
	mu       sync.Mutex
	last     Signature
	result   *generate.Result
	requests int
	costs    *model.CostTracker
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{costs: model.NewCostTracker()}
}

// Run generates for in unless in matches the last successful input, in which
// case the remembered result is returned. Only successful results are
// remembered and counted.
func (t *Tracker) Run(ctx context.Context, g Generator, in Input) (Outcome, error) {
	sig := in.Signature()
	if res, ok := t.Duplicate(sig); ok {
		return Outcome{Result: res, Duplicate: true}, nil
	}

	res, err := g.Generate(ctx, in.Request())
	if err != nil {
		return Outcome{}, err
	}
	t.Record(sig, res)
	return Outcome{Result: res}, nil
}

// Duplicate returns the remembered result if sig matches the last
// successful input.
func (t *Tracker) Duplicate(sig Signature) (*generate.Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result == nil || t.last != sig {
		return nil, false
	}
	return t.result, true
}

// Record remembers res under sig when it is a success. Failures leave the
// tracker unchanged so the same input can be retried.
func (t *Tracker) Record(sig Signature, res *generate.Result) {
	if !res.OK() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = sig
	t.result = res
	t.requests++
	t.costs.Record(res.Success.Model, res.Success.TokensUsed, res.Success.Cost)
}

// Last returns the remembered result, or nil.
func (t *Tracker) Last() *generate.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Requests returns how many successful generations were recorded.
func (t *Tracker) Requests() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests
}

// Costs returns the session's token and spend tally.
func (t *Tracker) Costs() *model.CostTracker {
	return t.costs
}

// Clear forgets the remembered result and resets all counters.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = ""
	t.result = nil
	t.requests = 0
	t.costs.Reset()
}
