package generate

import (
	"time"

	"github.com/randalmurphal/prospectkit/compose"
	"github.com/randalmurphal/prospectkit/model"
)

// Request is one generation request. It is never modified by the service.
type Request struct {
	BusinessDesc string                   `json:"business_desc"`
	Specs        string                   `json:"specs"`
	Regional     *compose.RegionalOptions `json:"regional,omitempty"`
}

// Result is the outcome of a generation. Exactly one of Success and Failure
// is set.
type Result struct {
	RequestID   string    `json:"request_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Success     *Success  `json:"success,omitempty"`
	Failure     *Failure  `json:"failure,omitempty"`
}

// OK reports whether the generation succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Success != nil
}

// Success carries the generated content and its accounting.
type Success struct {
	Content          string     `json:"content"`
	TokensUsed       int        `json:"tokens_used"`
	Cost             model.Cost `json:"cost"`
	Model            string     `json:"model"`
	RegionalFocus    bool       `json:"regional_focus"`
	DefaultPriceUsed bool       `json:"default_price_used,omitempty"`
}

// Failure describes why a generation produced no content.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements error so a Failure can travel through error returns.
func (f *Failure) Error() string {
	return f.Kind.String() + ": " + f.Message
}
