package compose

import (
	"strings"

	"github.com/randalmurphal/prospectkit/template"
)

// DefaultSystemPrompt frames the provider as a domain expert.
const DefaultSystemPrompt = "You are a market validation expert specializing in corporate partnerships and startup ecosystems."

// RegionalOptions are the caller's regional preferences for one request.
type RegionalOptions struct {
	// Align requests alignment with the region's national vision.
	Align bool `json:"align"`

	// Pillars lists the focus pillars to explain in the regional block.
	Pillars []Pillar `json:"pillars,omitempty"`
}

// Composition is a composed prompt ready for dispatch.
type Composition struct {
	// System is the fixed system-role framing.
	System string `json:"system"`

	// Prompt is the user-role text.
	Prompt string `json:"prompt"`

	// RegionalFocus is set when the regional block was appended.
	RegionalFocus bool `json:"regional_focus"`
}

// Composer fills templates. It holds no per-call state and is safe for
// concurrent use.
type Composer struct {
	system string
	region Region
}

// Option configures a Composer.
type Option func(*Composer)

// WithRegion sets the region used for keyword detection and context.
func WithRegion(r Region) Option {
	return func(c *Composer) { c.region = r }
}

// WithKeywords overrides the region's trigger keywords.
func WithKeywords(keywords ...string) Option {
	return func(c *Composer) { c.region.Keywords = keywords }
}

// WithSystemPrompt overrides the system-role framing.
func WithSystemPrompt(s string) Option {
	return func(c *Composer) {
		if strings.TrimSpace(s) != "" {
			c.system = s
		}
	}
}

// New creates a Composer for the Qatar region.
func New(opts ...Option) *Composer {
	c := &Composer{
		system: DefaultSystemPrompt,
		region: Qatar,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the configured region.
func (c *Composer) Region() Region { return c.region }

// Compose substitutes the placeholders in tmpl and appends the regional
// block when requested or when businessDesc mentions the region.
func (c *Composer) Compose(tmpl template.Template, businessDesc, specs string, summary template.Summary, regional *RegionalOptions) Composition {
	r := strings.NewReplacer(
		template.PlaceholderBusinessDesc, businessDesc,
		template.PlaceholderSpecs, specs,
		template.PlaceholderFrameworkSummary, string(summary),
	)
	prompt := r.Replace(string(tmpl))

	var opts RegionalOptions
	if regional != nil {
		opts = *regional
	}

	focus := opts.Align || c.region.Mentions(businessDesc)
	if focus {
		prompt += c.region.block(opts.Align, opts.Pillars)
	}

	return Composition{
		System:        c.system,
		Prompt:        prompt,
		RegionalFocus: focus,
	}
}
