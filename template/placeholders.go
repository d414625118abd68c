package template

import (
	"fmt"
	"strings"
)

// Placeholders substituted by the composer.
const (
	PlaceholderBusinessDesc     = "{business_desc}"
	PlaceholderSpecs            = "{specs}"
	PlaceholderFrameworkSummary = "{framework_summary}"
)

// RequiredPlaceholders lists every placeholder a template must contain.
var RequiredPlaceholders = []string{
	PlaceholderBusinessDesc,
	PlaceholderSpecs,
	PlaceholderFrameworkSummary,
}

// Template is a prompt template with named placeholders.
type Template string

// Missing returns the required placeholders absent from t, in declaration order.
func (t Template) Missing() []string {
	var missing []string
	for _, ph := range RequiredPlaceholders {
		if !strings.Contains(string(t), ph) {
			missing = append(missing, ph)
		}
	}
	return missing
}

// Validate checks that t is non-blank and contains every required placeholder.
func (t Template) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return ErrMissingTemplate
	}
	if missing := t.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingPlaceholder, strings.Join(missing, ", "))
	}
	return nil
}
