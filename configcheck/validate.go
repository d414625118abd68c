package configcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/template"
)

// Report describes one validated document.
type Report struct {
	Path   string          `json:"path,omitempty"`
	Format template.Format `json:"format"`

	// Legacy is set when the document used the flat layout.
	Legacy bool `json:"legacy,omitempty"`

	// Errors are schema violations. The store would fall back on any of them.
	Errors []string `json:"errors,omitempty"`

	// Warnings are problems that do not break the schema but still make the
	// store use its fallback template, plus legacy notices.
	Warnings []string `json:"warnings,omitempty"`

	Tiers          int `json:"tiers"`
	Principles     int `json:"outreach_principles"`
	TemplateLength int `json:"template_length"`
}

// Valid reports whether the document passed schema validation.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// Validator checks configuration documents. Safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
	logger *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// New compiles the document schema.
func New(opts ...Option) (*Validator, error) {
	raw, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := &Validator{schema: schema, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate reads and checks the file at path. The error is non-nil only when
// the file cannot be read or parsed; schema problems go into the Report.
func (v *Validator) Validate(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", template.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", template.ErrRead, err)
	}

	r, err := v.ValidateBytes(data, template.FormatFor(path))
	if err != nil {
		return nil, err
	}
	r.Path = path
	return r, nil
}

// ValidateBytes checks an in-memory document.
func (v *Validator) ValidateBytes(data []byte, format template.Format) (*Report, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, template.ErrEmpty
	}

	var doc map[string]any
	if err := template.Unmarshal(data, format, &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, template.ErrEmpty
	}

	r := &Report{Format: format}
	if normalizeLegacy(doc) {
		r.Legacy = true
		r.Warnings = append(r.Warnings,
			"legacy layout: tiers and outreach_principles should move under framework")
	}

	// Round-trip through JSON so the validator and the counts see the same
	// values whatever decoder produced them.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", template.ErrParse, err)
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	for _, desc := range result.Errors() {
		r.Errors = append(r.Errors, desc.String())
	}

	var parsed Document
	if err := json.Unmarshal(raw, &parsed); err == nil {
		r.Tiers = len(parsed.Framework.Tiers)
		r.Principles = len(parsed.Framework.OutreachPrinciples)
		r.TemplateLength = utf8.RuneCountInString(parsed.PromptTemplate)

		tmpl := template.Template(strings.TrimSpace(parsed.PromptTemplate))
		if tmpl != "" {
			for _, ph := range tmpl.Missing() {
				r.Warnings = append(r.Warnings, "prompt_template is missing placeholder "+ph)
			}
		}
	}

	v.logger.Debug("configuration validated",
		zap.Bool("valid", r.Valid()),
		zap.Int("errors", len(r.Errors)),
		zap.Int("warnings", len(r.Warnings)))
	return r, nil
}

// normalizeLegacy moves top-level tiers and outreach_principles under a
// framework key when the document has none. It reports whether it did.
func normalizeLegacy(doc map[string]any) bool {
	if _, ok := doc["framework"]; ok {
		return false
	}
	fw := map[string]any{}
	for _, key := range []string{"tiers", "outreach_principles"} {
		if val, ok := doc[key]; ok {
			fw[key] = val
			delete(doc, key)
		}
	}
	if len(fw) == 0 {
		return false
	}
	doc["framework"] = fw
	return true
}
