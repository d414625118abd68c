package configcheck

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/randalmurphal/prospectkit/template"
)

const validYAML = `
framework:
  outreach_principles:
    - Lead with value
    - Respect local business culture
  tiers:
    - name: Tier 1
      description: Government and semi-government entities
    - name: Tier 2
      description: Large private groups
    - name: Tier 3
prompt_template: |
  Business: {business_desc}
  Specs: {specs}
  {framework_summary}
`

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return v
}

func TestValidateBytes_Valid(t *testing.T) {
	r, err := newValidator(t).ValidateBytes([]byte(validYAML), template.FormatYAML)
	require.NoError(t, err)

	assert.True(t, r.Valid(), "errors: %v", r.Errors)
	assert.False(t, r.Legacy)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 3, r.Tiers)
	assert.Equal(t, 2, r.Principles)
	assert.Equal(t, len("Business: {business_desc}\nSpecs: {specs}\n{framework_summary}\n"), r.TemplateLength)
}

func TestValidateBytes_Legacy(t *testing.T) {
	doc := `
tiers:
  - name: Tier 1
    description: Ministries
outreach_principles:
  - Be brief
prompt_template: "{business_desc} {specs} {framework_summary}"
`
	r, err := newValidator(t).ValidateBytes([]byte(doc), template.FormatYAML)
	require.NoError(t, err)

	assert.True(t, r.Valid(), "errors: %v", r.Errors)
	assert.True(t, r.Legacy)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "legacy layout")
	assert.Equal(t, 1, r.Tiers)
	assert.Equal(t, 1, r.Principles)
}

func TestValidateBytes_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing framework",
			doc:  `prompt_template: "{business_desc} {specs} {framework_summary}"`,
			want: "framework is required",
		},
		{
			name: "missing prompt template",
			doc: `
framework:
  tiers: []
  outreach_principles: []
`,
			want: "prompt_template is required",
		},
		{
			name: "missing tiers",
			doc: `
framework:
  outreach_principles: [a]
prompt_template: "{business_desc} {specs} {framework_summary}"
`,
			want: "tiers is required",
		},
		{
			name: "missing outreach principles",
			doc: `
framework:
  tiers: []
prompt_template: "{business_desc} {specs} {framework_summary}"
`,
			want: "outreach_principles is required",
		},
		{
			name: "tier without name",
			doc: `
framework:
  tiers:
    - description: nameless
  outreach_principles: []
prompt_template: "{business_desc} {specs} {framework_summary}"
`,
			want: "name is required",
		},
		{
			name: "principles of wrong type",
			doc: `
framework:
  tiers: []
  outreach_principles: "be brief"
prompt_template: "{business_desc} {specs} {framework_summary}"
`,
			want: "outreach_principles",
		},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := v.ValidateBytes([]byte(tt.doc), template.FormatYAML)
			require.NoError(t, err)
			assert.False(t, r.Valid())
			assert.Contains(t, strings.Join(r.Errors, "\n"), tt.want)
		})
	}
}

func TestValidateBytes_EmptyTemplateString(t *testing.T) {
	doc := `
framework: {tiers: [], outreach_principles: []}
prompt_template: ""
`
	r, err := newValidator(t).ValidateBytes([]byte(doc), template.FormatYAML)
	require.NoError(t, err)
	assert.False(t, r.Valid())
	assert.Zero(t, r.TemplateLength)
}

func TestValidateBytes_MissingPlaceholderWarns(t *testing.T) {
	doc := `
framework: {tiers: [], outreach_principles: []}
prompt_template: "Find customers for {business_desc}"
`
	r, err := newValidator(t).ValidateBytes([]byte(doc), template.FormatYAML)
	require.NoError(t, err)
	assert.True(t, r.Valid())
	assert.Equal(t, []string{
		"prompt_template is missing placeholder {specs}",
		"prompt_template is missing placeholder {framework_summary}",
	}, r.Warnings)
}

func TestValidateBytes_TOML(t *testing.T) {
	doc := `
prompt_template = "{business_desc} / {specs} / {framework_summary}"

[framework]
outreach_principles = ["Lead with value"]

[[framework.tiers]]
name = "Tier 1"
description = "Ministries"

[[framework.tiers]]
name = "Tier 2"
description = "Banks"
`
	r, err := newValidator(t).ValidateBytes([]byte(doc), template.FormatTOML)
	require.NoError(t, err)
	assert.True(t, r.Valid(), "errors: %v", r.Errors)
	assert.Equal(t, template.FormatTOML, r.Format)
	assert.Equal(t, 2, r.Tiers)
	assert.Equal(t, 1, r.Principles)
}

func TestValidateBytes_Unusable(t *testing.T) {
	v := newValidator(t)

	_, err := v.ValidateBytes([]byte("  \n"), template.FormatYAML)
	assert.ErrorIs(t, err, template.ErrEmpty)

	_, err = v.ValidateBytes([]byte("framework: [unclosed"), template.FormatYAML)
	assert.ErrorIs(t, err, template.ErrParse)

	_, err = v.ValidateBytes([]byte("- just\n- a list\n"), template.FormatYAML)
	assert.ErrorIs(t, err, template.ErrParse)
}

func TestValidate_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	v := newValidator(t)
	r, err := v.Validate(path)
	require.NoError(t, err)
	assert.Equal(t, path, r.Path)
	assert.True(t, r.Valid())

	_, err = v.Validate(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, template.ErrNotFound)
}

func TestSchema(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)

	var s map[string]any
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Contains(t, s, "$schema")
	assert.Equal(t, "Prompt configuration", s["title"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok, "schema is inlined, not referenced")
	assert.Contains(t, props, "framework")
	assert.Contains(t, props, "prompt_template")
	assert.ElementsMatch(t, []any{"framework", "prompt_template"}, s["required"])
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	v := newValidator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		r   *Report
		err error
	}
	reports := make(chan outcome, 16)
	done := make(chan error, 1)
	go func() {
		done <- v.Watch(ctx, path, func(r *Report, err error) {
			reports <- outcome{r, err}
		})
	}()

	select {
	case first := <-reports:
		require.NoError(t, first.err)
		assert.True(t, first.r.Valid())
	case <-time.After(5 * time.Second):
		t.Fatal("no initial report")
	}

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("prompt_template: broken\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case o := <-reports:
			// A read can race the truncate of the rewrite.
			if o.err != nil || o.r.Valid() {
				continue
			}
			assert.Contains(t, strings.Join(o.r.Errors, "\n"), "framework is required")
			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("watch did not stop")
			}
			return
		case <-deadline:
			t.Fatal("change was not reported")
		}
	}
}
