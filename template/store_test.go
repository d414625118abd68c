package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const validYAML = `framework:
  outreach_principles:
    - Lead with their strategic goals
    - Keep the first message short
  tiers:
    - name: Tier 1
      description: Strategic corporate venture arms
    - name: Tier 2
      description: Value-add corporations
prompt_template: |
  Business: {business_desc}
  Specs: {specs}
  {framework_summary}
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestStore_Load_Valid(t *testing.T) {
	store := NewStore(writeConfig(t, "prompts.yaml", validYAML))

	loaded := store.Load()

	require.False(t, loaded.Fallback, "reason: %v", loaded.Reason)
	assert.NoError(t, loaded.Reason)
	assert.Equal(t, Template("Business: {business_desc}\nSpecs: {specs}\n{framework_summary}"), loaded.Template)
	assert.Equal(t, Summary(
		"Outreach Principles:\n- Lead with their strategic goals\n- Keep the first message short\n\n"+
			"Target Tiers:\n- Tier 1: Strategic corporate venture arms\n- Tier 2: Value-add corporations"),
		loaded.Summary)
	assert.Len(t, loaded.Framework.Tiers, 2)
}

func TestStore_Load_LegacyShape(t *testing.T) {
	legacy := `outreach_principles:
  - Be specific
tiers:
  - name: Angels
    description: Individual investors
prompt_template: "{business_desc} {specs} {framework_summary}"
`
	loaded := NewStore(writeConfig(t, "prompts.yml", legacy)).Load()

	require.False(t, loaded.Fallback, "reason: %v", loaded.Reason)
	assert.Equal(t, Summary("Outreach Principles:\n- Be specific\n\nTarget Tiers:\n- Angels: Individual investors"), loaded.Summary)
}

func TestStore_Load_TOML(t *testing.T) {
	doc := `prompt_template = """
Business: {business_desc}
Specs: {specs}
{framework_summary}
"""

[framework]
outreach_principles = ["Reference a shared initiative"]

[[framework.tiers]]
name = "Tier 3"
description = "Angel syndicates"
`
	loaded := NewStore(writeConfig(t, "prompts.toml", doc)).Load()

	require.False(t, loaded.Fallback, "reason: %v", loaded.Reason)
	assert.Contains(t, string(loaded.Template), PlaceholderFrameworkSummary)
	assert.Equal(t, Summary("Outreach Principles:\n- Reference a shared initiative\n\nTarget Tiers:\n- Tier 3: Angel syndicates"), loaded.Summary)
}

func TestStore_Load_OnlyTiers(t *testing.T) {
	doc := `framework:
  tiers:
    - name: Tier 1
      description: Strategic
prompt_template: "{business_desc}{specs}{framework_summary}"
`
	loaded := NewStore(writeConfig(t, "p.yaml", doc)).Load()
	assert.Equal(t, Summary("Target Tiers:\n- Tier 1: Strategic"), loaded.Summary)
}

func TestStore_Load_Fallbacks(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		wantErr     error
		wantSummary Summary
	}{
		{
			name:    "missing file",
			wantErr: ErrNotFound,
		},
		{
			name:    "empty document",
			content: ptr("   \n"),
			wantErr: ErrEmpty,
		},
		{
			name:    "null document",
			content: ptr("# just a comment\n"),
			wantErr: ErrEmpty,
		},
		{
			name:    "syntax error",
			content: ptr("framework: [unterminated\n"),
			wantErr: ErrParse,
		},
		{
			name:    "scalar document",
			content: ptr("just some text"),
			wantErr: ErrParse,
		},
		{
			name:    "no template",
			content: ptr("framework:\n  tiers: []\n"),
			wantErr: ErrMissingTemplate,
		},
		{
			name:    "blank template",
			content: ptr("prompt_template: \"   \"\n"),
			wantErr: ErrMissingTemplate,
		},
		{
			name:        "template missing placeholder keeps framework",
			content:     ptr("framework:\n  outreach_principles: [Be brief]\nprompt_template: \"{business_desc} {specs}\"\n"),
			wantErr:     ErrMissingPlaceholder,
			wantSummary: "Outreach Principles:\n- Be brief\n\n",
		},
		{
			name:        "template wrong type keeps framework",
			content:     ptr("framework:\n  tiers:\n    - name: A\n      description: B\nprompt_template:\n  nested: true\n"),
			wantErr:     ErrParse,
			wantSummary: "Target Tiers:\n- A: B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prompts.yaml")
			if tt.content != nil {
				path = writeConfig(t, "prompts.yaml", *tt.content)
			}

			loaded := NewStore(path).Load()

			assert.True(t, loaded.Fallback)
			assert.Equal(t, Fallback, loaded.Template)
			assert.True(t, errors.Is(loaded.Reason, tt.wantErr), "reason = %v, want %v", loaded.Reason, tt.wantErr)
			assert.Equal(t, tt.wantSummary, loaded.Summary)
			assert.NoError(t, loaded.Template.Validate())
		})
	}
}

func TestStore_Load_BrokenFrameworkKeepsTemplate(t *testing.T) {
	doc := `framework:
  tiers: "not a list"
prompt_template: "{business_desc} {specs} {framework_summary}"
`
	loaded := NewStore(writeConfig(t, "p.yaml", doc)).Load()

	assert.False(t, loaded.Fallback)
	assert.Empty(t, loaded.Summary)
}

func TestStore_Load_Unreadable(t *testing.T) {
	loaded := NewStore(t.TempDir()).Load()

	assert.True(t, loaded.Fallback)
	assert.ErrorIs(t, loaded.Reason, ErrRead)
}

func TestStore_Load_LogsFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"), WithLogger(zap.New(core)))

	store.Load()

	entries := logs.FilterMessage("using fallback prompt template").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestStore_Load_RereadsFile(t *testing.T) {
	path := writeConfig(t, "p.yaml", validYAML)
	store := NewStore(path)
	require.False(t, store.Load().Fallback)

	require.NoError(t, os.WriteFile(path, []byte("prompt_template: broken"), 0o600))
	assert.True(t, store.Load().Fallback)
}

func TestWithFallback(t *testing.T) {
	custom := Template("custom {business_desc} {specs} {framework_summary}")
	loaded := NewStore("/nonexistent/prompts.yaml", WithFallback(custom)).Load()
	assert.Equal(t, custom, loaded.Template)

	// Invalid replacements are ignored.
	loaded = NewStore("/nonexistent/prompts.yaml", WithFallback("no placeholders")).Load()
	assert.Equal(t, Fallback, loaded.Template)
}

func TestFallback_HasPlaceholders(t *testing.T) {
	assert.Empty(t, Fallback.Missing())
	assert.True(t, strings.Contains(string(Fallback), "markdown table"))
}

func TestTemplate_Missing(t *testing.T) {
	tests := []struct {
		tmpl Template
		want []string
	}{
		{"{business_desc}{specs}{framework_summary}", nil},
		{"{business_desc}", []string{PlaceholderSpecs, PlaceholderFrameworkSummary}},
		{"{ business_desc }", RequiredPlaceholders},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tmpl.Missing(), "template %q", tt.tmpl)
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFor("config/prompts.TOML"))
	assert.Equal(t, FormatYAML, FormatFor("config/prompts.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("config/prompts"))
}

func TestFramework_Summary_Empty(t *testing.T) {
	assert.Equal(t, Summary(""), Framework{}.Summary())
	assert.True(t, Framework{}.IsEmpty())
}

func ptr(s string) *string { return &s }
