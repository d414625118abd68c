package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/randalmurphal/prospectkit/providers"
)

const testKey = "sk-test-0123456789abcdefghijklmnopqrstuvwxyz"

const table = `| Name | Tier | Why |
|------|------|-----|
| Qatar Airways | Tier 1 | Fleet logistics |
| Ooredoo | Tier 1 | Enterprise IT |
| Milaha | Tier 2 | Shipping |
| QNB | Tier 2 | Trade finance |`

// isolate clears host settings and points the CLI at an empty settings file.
func isolate(t *testing.T) []string {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "OPENAI_ORGANIZATION",
		"PROSPECTFIND_OPENAI_API_KEY", "PROSPECTFIND_OPENAI_MODEL", "PROSPECTFIND_LOG_LEVEL",
		"PROSPECTFIND_PROMPTS_PATH", "PROSPECTFIND_EXPORT_DIR",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	cfg := filepath.Join(dir, "prospectfind.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("prompts:\n  path: "+filepath.Join(dir, "prompts.yaml")+"\n"), 0o644))
	return []string{"--config", cfg, "--env-file", filepath.Join(dir, "absent.env"), "--log-level", "error"}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func fakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		body, _ := json.Marshal(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 400, "completion_tokens": 500, "total_tokens": 900},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := execute(t, append(isolate(t), "schema")...)
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "Prompt configuration", schema["title"])
}

func TestValidateCommand(t *testing.T) {
	flags := isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
framework:
  outreach_principles: [Lead with value]
  tiers:
    - name: Tier 1
      description: Ministries
prompt_template: "Business: {business_desc} Specs: {specs} {framework_summary}"
`), 0o644))

	out, _, err := execute(t, append(flags, "validate", good)...)
	require.NoError(t, err)
	assert.Contains(t, out, "OK "+good+" (yaml)")
	assert.Contains(t, out, "Found 1 tiers")
	assert.Contains(t, out, "Found 1 outreach principles")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("framework:\n  tiers: []\nprompt_template: \"\"\n"), 0o644))

	out, _, err = execute(t, append(flags, "validate", bad)...)
	require.ErrorIs(t, err, errInvalidConfig)
	assert.Contains(t, out, "FAIL "+bad)

	_, _, err = execute(t, append(flags, "validate", filepath.Join(dir, "missing.yaml"))...)
	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	out, _, err := execute(t, append(isolate(t), "check", "-b", "Fintech platform for SME payments")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Market fit: suitable for Qatar")
	assert.Contains(t, out, "Compliance checklist:")
	assert.Contains(t, out, "  [ ] ")

	out, _, err = execute(t, append(isolate(t), "check", "-b", "Alcohol import and distribution", "--json")...)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, false, report["is_suitable"])
	assert.NotEmpty(t, report["checklist"])
}

func TestGenerateCommand_DryRun(t *testing.T) {
	out, _, err := execute(t, append(isolate(t),
		"generate", "-b", "B2B logistics SaaS", "--tiers", "Tier 1", "--align-vision", "--dry-run")...)
	require.NoError(t, err)

	assert.Contains(t, out, "System:")
	assert.Contains(t, out, "B2B logistics SaaS")
	assert.Contains(t, out, "Using the built-in fallback template.")
	assert.Contains(t, out, "Regional focus: true")
	assert.Contains(t, out, "Estimated maximum cost: $")
}

func TestGenerateCommand_Exports(t *testing.T) {
	flags := isolate(t)
	srv := fakeOpenAI(t, table)
	t.Setenv("OPENAI_API_KEY", testKey)
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	dir := t.TempDir()
	link := filepath.Join(dir, "latest.md")
	out, _, err := execute(t, append(flags,
		"generate", "-b", "B2B logistics SaaS", "--plain", "--out", dir, "--link", link)...)
	require.NoError(t, err)

	assert.Contains(t, out, "| Qatar Airways | Tier 1 |")
	assert.Contains(t, out, "Tokens used: 900, Cost: $0.0135 USD (0.05 QAR)")
	assert.Contains(t, out, "(4 prospects)")
	assert.Contains(t, out, "Symlink: "+link)
	assert.NotContains(t, out, "Warning:")

	matches, err := filepath.Glob(filepath.Join(dir, "customer_list_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	raw, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "## Generated List")
	assert.Contains(t, string(raw), "- Tokens used: 900")
}

func TestGenerateCommand_JSON(t *testing.T) {
	flags := isolate(t)
	srv := fakeOpenAI(t, table)
	t.Setenv("OPENAI_API_KEY", testKey)
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	out, _, err := execute(t, append(flags, "generate", "-b", "Edtech platform", "--json", "--no-export")...)
	require.NoError(t, err)

	var res struct {
		Success *struct {
			Content    string `json:"content"`
			TokensUsed int    `json:"tokens_used"`
		} `json:"success"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(out)).Decode(&res))
	require.NotNil(t, res.Success)
	assert.Equal(t, 900, res.Success.TokensUsed)
	assert.Equal(t, table, res.Success.Content)
}

func TestGenerateCommand_MissingKey(t *testing.T) {
	out, _, err := execute(t, append(isolate(t), "generate", "-b", "Edtech platform", "--no-export")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is not set")
	assert.NotContains(t, out, "Tokens used")
}

func TestGenerateCommand_RequiresBusiness(t *testing.T) {
	_, _, err := execute(t, append(isolate(t), "generate")...)
	require.Error(t, err)
}
