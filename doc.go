// Package prospectkit generates ranked customer and partner lists for a
// business entering the Qatar market.
//
// A generation composes a system message and a user prompt from a business
// description, market specifications and an outreach framework, sends them to
// an LLM provider, and reports the content with token usage and cost. Every
// failure comes back as a classified result rather than an error.
//
// Subpackages:
//
//   - provider: Client interface, configuration, registry and MockClient
//   - openai: OpenAI chat-completions client with transport retries
//   - template: prompt configuration loading with a built-in fallback
//   - compose: prompt composition and Qatar Vision 2030 regional guidance
//   - generate: the generation service and error classification
//   - model: model identifiers, price table and cost tracking
//   - tokens: token estimates and context-window checks
//   - parser: response inspection for table structure
//   - session: duplicate detection and per-session state
//   - export: timestamped markdown files with a latest-file link
//   - domaincheck: market suitability and compliance checklists
//   - configcheck: schema validation and watching of prompt configuration
//   - metrics: Prometheus collectors for generations and HTTP traffic
//
// # Quick Start
//
//	import _ "github.com/randalmurphal/prospectkit/providers"
//
//	client, _ := provider.FromConfig(provider.DefaultConfig().WithCredential(key))
//	svc := generate.New(generate.DefaultConfig(), client)
//	res, _ := svc.Generate(ctx, generate.Request{
//	    BusinessDesc: "B2B logistics SaaS",
//	    Specs:        "Selected tiers: Tier 1",
//	})
//	if res.OK() {
//	    fmt.Println(res.Success.Content)
//	}
//
// The prospectfind command in cmd/prospectfind wraps the same service as a
// CLI and an HTTP API.
package prospectkit
