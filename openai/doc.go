// Package openai implements provider.Client for the OpenAI chat completions
// API using langchaingo.
//
// The client is registered as "openai" and is usually created through the
// provider registry:
//
//	import _ "github.com/randalmurphal/prospectkit/openai"
//
//	client, err := provider.FromConfig(provider.Config{
//	    Provider:   "openai",
//	    Model:      "gpt-4o-mini",
//	    Credential: os.Getenv("OPENAI_API_KEY"),
//	})
//
// Connection failures and 429 responses are retried inside the HTTP
// transport with exponential backoff, up to Config.MaxRetries extra
// attempts. Other statuses are returned immediately. The status of the final
// attempt decides which provider sentinel the error wraps, so callers can
// tell authentication failures from throttling without parsing messages.
package openai
