// Package provider defines the unified interface for LLM completion providers.
//
// The generation pipeline depends only on the minimal shape described here:
// a request carrying a model, role-tagged messages and a response-length cap,
// and a response carrying generated text and token usage. Any service exposing
// that shape can be plugged in through the registry.
//
// # Usage
//
// Create a client using the registry:
//
//	client, err := provider.New("openai", provider.Config{
//	    Model:      "gpt-4o-mini",
//	    Credential: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// # Available Providers
//
//   - "openai": OpenAI chat completions (see package openai)
//
// Tests use MockClient, which records every request it receives.
package provider

import "context"

// Client is the unified interface for completion providers.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request and returns the full response.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name (e.g., "openai").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
