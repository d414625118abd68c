package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/randalmurphal/prospectkit/provider"
)

// User-facing messages.
const (
	msgEmptyDescription = "Business description cannot be empty. Please describe your business."
	msgEmptySpecs       = "Specifications cannot be empty. Please describe your target market."
	msgKeyNotSet        = "Configuration error: OPENAI_API_KEY is not set. Check your .env file."
	msgKeyPlaceholder   = "Configuration error: OPENAI_API_KEY appears to be a placeholder or invalid. Update .env with a valid key."
	msgNoClient         = "Configuration error: no completion provider is configured."
	msgAuthentication   = "Authentication failed. Check your OpenAI API key in the .env file."
	msgRateLimited      = "Rate limit exceeded. Please wait 20-30 seconds and try again."
	msgNetwork          = "Network connection failed. Check your internet connection."
)

// Classify maps an error from the dispatch path to an ErrorKind and a message
// suitable for the user.
func Classify(err error) (ErrorKind, string) {
	var perr *provider.Error

	switch {
	case err == nil:
		return KindUnknown, "Unexpected error: no error information"

	case errors.Is(err, provider.ErrCredentialsNotFound):
		return KindConfiguration, msgKeyNotSet
	case errors.Is(err, provider.ErrCredentialsInvalid):
		return KindConfiguration, msgKeyPlaceholder
	case errors.Is(err, provider.ErrUnknownProvider):
		return KindConfiguration, "Configuration error: " + err.Error()

	case errors.Is(err, provider.ErrAuthentication):
		return KindAuthentication, msgAuthentication

	case errors.Is(err, provider.ErrRateLimited):
		if wait, ok := provider.RetryAfter(err); ok {
			secs := int(math.Ceil(wait.Seconds()))
			return KindRateLimited, fmt.Sprintf("Rate limit exceeded. Please wait %d seconds and try again.", secs)
		}
		return KindRateLimited, msgRateLimited

	case errors.Is(err, provider.ErrUnavailable),
		errors.Is(err, provider.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return KindNetworkUnavailable, msgNetwork

	case errors.As(err, &perr):
		detail := err.Error()
		if perr.Err != nil {
			detail = perr.Err.Error()
		}
		return KindProviderError, "Provider error: " + detail

	default:
		return KindUnknown, "Unexpected error: " + err.Error()
	}
}

// redact removes secret from s.
func redact(s, secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[REDACTED]")
}
