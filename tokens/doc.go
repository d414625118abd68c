// Package tokens estimates the token footprint of a chat request before it is
// sent, for debug logging and dry-run cost estimates.
//
// Estimation uses a characters-per-token ratio rather than a model tokenizer:
//
//	est := tokens.EstimateRequest(nil, "gpt-4o-mini", system, prompt, 1500)
//	if !est.Fits() {
//	    // prompt plus completion allowance exceeds the context window
//	}
package tokens
