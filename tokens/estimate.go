package tokens

// MessageOverhead approximates the tokens the chat format adds per message.
const MessageOverhead = 4

// Estimate is a pre-flight view of a chat request's token footprint.
type Estimate struct {
	SystemTokens  int `json:"system_tokens"`
	PromptTokens  int `json:"prompt_tokens"`
	MaxCompletion int `json:"max_completion"`
	ContextWindow int `json:"context_window"`
}

// EstimateRequest estimates a two-message request made of a system and a
// user message. A nil counter uses the default estimator.
func EstimateRequest(c Counter, modelID, system, prompt string, maxCompletion int) Estimate {
	if c == nil {
		c = NewEstimatingCounter()
	}
	if maxCompletion < 0 {
		maxCompletion = 0
	}
	return Estimate{
		SystemTokens:  c.Count(system) + MessageOverhead,
		PromptTokens:  c.Count(prompt) + MessageOverhead,
		MaxCompletion: maxCompletion,
		ContextWindow: ContextWindow(modelID),
	}
}

// Input returns the estimated tokens sent to the provider.
func (e Estimate) Input() int {
	return e.SystemTokens + e.PromptTokens
}

// UpperBound returns input plus the full completion allowance.
func (e Estimate) UpperBound() int {
	return e.Input() + e.MaxCompletion
}

// Fits reports whether the request fits the model's context window.
func (e Estimate) Fits() bool {
	return e.UpperBound() <= e.ContextWindow
}
