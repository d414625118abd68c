package openai

import "github.com/randalmurphal/prospectkit/provider"

func init() {
	provider.Register(ProviderName, func(cfg provider.Config) (provider.Client, error) {
		return New(cfg)
	})
}
