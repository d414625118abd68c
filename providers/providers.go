// Package providers registers all known completion providers.
// Import this package to make them available via provider.New():
//
//	import _ "github.com/randalmurphal/prospectkit/providers"
package providers

import (
	_ "github.com/randalmurphal/prospectkit/openai"
)
