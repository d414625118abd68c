package generate

import "fmt"

// ErrorKind classifies a failed generation.
type ErrorKind int

// Error kinds, from caller mistakes to uncatalogued faults.
const (
	KindUnknown ErrorKind = iota
	KindInvalidInput
	KindConfiguration
	KindAuthentication
	KindRateLimited
	KindNetworkUnavailable
	KindProviderError
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindInvalidInput:       "invalid_input",
	KindConfiguration:      "configuration",
	KindAuthentication:     "authentication",
	KindRateLimited:        "rate_limited",
	KindNetworkUnavailable: "network_unavailable",
	KindProviderError:      "provider_error",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = ErrorKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// Transient reports whether retrying later may succeed.
func (k ErrorKind) Transient() bool {
	return k == KindRateLimited || k == KindNetworkUnavailable
}
