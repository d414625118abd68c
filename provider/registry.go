package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a Client from cfg. Each provider package registers one.
type Factory func(cfg Config) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// normalizeName makes provider names case-insensitive so that settings such
// as "OpenAI" resolve.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes a provider available to New and FromConfig. Provider
// packages call it from init. It panics on an empty name, a nil factory, or
// a name that is already taken.
func Register(name string, factory Factory) {
	key := normalizeName(name)
	if key == "" || factory == nil {
		panic("provider: Register needs a name and a factory")
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("provider %q already registered", key))
	}
	registry[key] = factory
}

// New builds a Client with the named provider. Unknown names return
// ErrUnknownProvider listing what is registered.
func New(name string, cfg Config) (Client, error) {
	key := normalizeName(name)

	registryMu.RLock()
	factory, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(Available(), ", "))
	}

	cfg.Provider = key
	return factory(cfg)
}

// FromConfig validates cfg and builds a Client with cfg.Provider.
func FromConfig(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.Provider, cfg)
}

// Available returns the registered provider names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name resolves to a provider.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[normalizeName(name)]
	return ok
}

// Unregister removes a provider. Tests use it to undo Register.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, normalizeName(name))
}
