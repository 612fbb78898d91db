package llm

import (
	"fmt"

	"gridbill/internal/config"
)

// ProviderFactory is a function that creates a Client from a provider config.
type ProviderFactory func(cfg *config.LLMProviderConfig) (Client, error)

// registry of provider factories, populated explicitly via RegisterProvider
// by the composition root.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a client factory by provider name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a Client from a provider config using the registered factory.
func New(cfg *config.LLMProviderConfig) (Client, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
