package provider

import (
	"context"
	"fmt"
)

// Source is the interface every performance data provider implements.
// It abstracts data.gov.in and the offline fixture behind one fetch call.
type Source interface {
	// Name returns the provider name for logging purposes.
	Name() string

	// Fetch issues one query upstream. Failures are returned as *FetchError.
	Fetch(ctx context.Context, f Filters) (RawPayload, error)

	// HealthCheck verifies the provider can reach its data source.
	HealthCheck(ctx context.Context) error
}

// providerRegistry holds registered provider constructors.
// This allows new providers to be registered without modifying this file.
var providerRegistry = make(map[ProviderType]func(Config) (Source, error))

// RegisterProvider registers a provider constructor for a given provider type.
// This should be called from init() in each provider package.
func RegisterProvider(providerType ProviderType, constructor func(Config) (Source, error)) {
	providerRegistry[providerType] = constructor
}

// NewProvider creates a new Source based on the configuration.
// It returns an error if the configuration is invalid or the provider is unknown.
func NewProvider(cfg Config) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	return constructor(cfg)
}
