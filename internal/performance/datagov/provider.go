package datagov

import (
	"context"

	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

// DataGovProvider implements the Source interface using the data.gov.in API.
type DataGovProvider struct {
	client     *Client
	resourceID string
}

// Ensure DataGovProvider implements Source.
var _ provider.Source = (*DataGovProvider)(nil)

// init registers the data.gov.in provider in the provider registry.
func init() {
	provider.RegisterProvider(provider.ProviderDataGov, func(cfg provider.Config) (provider.Source, error) {
		return NewProvider(cfg), nil
	})
}

// NewProvider creates a DataGovProvider from the pipeline configuration.
func NewProvider(cfg provider.Config) *DataGovProvider {
	return &DataGovProvider{
		client:     NewClient(cfg.APIKey, cfg.BaseURL, cfg.MaxRetries, cfg.BackoffBase, cfg.Timeout),
		resourceID: cfg.ResourceID,
	}
}

// Name returns the provider name.
func (p *DataGovProvider) Name() string {
	return name
}

// Fetch queries the configured MGNREGA resource.
func (p *DataGovProvider) Fetch(ctx context.Context, f provider.Filters) (provider.RawPayload, error) {
	return p.client.Fetch(ctx, p.resourceID, f)
}

// HealthCheck verifies the provider can connect to data.gov.in.
func (p *DataGovProvider) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx, p.resourceID)
}
