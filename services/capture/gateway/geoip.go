package gateway

import (
	"context"
	"fmt"
	"time"

	pkghttp "lokasi/internal/pkg/http"
	"lokasi/internal/pkg/models"
	"lokasi/internal/pkg/retry"
)

// IPAPIResolver resolves coarse positions from IP addresses using the
// ipapi.co public API. The lookup is rate limited upstream and suitable for
// demo traffic only.
type IPAPIResolver struct {
	client  *pkghttp.Client
	retrier *retry.Retrier
}

// NewIPAPIResolver creates a resolver against the configured endpoint
func NewIPAPIResolver(cfg *models.GeoIPConfig) *IPAPIResolver {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &IPAPIResolver{
		client: pkghttp.NewClient(cfg.Endpoint, timeout),
		retrier: retry.New(retry.Config{
			MaxRetries: 1,
			BaseDelay:  200 * time.Millisecond,
			MaxDelay:   time.Second,
			Multiplier: 2.0,
			Jitter:     true,
		}),
	}
}

type ipapiResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Country   string   `json:"country_name"`
	Org       string   `json:"org"`
}

// Resolve looks up the IP and returns whatever coordinates and metadata the
// API yields; both may be absent for private or unknown addresses.
func (r *IPAPIResolver) Resolve(ctx context.Context, ip string) (*models.GeoLookup, error) {
	if ip == "" {
		return nil, fmt.Errorf("ip must not be empty")
	}

	var resp ipapiResponse
	lookupErr := r.retrier.Execute(ctx, func(ctx context.Context) error {
		return r.client.GetJSON(ctx, fmt.Sprintf("/%s/json/", ip), &resp)
	})
	if lookupErr != nil {
		return nil, fmt.Errorf("ipapi lookup failed: %w", lookupErr)
	}

	lookup := &models.GeoLookup{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
	}

	meta := map[string]string{}
	if resp.City != "" {
		meta["city"] = resp.City
	}
	if resp.Region != "" {
		meta["region"] = resp.Region
	}
	if resp.Country != "" {
		meta["country"] = resp.Country
	}
	if resp.Org != "" {
		meta["org"] = resp.Org
	}
	if len(meta) > 0 {
		lookup.Meta = meta
	}

	return lookup, nil
}
