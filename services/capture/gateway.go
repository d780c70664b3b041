package capture

import (
	"context"

	"lokasi/internal/pkg/models"
)

// GeoResolver resolves a coarse geographic position from an IP address
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (*models.GeoLookup, error)
}
