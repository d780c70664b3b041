package capture

import (
	"context"

	"lokasi/internal/pkg/models"
)

// CaptureUC defines the capture service use case operations
type CaptureUC interface {
	// Record validates and stores a consented geolocation reading. It
	// returns a ValidationError when the payload is malformed or out of
	// range; storage failures are absorbed (the live view wins over
	// history durability).
	Record(ctx context.Context, req *models.CaptureRequest, meta models.RequestMeta) (*models.LocationReading, error)

	// RecordVisit records a capture page visit, optionally resolving a
	// coarse position from the source IP. The latest reading is only
	// replaced when coordinates were resolved.
	RecordVisit(ctx context.Context, req *models.VisitRequest, meta models.RequestMeta) (*models.LocationReading, error)

	// Latest returns the most recently accepted reading, or false when
	// nothing has been recorded since process start.
	Latest(ctx context.Context) (*models.LocationReading, bool)

	// History returns every logged reading in arrival order. Diagnostic
	// use only; it scans the durable log.
	History(ctx context.Context) ([]*models.LocationReading, error)
}
