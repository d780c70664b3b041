package capture

import (
	"lokasi/internal/pkg/models"
)

// CaptureRepo defines storage operations for accepted readings
type CaptureRepo interface {
	// Record replaces the latest reading and appends it to the durable
	// log. The latest cell is updated even when the append fails.
	Record(reading *models.LocationReading) error

	// Append writes a reading to the durable log without touching the
	// latest cell.
	Append(reading *models.LocationReading) error

	// Latest returns the current latest reading, or false when nothing
	// has been recorded since process start.
	Latest() (*models.LocationReading, bool)

	// History returns every logged reading in arrival order
	History() ([]*models.LocationReading, error)
}
