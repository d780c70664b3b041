package repository

import (
	"sync"

	"lokasi/internal/pkg/models"
)

// LocationStore keeps the most recent accepted reading in memory and
// appends every accepted reading to a durable sink. The latest cell is
// replaced whole under the lock, so readers never observe a torn reading.
type LocationStore struct {
	mu     sync.RWMutex
	latest *models.LocationReading
	sink   Sink
}

// NewLocationStore creates a location store backed by the given sink
func NewLocationStore(sink Sink) *LocationStore {
	return &LocationStore{sink: sink}
}

// Record replaces the latest reading, then appends it to the sink. The
// latest cell keeps the new value even when the append fails; losing a
// history line is preferable to losing the live view.
func (s *LocationStore) Record(reading *models.LocationReading) error {
	s.mu.Lock()
	s.latest = reading
	s.mu.Unlock()

	return s.sink.Append(reading)
}

// Append writes a reading to the sink without touching the latest cell
func (s *LocationStore) Append(reading *models.LocationReading) error {
	return s.sink.Append(reading)
}

// Latest returns a copy of the current latest reading, or false when
// nothing has been recorded since process start.
func (s *LocationStore) Latest() (*models.LocationReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, false
	}

	// Copy so callers cannot mutate the stored record
	reading := *s.latest
	return &reading, true
}

// History returns every logged reading in arrival order
func (s *LocationStore) History() ([]*models.LocationReading, error) {
	return s.sink.ReadAll()
}
