package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"lokasi/internal/pkg/models"
)

func newReading(lat, lon float64) *models.LocationReading {
	return &models.LocationReading{
		ID:         uuid.New().String(),
		Latitude:   &lat,
		Longitude:  &lon,
		Source:     models.SourceGPS,
		ReceivedAt: models.Now(),
	}
}

type failingSink struct {
	err error
}

func (f *failingSink) Append(*models.LocationReading) error          { return f.err }
func (f *failingSink) ReadAll() ([]*models.LocationReading, error)   { return nil, f.err }
func (f *failingSink) Close() error                                  { return nil }

func TestLocationStore_LatestEmptyBeforeFirstRecord(t *testing.T) {
	store := NewLocationStore(NewMemorySink())

	reading, ok := store.Latest()

	assert.False(t, ok)
	assert.Nil(t, reading)
}

func TestLocationStore_RecordReplacesLatest(t *testing.T) {
	store := NewLocationStore(NewMemorySink())

	first := newReading(37.0, -122.0)
	second := newReading(-6.175392, 106.827153)

	assert.NoError(t, store.Record(first))
	assert.NoError(t, store.Record(second))

	latest, ok := store.Latest()
	assert.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, -6.175392, *latest.Latitude)
	assert.Equal(t, 106.827153, *latest.Longitude)
}

func TestLocationStore_LatestReturnsCopy(t *testing.T) {
	store := NewLocationStore(NewMemorySink())
	assert.NoError(t, store.Record(newReading(1.0, 2.0)))

	latest, ok := store.Latest()
	assert.True(t, ok)

	// Mutating the returned reading must not affect the stored one
	latest.Phone = "mutated"

	again, ok := store.Latest()
	assert.True(t, ok)
	assert.Empty(t, again.Phone)
}

func TestLocationStore_RecordKeepsLatestOnSinkFailure(t *testing.T) {
	sinkErr := errors.New("disk full")
	store := NewLocationStore(&failingSink{err: sinkErr})

	reading := newReading(37.0, -122.0)
	err := store.Record(reading)

	// The append error is surfaced but the live view already holds the
	// new reading.
	assert.ErrorIs(t, err, sinkErr)
	latest, ok := store.Latest()
	assert.True(t, ok)
	assert.Equal(t, reading.ID, latest.ID)
}

func TestLocationStore_AppendDoesNotTouchLatest(t *testing.T) {
	sink := NewMemorySink()
	store := NewLocationStore(sink)

	assert.NoError(t, store.Append(newReading(3.0, 4.0)))

	_, ok := store.Latest()
	assert.False(t, ok)

	readings, err := sink.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestLocationStore_HistoryPreservesArrivalOrder(t *testing.T) {
	store := NewLocationStore(NewMemorySink())

	var ids []string
	for i := 0; i < 10; i++ {
		reading := newReading(float64(i), float64(i))
		ids = append(ids, reading.ID)
		assert.NoError(t, store.Record(reading))
	}

	history, err := store.History()
	assert.NoError(t, err)
	assert.Len(t, history, 10)
	for i, reading := range history {
		assert.Equal(t, ids[i], reading.ID)
	}
}

func TestLocationStore_ConcurrentRecordAndLatest(t *testing.T) {
	sink := NewMemorySink()
	store := NewLocationStore(sink)

	const writers = 50

	var wg sync.WaitGroup
	wg.Add(writers * 2)

	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			// Latitude and longitude carry the same value so a torn
			// read would be visible as a mismatched pair.
			v := float64(i)
			reading := &models.LocationReading{
				ID:         fmt.Sprintf("reading-%d", i),
				Latitude:   &v,
				Longitude:  &v,
				Source:     models.SourceGPS,
				ReceivedAt: models.Now(),
			}
			assert.NoError(t, store.Record(reading))
		}(i)

		go func() {
			defer wg.Done()
			if latest, ok := store.Latest(); ok {
				assert.NotNil(t, latest.Latitude)
				assert.NotNil(t, latest.Longitude)
				assert.Equal(t, *latest.Latitude, *latest.Longitude)
			}
		}()
	}

	wg.Wait()

	readings, err := sink.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, readings, writers)
}
