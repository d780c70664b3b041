package repository

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokasi/internal/pkg/models"
)

func TestFileSink_AppendWritesOneLinePerReading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	var ids []string
	for i := 0; i < 5; i++ {
		reading := newReading(float64(i), float64(-i))
		ids = append(ids, reading.ID)
		require.NoError(t, sink.Append(reading))
	}

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines int
	for scanner.Scan() {
		var reading models.LocationReading
		// Each line must be independently parseable
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &reading))
		assert.Equal(t, ids[lines], reading.ID)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 5, lines)
}

func TestFileSink_ReadAllRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	original := newReading(37.0, -122.0)
	original.Phone = "+15551234567"
	original.DeviceInfo = "Mozilla/5.0"
	require.NoError(t, sink.Append(original))

	readings, err := sink.ReadAll()
	require.NoError(t, err)
	require.Len(t, readings, 1)

	assert.Equal(t, original.ID, readings[0].ID)
	assert.Equal(t, 37.0, *readings[0].Latitude)
	assert.Equal(t, -122.0, *readings[0].Longitude)
	assert.Equal(t, "+15551234567", readings[0].Phone)
	assert.Equal(t, "Mozilla/5.0", readings[0].DeviceInfo)
}

func TestFileSink_ReadAllSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Append(newReading(1.0, 1.0)))

	// Simulate a partial write from a crash
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{\"id\":\"truncat\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, sink.Append(newReading(2.0, 2.0)))

	readings, err := sink.ReadAll()
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestFileSink_ReadAllMissingFile(t *testing.T) {
	fs := &FileSink{path: filepath.Join(t.TempDir(), "absent.jsonl")}

	readings, err := fs.ReadAll()

	assert.NoError(t, err)
	assert.Nil(t, readings)
}

func TestFileSink_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	const writers = 20

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, sink.Append(newReading(float64(i), float64(i))))
		}(i)
	}
	wg.Wait()

	readings, err := sink.ReadAll()
	require.NoError(t, err)
	assert.Len(t, readings, writers)
}

func TestMemorySink_ReadAllReturnsCopy(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.Append(newReading(1.0, 2.0)))

	first, err := sink.ReadAll()
	require.NoError(t, err)
	require.Len(t, first, 1)

	first[0] = nil

	second, err := sink.ReadAll()
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotNil(t, second[0])
}
