package repository

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"lokasi/internal/pkg/logger"
	"lokasi/internal/pkg/models"
)

// Sink is an append-only destination for accepted readings. Each Append
// writes exactly one complete record; concurrent appends never interleave.
type Sink interface {
	Append(reading *models.LocationReading) error
	ReadAll() ([]*models.LocationReading, error)
	Close() error
}

// FileSink appends readings to a JSON Lines file, one record per line,
// synced to disk on every append. The file is never rewritten or truncated.
type FileSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewFileSink opens (or creates) the history log at path for appending
func NewFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}

	return &FileSink{path: path, file: file}, nil
}

// Append serializes the reading and writes it as one line. The sync makes a
// crash after return unable to lose the record; a crash before return may.
func (fs *FileSink) Append(reading *models.LocationReading) error {
	line, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	line = append(line, '\n')

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.file.Write(line); err != nil {
		return fmt.Errorf("failed to append reading: %w", err)
	}
	return fs.file.Sync()
}

// ReadAll scans the history log into readings, in arrival order. It opens
// its own read handle so it never blocks the append path.
func (fs *FileSink) ReadAll() ([]*models.LocationReading, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	return readReadings(f)
}

// Close closes the underlying file
func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.file.Close()
}

// readReadings decodes a JSON Lines stream. Unparseable lines are skipped
// with a warning rather than failing the whole scan.
func readReadings(r io.Reader) ([]*models.LocationReading, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var readings []*models.LocationReading
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var reading models.LocationReading
		if err := json.Unmarshal(line, &reading); err != nil {
			logger.Warn("Skipping unparseable history line", logger.Err(err))
			continue
		}
		readings = append(readings, &reading)
	}

	return readings, scanner.Err()
}

// MemorySink keeps readings in memory. It backs tests and any deployment
// that wants a live view without durable history.
type MemorySink struct {
	mu       sync.Mutex
	readings []*models.LocationReading
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores the reading in memory
func (ms *MemorySink) Append(reading *models.LocationReading) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.readings = append(ms.readings, reading)
	return nil
}

// ReadAll returns a copy of the stored readings in arrival order
func (ms *MemorySink) ReadAll() ([]*models.LocationReading, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]*models.LocationReading, len(ms.readings))
	copy(out, ms.readings)
	return out, nil
}

// Close is a no-op
func (ms *MemorySink) Close() error {
	return nil
}
