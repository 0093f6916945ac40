// Package upload stages an incoming detection file to local disk under a
// unique name before the pipeline reads it, so a failed or retried
// ingest never collides with another upload in flight.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Config holds the staging directory and copy chunk size.
type Config struct {
	BasePath  string
	ChunkSize int
}

// DefaultConfig returns the staging defaults used when no Config is given.
func DefaultConfig() *Config {
	return &Config{
		BasePath:  "uploads/detections",
		ChunkSize: 1024 * 1024,
	}
}

// Storage stages uploaded detection files under BasePath.
type Storage struct {
	config *Config
}

// New returns a Storage. A nil config uses DefaultConfig.
func New(config *Config) *Storage {
	if config == nil {
		config = DefaultConfig()
	}
	return &Storage{config: config}
}

// Stage copies file to a uuid-suffixed path under the storage's base
// directory and returns that path.
func (s *Storage) Stage(ctx context.Context, file multipart.File, filename string) (string, error) {
	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return "", fmt.Errorf("stage upload: create directory: %w", err)
	}

	ext := filepath.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	timestamp := time.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s%s", base, timestamp, uuid.New().String()[:8], ext)

	destPath := filepath.Join(s.config.BasePath, uniqueName)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("stage upload: create destination: %w", err)
	}
	defer dest.Close()

	buf := make([]byte, s.config.ChunkSize)
	if _, err := io.CopyBuffer(dest, file, buf); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("stage upload: copy contents: %w", err)
	}

	return destPath, nil
}

// Open returns a reader for a previously staged file.
func (s *Storage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staged upload: %w", err)
	}
	return file, nil
}

// Remove deletes a staged file once the pipeline has consumed it.
func (s *Storage) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged upload: %w", err)
	}
	return nil
}
