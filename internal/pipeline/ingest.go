package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fishtrack/domain/detection"
	"fishtrack/domain/format"
	"fishtrack/domain/stationmap"
	"fishtrack/ports"
)

// ProcessFile tokenises r and normalises it into a canonical detection
// stream. mapping may be nil to skip station reconciliation.
func ProcessFile(ctx context.Context, tokeniser ports.Tokeniser, mapping *stationmap.Mapping, r io.Reader) ([]detection.Detection, error) {
	table, err := tokeniser.ReadTable(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("process file: %w", err)
	}
	return format.Normalize(table, mapping)
}

// ProcessDirectory walks every *.csv file directly under dir (the CLI's
// "consume every *.csv under <directory>" behaviour) and concatenates
// their normalised detections. A missing directory is reported as-is so
// the caller can translate it into the documented exit code.
func ProcessDirectory(ctx context.Context, tokeniser ports.Tokeniser, mapping *stationmap.Mapping, dir string) ([]detection.Detection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var all []detection.Detection
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		detections, err := processOneFile(ctx, tokeniser, mapping, path)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", path, err)
		}
		all = append(all, detections...)
	}

	return all, nil
}

func processOneFile(ctx context.Context, tokeniser ports.Tokeniser, mapping *stationmap.Mapping, path string) ([]detection.Detection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ProcessFile(ctx, tokeniser, mapping, file)
}
