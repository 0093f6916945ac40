// Package stationsource implements the StationMappingSource port over
// several file shapes (CSV, Markdown table, XLSX) and an optional
// Postgres-backed table.
package stationsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"fishtrack/domain/stationmap"
	apperrors "fishtrack/internal/errors"
)

// CSVSource loads a station mapping from a CSV file with header columns
// old_name, new_name, receiver_id.
type CSVSource struct {
	path string
}

// NewCSVSource returns a CSVSource reading path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// LoadStationMapping reads and parses the CSV file.
func (s *CSVSource) LoadStationMapping(ctx context.Context) (*stationmap.Mapping, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("stationsource: open %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stationsource: read %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, apperrors.BadStationMapping("empty station mapping file")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"old_name", "new_name", "receiver_id"} {
		if _, ok := index[required]; !ok {
			return nil, apperrors.BadStationMapping(fmt.Sprintf("missing column %q", required))
		}
	}

	rows := make([]stationmap.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, stationmap.Row{
			OldName:    field(record, index["old_name"]),
			NewName:    field(record, index["new_name"]),
			ReceiverID: field(record, index["receiver_id"]),
		})
	}

	return stationmap.New(rows), nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
