package stationsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"fishtrack/domain/stationmap"
)

// XLSXSource loads a station mapping from Sheet1 of an xlsx workbook,
// mirroring the teacher's dual CSV/XLSX DataReader: the same
// old_name, new_name, receiver_id columns, read by header name rather
// than position.
type XLSXSource struct {
	path string
}

// NewXLSXSource returns an XLSXSource reading path.
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

// LoadStationMapping reads Sheet1 and parses it into a Mapping.
func (s *XLSXSource) LoadStationMapping(ctx context.Context) (*stationmap.Mapping, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("stationsource: open %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("stationsource: read Sheet1 of %s: %w", s.path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("stationsource: %s must have a header and at least one row", s.path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
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
