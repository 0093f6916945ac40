// Package csvtok implements the Tokeniser port over encoding/csv,
// tolerating a UTF-8 BOM and re-detecting a tab separator when a
// comma-delimited first pass yields a single column.
package csvtok

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"fishtrack/domain/format"
	"fishtrack/internal/logging"
)

const bom = "﻿"

// Tokeniser reads CSV/TSV bytes into a format.Table.
type Tokeniser struct {
	logger *logging.Logger
}

// New returns a Tokeniser that logs through the given logger, or the
// package default logger if nil.
func New(logger *logging.Logger) *Tokeniser {
	if logger == nil {
		logger = logging.Default
	}
	return &Tokeniser{logger: logger}
}

// ReadTable reads all of r, decodes it as comma-separated, and
// re-decodes as tab-separated if the first pass produces rows of a
// single column — the signal that the source file was actually
// tab-delimited.
func (t *Tokeniser) ReadTable(ctx context.Context, r io.Reader) (format.Table, error) {
	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		return format.Table{}, fmt.Errorf("read input: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte(bom))

	table, err := decode(raw, ',')
	if err != nil {
		return format.Table{}, err
	}

	if len(table.Header) == 1 {
		t.logger.Debug("[Tokeniser] single-column decode, re-detecting tab separator")
		if retried, err := decode(raw, '\t'); err == nil && len(retried.Header) > 1 {
			table = retried
		}
	}

	t.logger.Debug("[Tokeniser] decoded %d rows in %s", len(table.Rows), time.Since(start))
	return table, nil
}

func decode(raw []byte, separator rune) (format.Table, error) {
	reader := csv.NewReader(bufio.NewReader(bytes.NewReader(raw)))
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return format.Table{}, fmt.Errorf("decode table: %w", err)
	}
	if len(records) == 0 {
		return format.Table{}, nil
	}

	header := records[0]
	rows := make([]format.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(format.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return format.Table{Header: header, Rows: rows}, nil
}
