package stationsource

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"fishtrack/domain/stationmap"
)

// PostgresSource loads a station mapping from a Postgres table, an
// alternative to the CSV/Markdown/XLSX file sources for deployments that
// already keep the mapping in a database.
type PostgresSource struct {
	db    *sqlx.DB
	table string
}

// NewPostgresSource wraps an already-open *sqlx.DB. table defaults to
// "station_mappings" when empty.
func NewPostgresSource(db *sqlx.DB, table string) *PostgresSource {
	if table == "" {
		table = "station_mappings"
	}
	return &PostgresSource{db: db, table: table}
}

// Open opens a new Postgres connection pool for dsn and wraps it.
func Open(dsn, table string) (*PostgresSource, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("stationsource: connect postgres: %w", err)
	}
	return NewPostgresSource(db, table), nil
}

type mappingRow struct {
	OldName    *string `db:"old_name"`
	NewName    string  `db:"new_name"`
	ReceiverID string  `db:"receiver_id"`
}

// LoadStationMapping queries every row of the mapping table.
func (s *PostgresSource) LoadStationMapping(ctx context.Context) (*stationmap.Mapping, error) {
	query := fmt.Sprintf(
		`SELECT old_name, COALESCE(new_name, '') AS new_name, COALESCE(receiver_id, '') AS receiver_id FROM %s`,
		s.table,
	)

	var dbRows []mappingRow
	if err := s.db.SelectContext(ctx, &dbRows, query); err != nil {
		return nil, fmt.Errorf("stationsource: query %s: %w", s.table, err)
	}

	rows := make([]stationmap.Row, 0, len(dbRows))
	for _, r := range dbRows {
		oldName := ""
		if r.OldName != nil {
			oldName = *r.OldName
		}
		rows = append(rows, stationmap.Row{
			OldName:    oldName,
			NewName:    r.NewName,
			ReceiverID: r.ReceiverID,
		})
	}

	return stationmap.New(rows), nil
}

// Close closes the underlying connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
