package ports

import (
	"context"

	"fishtrack/domain/stationmap"
)

// StationMappingSource loads the external station-name translation
// table. The CSV/Markdown/XLSX file adapters and the optional Postgres
// adapter all implement this.
type StationMappingSource interface {
	LoadStationMapping(ctx context.Context) (*stationmap.Mapping, error)
}
