package format

import (
	"strings"
	"time"

	"fishtrack/domain/detection"
	"fishtrack/domain/stationmap"
	apperrors "fishtrack/internal/errors"
)

// rawFields is the intermediate, layout-specific extraction of a row
// before date parsing and station reconciliation are applied.
type rawFields struct {
	timestampRaw string
	formats      []string
	transmitter  string
	station      string
	receiver     string
}

type extractor func(row Row) rawFields

var extractors = map[Layout]extractor{
	LayoutVlizV1: extractVlizV1,
	LayoutVlizV2: extractVlizV2,
	LayoutINBO:   extractINBO,
	LayoutVUE:    extractVUE,
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractVlizV1(row Row) rawFields {
	receiver := row["Receiver"]
	return rawFields{
		timestampRaw: row["Date(UTC)"] + " " + row["Time(UTC)"],
		formats:      []string{"2006-01-02 15:04:05", "02/01/2006 15:04:05"},
		transmitter:  row["Transmitter"],
		station:      firstNonEmpty(row["StationName"], receiver),
		receiver:     receiver,
	}
}

func extractVlizV2(row Row) rawFields {
	receiver := row["Receiver"]
	return rawFields{
		timestampRaw: row["Date and Time (UTC)"],
		formats:      []string{"2006-01-02 15:04:05"},
		transmitter:  row["Transmitter"],
		station:      firstNonEmpty(row["Station Name"], receiver),
		receiver:     receiver,
	}
}

func extractINBO(row Row) rawFields {
	receiverName := row["Receiver Name"]
	return rawFields{
		timestampRaw: row["Date/Time"],
		formats:      []string{"02/01/2006 15:04", "2006-01-02 15:04:05"},
		transmitter:  row["Code Space"] + "-" + row["ID"],
		station:      firstNonEmpty(row["Station Name"], receiverName, row["Receiver S/N"]),
		receiver:     receiverName,
	}
}

func extractVUE(row Row) rawFields {
	receiverID := row["receiver_id"]
	return rawFields{
		timestampRaw: row["date_time_utc"],
		formats:      []string{"2006-01-02 15:04:05", "02/01/2006 15:04"},
		transmitter:  row["transmitter_id"],
		station:      firstNonEmpty(row["station_name"], receiverID),
		receiver:     receiverID,
	}
}

func parseTimestamp(raw string, formats []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range formats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Normalize recognises table's layout and produces a canonical Detection
// per row. mapping may be nil, in which case no station reconciliation
// is attempted and raw station labels must already satisfy the station
// name shape.
func Normalize(table Table, mapping *stationmap.Mapping) ([]detection.Detection, error) {
	layout, ok := Recognise(table.Header)
	if !ok {
		return nil, apperrors.UnknownFormat(table.Header)
	}

	extract := extractors[layout]
	detections := make([]detection.Detection, 0, len(table.Rows))
	var offendingStations []string

	for _, row := range table.Rows {
		fields := extract(row)

		ts, ok := parseTimestamp(fields.timestampRaw, fields.formats)
		if !ok {
			return nil, apperrors.BadDateTime(fields.timestampRaw)
		}

		station := fields.station
		if mapping != nil {
			station = mapping.Reconcile(station, fields.receiver)
		}
		station = strings.TrimSpace(station)

		if !detection.ValidStationName(station) {
			offendingStations = append(offendingStations, station)
			continue
		}

		detections = append(detections, detection.Detection{
			Timestamp:     ts,
			TransmitterID: strings.TrimSpace(fields.transmitter),
			StationName:   station,
			ReceiverID:    strings.TrimSpace(fields.receiver),
		})
	}

	if len(offendingStations) > 0 {
		return nil, apperrors.BadStationName(detection.InvalidStationNames(offendingStations))
	}

	return detections, nil
}
