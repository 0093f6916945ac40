// Package aggregate collapses a time-ordered detection stream into
// maximal per-(transmitter, station) presence intervals.
package aggregate

import (
	"sort"
	"time"

	"fishtrack/domain/detection"
	"fishtrack/domain/interval"
)

// DefaultGapMinutes is the threshold used when the caller does not
// override it.
const DefaultGapMinutes = 30

// groupKey is the composite grouping key: the cross product of the two
// monotone run-break counters plus (transmitter, station).
type groupKey struct {
	gapRun     int
	stationRun int
	transmitter string
	station     string
}

// Aggregate sorts detections by (transmitter_id, timestamp) and walks the
// sorted sequence once, closing a group whenever the time gap from the
// previous row (across all rows, not reset per transmitter) reaches
// gapMinutes, or the station changes from the previous row. The result is
// sorted by Start for deterministic, reproducible output.
func Aggregate(detections []detection.Detection, gapMinutes int) []interval.Interval {
	if len(detections) == 0 {
		return nil
	}
	if gapMinutes <= 0 {
		gapMinutes = DefaultGapMinutes
	}

	sorted := make([]detection.Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TransmitterID != sorted[j].TransmitterID {
			return sorted[i].TransmitterID < sorted[j].TransmitterID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	gapThreshold := time.Duration(gapMinutes) * time.Minute

	gapRun, stationRun := 0, 0
	groups := make(map[groupKey]*interval.Interval)
	var order []groupKey

	for i, d := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			if d.Timestamp.Sub(prev.Timestamp) >= gapThreshold {
				gapRun++
			}
			if d.StationName != prev.StationName {
				stationRun++
			}
		}

		key := groupKey{gapRun, stationRun, d.TransmitterID, d.StationName}
		iv, ok := groups[key]
		if !ok {
			iv = &interval.Interval{
				TransmitterID: d.TransmitterID,
				StationName:   d.StationName,
				Start:         d.Timestamp,
				Stop:          d.Timestamp,
			}
			groups[key] = iv
			order = append(order, key)
			continue
		}
		if d.Timestamp.After(iv.Stop) {
			iv.Stop = d.Timestamp
		}
		if d.Timestamp.Before(iv.Start) {
			iv.Start = d.Timestamp
		}
	}

	result := make([]interval.Interval, 0, len(order))
	for _, key := range order {
		result = append(result, *groups[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	return result
}
