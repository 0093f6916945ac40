// Package interval holds the Interval type the Aggregator emits and the
// Merger/Store operate on, plus the fixed-width textual encoding the
// persisted store relies on for lexicographic ordering.
package interval

import (
	"fmt"
	"time"
)

// Interval is a maximal contiguous presence of one transmitter at one
// station, bounded by a time gap or a station change.
type Interval struct {
	TransmitterID string
	StationName   string
	Start         time.Time
	Stop          time.Time
}

// keyWidth is the fixed digit width used to zero-pad whole-second epoch
// values so lexicographic string order equals numeric order. The source
// system omitted this and relied on current-era timestamps having uniform
// width; ten digits covers Unix seconds until the year 2286.
const keyWidth = 10

// EncodeKey zero-pads t's Unix-second value to keyWidth digits, producing
// the range-key string used for both the start and stop attributes.
func EncodeKey(t time.Time) string {
	return fmt.Sprintf("%0*d", keyWidth, t.Unix())
}

// DecodeKey parses a zero-padded decimal-seconds range-key string back
// into a UTC time.
func DecodeKey(key string) (time.Time, error) {
	var seconds int64
	if _, err := fmt.Sscanf(key, "%d", &seconds); err != nil {
		return time.Time{}, fmt.Errorf("decode interval key %q: %w", key, err)
	}
	return time.Unix(seconds, 0).UTC(), nil
}

// PersistedInterval is an Interval serialised the way the store keys and
// stores it: start/stop as zero-padded decimal-second strings.
type PersistedInterval struct {
	TransmitterID string
	StationName   string
	StartKey      string
	StopKey       string
}

// ToPersisted encodes iv for storage.
func ToPersisted(iv Interval) PersistedInterval {
	return PersistedInterval{
		TransmitterID: iv.TransmitterID,
		StationName:   iv.StationName,
		StartKey:      EncodeKey(iv.Start),
		StopKey:       EncodeKey(iv.Stop),
	}
}

// FromPersisted decodes a stored row back into an Interval.
func FromPersisted(p PersistedInterval) (Interval, error) {
	start, err := DecodeKey(p.StartKey)
	if err != nil {
		return Interval{}, err
	}
	stop, err := DecodeKey(p.StopKey)
	if err != nil {
		return Interval{}, err
	}
	return Interval{
		TransmitterID: p.TransmitterID,
		StationName:   p.StationName,
		Start:         start,
		Stop:          stop,
	}, nil
}
