// Package detection holds the canonical Detection record the Normaliser
// produces and the Aggregator consumes.
package detection

import (
	"regexp"
	"time"
)

// stationNamePattern is the shape every canonical station name must match
// after reconciliation, regardless of which layout produced it.
var stationNamePattern = regexp.MustCompile(`^[A-Za-z]+-[0-9A-Za-z]+$`)

// Detection is a single receiver hearing of a transmitter at an instant.
type Detection struct {
	Timestamp     time.Time
	TransmitterID string
	StationName   string
	ReceiverID    string
}

// ValidStationName reports whether name matches the canonical station
// shape required of every Detection after reconciliation.
func ValidStationName(name string) bool {
	return stationNamePattern.MatchString(name)
}

// InvalidStationNames returns the unique, order-preserving set of names in
// names that fail ValidStationName.
func InvalidStationNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var offenders []string
	for _, n := range names {
		if ValidStationName(n) {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		offenders = append(offenders, n)
	}
	return offenders
}
