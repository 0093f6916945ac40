// Package validate implements the line-oriented consolidator's ancillary
// identifier validator: a lighter-weight shape check historically applied
// by a delimiter-split line parser. It is a standalone package; neither
// the tabular Normaliser nor the CLI calls it.
package validate

import (
	"regexp"
	"strings"
)

var (
	transmitterPattern = regexp.MustCompile(`[a-zA-Z][0-9]+-[0-9]+-[0-9]+`)
	receiverPattern    = regexp.MustCompile(`VR2.*-[0-9]+`)
	datetimePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

// TransmitterID reports whether field contains the legacy transmitter
// shape (letter, digits, dash, digits, dash, digits).
func TransmitterID(field string) bool {
	return transmitterPattern.MatchString(field)
}

// ReceiverID reports whether field contains the legacy receiver shape
// ("VR2" followed by anything, a dash, then digits).
func ReceiverID(field string) bool {
	return receiverPattern.MatchString(field)
}

// DateTime reports whether field is strictly "YYYY-MM-DD HH:MM:SS".
func DateTime(field string) bool {
	return datetimePattern.MatchString(field)
}

// Line is one validated record from the line-oriented consolidator.
type Line struct {
	DateTime      string
	ReceiverID    string
	ReceiverCode  string
	TransmitterID string
}

// LineParser splits delimiter-separated lines at fixed field positions
// and validates each field before returning a Line. It mirrors the
// original consolidator's column-index convention.
type LineParser struct {
	Delimiter         string
	DateTimeIndex     int
	ReceiverIDIndex   int
	TransmitterIndex  int
	ReceiverCodeIndex int
}

// NewLineParser returns a LineParser using the consolidator's default
// column layout: datetime, receiver id, transmitter id, receiver code.
func NewLineParser() LineParser {
	return LineParser{
		Delimiter:         ",",
		DateTimeIndex:     0,
		ReceiverIDIndex:   1,
		TransmitterIndex:  2,
		ReceiverCodeIndex: 3,
	}
}

// ParseLine splits and validates one line, returning ok=false if any
// field fails its shape check or the line has too few fields.
func (p LineParser) ParseLine(line string) (Line, bool) {
	fields := strings.Split(strings.TrimSpace(line), p.Delimiter)
	maxIndex := p.DateTimeIndex
	for _, idx := range []int{p.ReceiverIDIndex, p.TransmitterIndex, p.ReceiverCodeIndex} {
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	if len(fields) <= maxIndex {
		return Line{}, false
	}

	datetime := fields[p.DateTimeIndex]
	receiverID := fields[p.ReceiverIDIndex]
	receiverCode := fields[p.ReceiverCodeIndex]
	transmitterID := fields[p.TransmitterIndex]

	if !DateTime(datetime) || !TransmitterID(transmitterID) || !ReceiverID(receiverID) {
		return Line{}, false
	}

	return Line{
		DateTime:      datetime,
		ReceiverID:    receiverID,
		ReceiverCode:  receiverCode,
		TransmitterID: transmitterID,
	}, true
}
