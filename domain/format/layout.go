// Package format dispatches a tabular input to one of four recognised
// receiver-export layouts by its column-name signature and normalises
// each to the canonical detection stream.
package format

// Layout names the four tabular export shapes the Recogniser accepts.
type Layout string

const (
	LayoutVlizV1 Layout = "vliz_v1"
	LayoutVlizV2 Layout = "vliz_v2"
	LayoutINBO   Layout = "inbo"
	LayoutVUE    Layout = "vue"
)

// signatures lists the distinguishing columns for each layout. A row's
// header set must contain every column listed here for that layout to
// match; column order is irrelevant.
var signatures = map[Layout][]string{
	LayoutVlizV1: {"Date(UTC)", "Time(UTC)", "Receiver", "Transmitter", "StationName"},
	LayoutVlizV2: {"Date and Time (UTC)", "Receiver", "Transmitter", "Station Name"},
	LayoutINBO:   {"Date/Time", "Code Space", "ID", "Receiver Name", "Receiver S/N", "Station Name"},
	LayoutVUE:    {"date_time_utc", "receiver_id", "transmitter_id", "old_station_name", "station_name"},
}

// Recognise matches a header's column set against the known layout
// signatures and returns the first match. Order of evaluation is fixed
// (vliz_v1, vliz_v2, inbo, vue) so that the more specific vliz_v1
// signature is tried before the shorter vliz_v2 one. It returns ok=false
// if no layout's signature is a subset of header.
func Recognise(header []string) (Layout, bool) {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	for _, layout := range []Layout{LayoutVlizV1, LayoutVlizV2, LayoutINBO, LayoutVUE} {
		if allPresent(present, signatures[layout]) {
			return layout, true
		}
	}
	return "", false
}

func allPresent(present map[string]bool, columns []string) bool {
	for _, col := range columns {
		if !present[col] {
			return false
		}
	}
	return true
}
