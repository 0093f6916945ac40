package aggregate

import (
	"testing"
	"time"

	"fishtrack/domain/detection"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts.UTC()
}

// S1 — time-only aggregation, gap=30.
func TestAggregate_TimeOnly(t *testing.T) {
	day := "2015-01-01"
	detections := []detection.Detection{
		{Timestamp: mustParse(t, day+" 10:30:10"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 10:50:00"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 11:30:00"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 10:40:00"), TransmitterID: "id1", StationName: "vr1"},
	}

	intervals := Aggregate(detections, 30)
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2: %+v", len(intervals), intervals)
	}

	if got, want := intervals[0].Start.Unix(), int64(1420108210); got != want {
		t.Errorf("interval 0 start = %d, want %d", got, want)
	}
	if got, want := intervals[0].Stop.Unix(), int64(1420109400); got != want {
		t.Errorf("interval 0 stop = %d, want %d", got, want)
	}
	if got, want := intervals[1].Start.Unix(), int64(1420111800); got != want {
		t.Errorf("interval 1 start = %d, want %d", got, want)
	}
	if got, want := intervals[1].Stop.Unix(), int64(1420111800); got != want {
		t.Errorf("interval 1 stop = %d, want %d", got, want)
	}

	withGap10 := Aggregate(detections, 10)
	if len(withGap10) != 3 {
		t.Fatalf("with gap=10, got %d intervals, want 3: %+v", len(withGap10), withGap10)
	}
}

// S2 — station split.
func TestAggregate_StationSplit(t *testing.T) {
	day := "2015-01-01"
	detections := []detection.Detection{
		{Timestamp: mustParse(t, day+" 10:30:10"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 10:50:00"), TransmitterID: "id2", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 10:51:00"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 11:30:00"), TransmitterID: "id1", StationName: "vr1"},
		{Timestamp: mustParse(t, day+" 10:40:00"), TransmitterID: "id1", StationName: "vr2"},
	}

	intervals := Aggregate(detections, 30)
	if len(intervals) != 5 {
		t.Fatalf("got %d intervals, want 5: %+v", len(intervals), intervals)
	}

	wantStarts := []int64{1420108210, 1420108800, 1420109400, 1420109460, 1420111800}
	for i, want := range wantStarts {
		if got := intervals[i].Start.Unix(); got != want {
			t.Errorf("interval %d start = %d, want %d", i, got, want)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil, 30); got != nil {
		t.Errorf("Aggregate(nil) = %+v, want nil", got)
	}
}

func TestAggregate_SingleDetectionGroup(t *testing.T) {
	ts := mustParse(t, "2014-12-31 10:00:00")
	intervals := Aggregate([]detection.Detection{
		{Timestamp: ts, TransmitterID: "id1", StationName: "vr1"},
	}, 30)
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1", len(intervals))
	}
	if !intervals[0].Start.Equal(intervals[0].Stop) {
		t.Errorf("single-detection interval should have start == stop, got %v/%v", intervals[0].Start, intervals[0].Stop)
	}
}

// Property: every output interval has start <= stop, and coverage: every
// input detection's timestamp lies within its interval's bounds.
func TestAggregate_MonotonicityAndCoverage(t *testing.T) {
	day := "2015-01-01"
	detections := []detection.Detection{
		{Timestamp: mustParse(t, day+" 08:00:00"), TransmitterID: "t1", StationName: "a-1"},
		{Timestamp: mustParse(t, day+" 08:05:00"), TransmitterID: "t1", StationName: "a-1"},
		{Timestamp: mustParse(t, day+" 09:00:00"), TransmitterID: "t1", StationName: "a-1"},
		{Timestamp: mustParse(t, day+" 09:01:00"), TransmitterID: "t1", StationName: "b-2"},
	}

	intervals := Aggregate(detections, 30)
	for _, iv := range intervals {
		if iv.Start.After(iv.Stop) {
			t.Errorf("interval %+v has start after stop", iv)
		}
	}

	for _, d := range detections {
		found := false
		for _, iv := range intervals {
			if iv.TransmitterID == d.TransmitterID && !d.Timestamp.Before(iv.Start) && !d.Timestamp.After(iv.Stop) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("detection %+v not covered by any interval", d)
		}
	}
}
