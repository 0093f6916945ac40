package interval

import (
	"testing"
	"time"
)

func TestEncodeKey_FixedWidth(t *testing.T) {
	ts := time.Unix(42, 0).UTC()
	got := EncodeKey(ts)
	if len(got) != keyWidth {
		t.Fatalf("EncodeKey() = %q, want %d digits", got, keyWidth)
	}
	if got != "0000000042" {
		t.Errorf("EncodeKey() = %q, want 0000000042", got)
	}
}

func TestEncodeKey_LexicographicOrderMatchesNumericOrder(t *testing.T) {
	earlier := EncodeKey(time.Unix(9, 0).UTC())
	later := EncodeKey(time.Unix(100, 0).UTC())
	if !(earlier < later) {
		t.Errorf("EncodeKey(9)=%q should sort before EncodeKey(100)=%q", earlier, later)
	}
}

func TestDecodeKey_RoundTrip(t *testing.T) {
	original := time.Unix(1420108210, 0).UTC()
	key := EncodeKey(original)
	decoded, err := DecodeKey(key)
	if err != nil {
		t.Fatalf("DecodeKey() error = %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("DecodeKey() = %v, want %v", decoded, original)
	}
}

func TestDecodeKey_Invalid(t *testing.T) {
	if _, err := DecodeKey("not-a-number"); err == nil {
		t.Error("DecodeKey(invalid) returned nil error")
	}
}

func TestToFromPersisted_RoundTrip(t *testing.T) {
	iv := Interval{
		TransmitterID: "t1",
		StationName:   "st-1",
		Start:         time.Unix(100, 0).UTC(),
		Stop:          time.Unix(200, 0).UTC(),
	}
	persisted := ToPersisted(iv)
	back, err := FromPersisted(persisted)
	if err != nil {
		t.Fatalf("FromPersisted() error = %v", err)
	}
	if back != iv {
		t.Errorf("round trip = %+v, want %+v", back, iv)
	}
}
