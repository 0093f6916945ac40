package stationmap

import "testing"

func TestReconcile_ByOldName(t *testing.T) {
	m := New([]Row{{OldName: "old-1", NewName: "new-1", ReceiverID: "rcv-1"}})
	if got := m.Reconcile("old-1", "rcv-1"); got != "new-1" {
		t.Errorf("Reconcile() = %q, want new-1", got)
	}
}

func TestReconcile_ByReceiverIDWhenOldNameUnmapped(t *testing.T) {
	m := New([]Row{{ReceiverID: "rcv-2", NewName: "new-2"}})
	if got := m.Reconcile("some-other-name", "rcv-2"); got != "new-2" {
		t.Errorf("Reconcile() = %q, want new-2", got)
	}
}

// OldName is back-filled from ReceiverID when the source row has no
// old_name value, so a lookup by the bare receiver ID as if it were a
// station name also resolves.
func TestReconcile_OldNameBackfilledFromReceiverID(t *testing.T) {
	m := New([]Row{{ReceiverID: "rcv-3", NewName: "new-3"}})
	if got := m.Reconcile("rcv-3", ""); got != "new-3" {
		t.Errorf("Reconcile() = %q, want new-3 (old_name backfilled to receiver id)", got)
	}
}

func TestReconcile_EmptyStationNameUsesReceiverIDPlaceholder(t *testing.T) {
	m := New([]Row{{ReceiverID: "rcv-4", NewName: "new-4"}})
	if got := m.Reconcile("", "rcv-4"); got != "new-4" {
		t.Errorf("Reconcile() = %q, want new-4", got)
	}
}

func TestReconcile_NoMatchReturnsWorkingValue(t *testing.T) {
	m := New([]Row{{OldName: "old-1", NewName: "new-1", ReceiverID: "rcv-1"}})
	if got := m.Reconcile("unmapped-name", "unmapped-rcv"); got != "unmapped-name" {
		t.Errorf("Reconcile() = %q, want unmapped-name unchanged", got)
	}
}

// The receiver_id pass runs after the old_name pass and can override its
// result when both match (documented two-pass sequencing, not first-match-wins).
func TestReconcile_ReceiverIDPassRunsAfterOldNamePass(t *testing.T) {
	m := New([]Row{
		{OldName: "old-5", NewName: "from-old-name", ReceiverID: "rcv-x"},
		{ReceiverID: "rcv-5", NewName: "from-receiver-id"},
	})
	if got := m.Reconcile("old-5", "rcv-5"); got != "from-receiver-id" {
		t.Errorf("Reconcile() = %q, want from-receiver-id (receiver_id pass applied last)", got)
	}
}

func TestReconcile_WhitespaceTrimmedBothSides(t *testing.T) {
	m := New([]Row{{OldName: " old-1 ", NewName: "new-1", ReceiverID: " rcv-1 "}})
	if got := m.Reconcile("  old-1  ", "rcv-1"); got != "new-1" {
		t.Errorf("Reconcile() = %q, want new-1", got)
	}
	if got := m.Reconcile("old-1", "  rcv-1  "); got != "new-1" {
		t.Errorf("Reconcile() = %q, want new-1", got)
	}
}
