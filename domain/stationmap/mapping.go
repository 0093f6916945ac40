// Package stationmap reconciles raw station labels against an external
// translation table loaded once per run and treated as immutable for the
// duration of that run.
package stationmap

import "strings"

// Row is one entry of the external mapping table: old_name or
// receiver_id both resolve to new_name. OldName is nullable in the
// source file; New back-fills an empty OldName from ReceiverID.
type Row struct {
	OldName    string
	NewName    string
	ReceiverID string
}

// Mapping is the loaded, immutable translation table, indexed for the
// two-pass lookup Reconcile performs (first by old_name, then by
// receiver_id).
type Mapping struct {
	byOldName    map[string]string
	byReceiverID map[string]string
}

// New builds a Mapping from rows, back-filling any empty OldName from
// ReceiverID the way the loader is documented to.
func New(rows []Row) *Mapping {
	m := &Mapping{
		byOldName:    make(map[string]string, len(rows)),
		byReceiverID: make(map[string]string, len(rows)),
	}
	for _, r := range rows {
		oldName := strings.TrimSpace(r.OldName)
		receiverID := strings.TrimSpace(r.ReceiverID)
		newName := strings.TrimSpace(r.NewName)
		if oldName == "" {
			oldName = receiverID
		}
		if oldName != "" {
			m.byOldName[oldName] = newName
		}
		if receiverID != "" {
			m.byReceiverID[receiverID] = newName
		}
	}
	return m
}

// Reconcile resolves a row's station name. If stationName is empty, the
// receiverID is substituted as a placeholder key first. The mapping is
// then applied twice in sequence: first matching by old_name, then by
// receiver_id, each match replacing the working value with new_name.
// Both sides of every match are whitespace-trimmed.
func (m *Mapping) Reconcile(stationName, receiverID string) string {
	working := strings.TrimSpace(stationName)
	if working == "" {
		working = strings.TrimSpace(receiverID)
	}

	if newName, ok := m.byOldName[working]; ok {
		working = newName
	}
	if newName, ok := m.byReceiverID[strings.TrimSpace(receiverID)]; ok {
		working = newName
	}

	return working
}
