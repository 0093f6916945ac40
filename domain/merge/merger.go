// Package merge fuses a freshly aggregated batch of intervals into the
// previously persisted intervals for one transmitter, producing a write
// plan of inserts and deletes that is safe to apply as an unordered
// batch.
package merge

import (
	"time"

	"fishtrack/domain/interval"
)

// Existing is a previously persisted interval, carrying the original
// sort-key string it was stored under so an absorbed row can be named in
// the delete set by that exact key.
type Existing struct {
	interval.Interval
	Key string
}

// Result is the merger's write plan.
type Result struct {
	NewElements []interval.Interval
	ToDelete    []string
}

// Merge runs the linear two-pointer scan documented for the Sorted-
// Interval Merger. fresh and existing must both be sorted by Start
// ascending. bridge is the temporal slack used by the mergeability
// predicate.
//
// current carries an origin tag (fresh or existing) that flips to fresh
// the moment it absorbs anything via a merge; this flip is the
// documented quirk that makes the scan non-transitive across more than
// two candidate intervals, and is preserved deliberately rather than
// "fixed".
func Merge(fresh []interval.Interval, existing []Existing, bridge time.Duration) Result {
	if len(fresh) == 0 {
		return Result{}
	}
	if len(existing) == 0 {
		out := make([]interval.Interval, len(fresh))
		copy(out, fresh)
		return Result{NewElements: out}
	}

	type slot struct {
		iv      interval.Interval
		isFresh bool
		key     string // meaningful only while isFresh is false
	}

	asFresh := func(iv interval.Interval) slot { return slot{iv: iv, isFresh: true} }
	asExisting := func(e Existing) slot { return slot{iv: e.Interval, isFresh: false, key: e.Key} }

	i, j := 0, 0
	var current slot
	if !fresh[0].Start.After(existing[0].Start) {
		current = asFresh(fresh[0])
		i = 1
	} else {
		current = asExisting(existing[0])
		j = 1
	}

	maxTS := fresh[len(fresh)-1].Stop.Add(bridge)

	var newElements []interval.Interval
	seenDelete := make(map[string]bool)
	var toDelete []string

	recordDelete := func(key string) {
		if key == "" || seenDelete[key] {
			return
		}
		seenDelete[key] = true
		toDelete = append(toDelete, key)
	}

	for {
		if !current.iv.Start.Before(maxTS) {
			if current.isFresh {
				newElements = append(newElements, current.iv)
			}
			break
		}

		var next slot
		haveNext := true
		switch {
		case i < len(fresh) && j < len(existing):
			if !fresh[i].Start.After(existing[j].Start) {
				next = asFresh(fresh[i])
				i++
			} else {
				next = asExisting(existing[j])
				j++
			}
		case i < len(fresh):
			next = asFresh(fresh[i])
			i++
		case j < len(existing):
			next = asExisting(existing[j])
			j++
		default:
			haveNext = false
		}

		if !haveNext {
			if current.isFresh {
				newElements = append(newElements, current.iv)
			}
			break
		}

		if mergeable(current.iv, next.iv, bridge) {
			// next's row is the one discarded when both are existing: the
			// merged interval keeps current's row (start=min, stored under
			// current's key) and discards next's, so next's key — not
			// current's — is the one that must be deleted.
			var absorbedKey string
			if !next.isFresh {
				absorbedKey = next.key
			} else if !current.isFresh {
				absorbedKey = current.key
			}
			next.iv = mergeBounds(current.iv, next.iv)
			next.isFresh = true
			recordDelete(absorbedKey)
		} else if current.isFresh {
			newElements = append(newElements, current.iv)
		}

		current = next
	}

	return Result{NewElements: newElements, ToDelete: toDelete}
}

// mergeable implements the predicate from the merger's design: same
// station, and each interval's bridged span reaches into the other's.
func mergeable(a, b interval.Interval, bridge time.Duration) bool {
	if a.StationName != b.StationName {
		return false
	}
	if a.Start.Add(-bridge).After(b.Stop) {
		return false
	}
	if a.Stop.Add(bridge).Before(b.Start) {
		return false
	}
	return true
}

func mergeBounds(a, b interval.Interval) interval.Interval {
	start := a.Start
	if b.Start.Before(start) {
		start = b.Start
	}
	stop := a.Stop
	if b.Stop.After(stop) {
		stop = b.Stop
	}
	return interval.Interval{
		TransmitterID: a.TransmitterID,
		StationName:   a.StationName,
		Start:         start,
		Stop:          stop,
	}
}
