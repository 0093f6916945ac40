// Package pipeline implements the Incremental Store Coordinator: for
// each transmitter present in a freshly aggregated batch, load existing
// rows, call the Sorted-Interval Merger, then apply deletes before
// inserts.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fishtrack/domain/aggregate"
	"fishtrack/domain/detection"
	"fishtrack/domain/interval"
	"fishtrack/domain/merge"
	apperrors "fishtrack/internal/errors"
	"fishtrack/internal/logging"
	"fishtrack/ports"
)

// Result is the coordinator's per-run feedback: every fresh interval it
// computed, plus any per-transmitter persistence failures. A failure for
// one transmitter does not prevent others in the same batch from being
// persisted.
type Result struct {
	Intervals []interval.Interval
	Failures  []error
}

// Coordinator wraps a Store and applies the merger's write plan to it,
// bounding how many transmitters are processed concurrently while
// keeping the delete-then-insert ordering sequential within each one.
type Coordinator struct {
	store       ports.Store
	gapMinutes  int
	concurrency int
	logger      *logging.Logger
}

// New returns a Coordinator. concurrency defaults to 4 when <= 0.
func New(store ports.Store, gapMinutes int, concurrency int, logger *logging.Logger) *Coordinator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Coordinator{store: store, gapMinutes: gapMinutes, concurrency: concurrency, logger: logger}
}

// Run aggregates detections and merges each transmitter's fresh
// intervals into the store.
func (c *Coordinator) Run(ctx context.Context, detections []detection.Detection) (Result, error) {
	fresh := aggregate.Aggregate(detections, c.gapMinutes)
	if len(fresh) == 0 {
		return Result{}, nil
	}

	byTransmitter := make(map[string][]interval.Interval)
	var transmitters []string
	for _, iv := range fresh {
		if _, ok := byTransmitter[iv.TransmitterID]; !ok {
			transmitters = append(transmitters, iv.TransmitterID)
		}
		byTransmitter[iv.TransmitterID] = append(byTransmitter[iv.TransmitterID], iv)
	}
	sort.Strings(transmitters)

	bridge := time.Duration(c.gapMinutes) * time.Minute

	var mu sync.Mutex
	var failures []error

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)

	for _, transmitterID := range transmitters {
		transmitterID := transmitterID
		group.Go(func() error {
			if err := c.mergeTransmitter(gctx, transmitterID, byTransmitter[transmitterID], bridge); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				c.logger.Error("[Coordinator] %v", err)
			}
			// Never propagate to the group: a failure is scoped to its
			// transmitter and must not cancel the others' goroutines.
			return nil
		})
	}
	_ = group.Wait()

	return Result{Intervals: fresh, Failures: failures}, nil
}

func (c *Coordinator) mergeTransmitter(ctx context.Context, transmitterID string, freshForTransmitter []interval.Interval, bridge time.Duration) error {
	existingRows, err := c.store.Query(ctx, transmitterID)
	if err != nil {
		return apperrors.PersistenceFailed(transmitterID, err)
	}

	existing := make([]merge.Existing, 0, len(existingRows))
	for _, row := range existingRows {
		iv, err := interval.FromPersisted(row)
		if err != nil {
			return apperrors.PersistenceFailed(transmitterID, err)
		}
		existing = append(existing, merge.Existing{Interval: iv, Key: row.StartKey})
	}

	sort.SliceStable(freshForTransmitter, func(i, j int) bool {
		return freshForTransmitter[i].Start.Before(freshForTransmitter[j].Start)
	})

	plan := merge.Merge(freshForTransmitter, existing, bridge)

	if len(plan.ToDelete) > 0 {
		if err := c.store.DeleteBatch(ctx, transmitterID, plan.ToDelete); err != nil {
			return apperrors.PersistenceFailed(transmitterID, err)
		}
	}
	if len(plan.NewElements) > 0 {
		persisted := make([]interval.PersistedInterval, 0, len(plan.NewElements))
		for _, iv := range plan.NewElements {
			persisted = append(persisted, interval.ToPersisted(iv))
		}
		if err := c.store.PutBatch(ctx, persisted); err != nil {
			return apperrors.PersistenceFailed(transmitterID, err)
		}
	}

	return nil
}
