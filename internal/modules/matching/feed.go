// README: Reactive match feed: recompute per pool snapshot, publish latest wins.
package matching

import (
	"context"
	"log/slog"
	"sync"

	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
)

// PoolSource yields versioned pool snapshots for a weekday. Implemented
// by profile.Service.
type PoolSource interface {
	Subscribe(ctx context.Context, day schedule.Day) (<-chan profile.Snapshot, error)
}

// Publisher receives the winning match set of each computation.
// Implemented by Store; tests substitute recorders.
type Publisher interface {
	SetLatest(ctx context.Context, set *MatchSet) error
}

// Feed drives one user's matching computation reactively: every pool
// snapshot triggers a fresh run, and only the most recently triggered
// run may publish. Snapshots arriving while a run is in flight cancel
// it; a stale run that still completes is dropped at the sequence gate.
type Feed struct {
	engine *Engine
	source PoolSource
	store  Publisher
	logger *slog.Logger

	mu            sync.Mutex
	lastPublished uint64
}

func NewFeed(engine *Engine, source PoolSource, store Publisher, logger *slog.Logger) *Feed {
	return &Feed{engine: engine, source: source, store: store, logger: logger}
}

// Run computes matches for self until ctx is done. The returned channel
// carries each published MatchSet; it is closed when the feed stops.
// Run fails only if no pool snapshot can be obtained at all.
func (f *Feed) Run(ctx context.Context, self profile.Profile, day schedule.Day, tod schedule.TimeOfDay, maxDetourMinutes int) (<-chan *MatchSet, error) {
	snapshots, err := f.source.Subscribe(ctx, day)
	if err != nil {
		return nil, err
	}

	out := make(chan *MatchSet, 1)
	go func() {
		var wg sync.WaitGroup
		var cancelPrev context.CancelFunc
		defer func() {
			if cancelPrev != nil {
				cancelPrev()
			}
			wg.Wait()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				// Abandon the superseded run's route lookups early;
				// the sequence gate below would discard its output
				// anyway.
				if cancelPrev != nil {
					cancelPrev()
				}
				runCtx, cancel := context.WithCancel(ctx)
				cancelPrev = cancel
				wg.Add(1)
				go func() {
					defer wg.Done()
					f.compute(runCtx, self, snap, tod, maxDetourMinutes, out)
				}()
			}
		}
	}()
	return out, nil
}

func (f *Feed) compute(ctx context.Context, self profile.Profile, snap profile.Snapshot, tod schedule.TimeOfDay, maxDetourMinutes int, out chan *MatchSet) {
	set, err := f.engine.ComputeMatches(ctx, self, snap.Profiles, snap.Day, tod, maxDetourMinutes)
	if err != nil {
		// Cancelled runs land here; anything else is logged and the
		// previous published result stands.
		f.logger.Debug("matching run abandoned", "self", self.ID, "seq", snap.Seq, "error", err)
		return
	}
	set.Seq = snap.Seq

	// The gate is held through publication so a newer result can never
	// be overwritten by a slower, older one.
	f.mu.Lock()
	defer f.mu.Unlock()
	if snap.Seq <= f.lastPublished {
		f.logger.Debug("stale matching result dropped", "self", self.ID, "seq", snap.Seq, "published", f.lastPublished)
		return
	}
	f.lastPublished = snap.Seq

	if f.store != nil {
		if err := f.store.SetLatest(ctx, set); err != nil {
			f.logger.Warn("match set publication failed", "self", self.ID, "seq", snap.Seq, "error", err)
		}
	}
	// Replace any undelivered set rather than block: consumers only
	// care about the latest.
	for {
		select {
		case out <- set:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
