// README: Profile service: validated writes plus versioned pool snapshot subscriptions.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

type Service struct {
	store  *Store
	logger *slog.Logger
}

func NewService(store *Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Upsert validates and persists a profile, then notifies open match
// feeds that the pool changed.
func (s *Service) Upsert(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return err
	}
	if err := s.store.NotifyChanged(ctx, p.ID); err != nil {
		// The write succeeded; a lost notification only delays the
		// next recomputation until the following change.
		s.logger.Warn("profile change notification failed", "id", p.ID, "error", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

// Pool returns the current candidate pool for a weekday.
func (s *Service) Pool(ctx context.Context, day schedule.Day) ([]Profile, error) {
	return s.store.ListEnabled(ctx, day)
}

// Subscribe yields full pool snapshots for a weekday: one immediately,
// then one per profile change. Snapshots carry a strictly increasing
// sequence number. Failure to load the initial snapshot is fatal;
// refresh failures are logged and the previous snapshot stands.
func (s *Service) Subscribe(ctx context.Context, day schedule.Day) (<-chan Snapshot, error) {
	pool, err := s.store.ListEnabled(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("initial pool snapshot: %w", err)
	}

	out := make(chan Snapshot, 1)
	out <- Snapshot{Seq: 1, Day: day, Profiles: pool}

	changes := s.store.Changes(ctx)
	go func() {
		defer close(out)
		seq := uint64(1)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				pool, err := s.store.ListEnabled(ctx, day)
				if err != nil {
					s.logger.Warn("pool snapshot refresh failed", "day", day.String(), "error", err)
					continue
				}
				seq++
				snap := Snapshot{Seq: seq, Day: day, Profiles: pool}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
