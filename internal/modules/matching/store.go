// README: Match result store backed by Redis; keeps only the latest set per query.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

// resultKeyPrefix keys the latest match set per (user, day, section).
const resultKeyPrefix = "matching:results:%s:%s:%s"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// SetLatest overwrites the stored match set for the query the set
// answers. The feed's sequence gate guarantees callers never hand this
// an out-of-date set.
func (s *Store) SetLatest(ctx context.Context, set *MatchSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal match set: %w", err)
	}
	return s.redis.Set(ctx, resultKey(set.SelfID, set.Day, set.TimeOfDay), payload, s.ttl).Err()
}

// GetLatest returns the stored match set for a query, and whether one
// exists.
func (s *Store) GetLatest(ctx context.Context, userID types.ID, day schedule.Day, tod schedule.TimeOfDay) (*MatchSet, bool, error) {
	val, err := s.redis.Get(ctx, resultKey(userID, day, tod)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var set MatchSet
	if err := json.Unmarshal(val, &set); err != nil {
		return nil, false, fmt.Errorf("unmarshal match set: %w", err)
	}
	return &set, true, nil
}

func resultKey(userID types.ID, day schedule.Day, tod schedule.TimeOfDay) string {
	return fmt.Sprintf(resultKeyPrefix, string(userID), day.String(), string(tod))
}
