// README: Profile store backed by PostgreSQL, with a Redis change feed.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

const changeChannel = "profiles:changed"

var ErrNotFound = errors.New("profile not found")

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

func (s *Store) Upsert(ctx context.Context, p *Profile) error {
	sched, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO profiles (
            id, name, home_address, work_address,
            home_lat, home_lng, work_lat, work_lng,
            schedule, has_license, has_car, max_detour_minutes
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6, $7, $8,
            $9, $10, $11, $12
        )
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            home_address = EXCLUDED.home_address,
            work_address = EXCLUDED.work_address,
            home_lat = EXCLUDED.home_lat,
            home_lng = EXCLUDED.home_lng,
            work_lat = EXCLUDED.work_lat,
            work_lng = EXCLUDED.work_lng,
            schedule = EXCLUDED.schedule,
            has_license = EXCLUDED.has_license,
            has_car = EXCLUDED.has_car,
            max_detour_minutes = EXCLUDED.max_detour_minutes`,
		string(p.ID),
		p.Name,
		p.HomeAddress,
		p.WorkAddress,
		p.Home.Lat, p.Home.Lng,
		p.Work.Lat, p.Work.Lng,
		sched,
		p.HasLicense,
		p.HasCar,
		toIntPtr(p.MaxDetourMinutes),
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, home_address, work_address,
               home_lat, home_lng, work_lat, work_lng,
               schedule, has_license, has_car, max_detour_minutes
        FROM profiles
        WHERE id = $1`, string(id),
	)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListEnabled returns the candidate pool for a weekday: every profile
// whose schedule entry for that day is enabled. This mirrors the
// per-day subscription query the surrounding application runs.
func (s *Store) ListEnabled(ctx context.Context, day schedule.Day) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name, home_address, work_address,
               home_lat, home_lng, work_lat, work_lng,
               schedule, has_license, has_car, max_detour_minutes
        FROM profiles
        WHERE schedule -> $1 ->> 'enabled' = 'true'
        ORDER BY id`, day.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		pool = append(pool, *p)
	}
	return pool, rows.Err()
}

// NotifyChanged publishes a change notification so that open match
// feeds recompute against a fresh pool snapshot.
func (s *Store) NotifyChanged(ctx context.Context, id types.ID) error {
	return s.redis.Publish(ctx, changeChannel, string(id)).Err()
}

// Changes subscribes to the profile change channel. The returned
// channel closes when ctx is done.
func (s *Store) Changes(ctx context.Context) <-chan string {
	sub := s.redis.Subscribe(ctx, changeChannel)
	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var sched []byte
	var maxDetour sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &p.HomeAddress, &p.WorkAddress,
		&p.Home.Lat, &p.Home.Lng, &p.Work.Lat, &p.Work.Lng,
		&sched, &p.HasLicense, &p.HasCar, &maxDetour,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sched, &p.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	if maxDetour.Valid {
		v := int(maxDetour.Int64)
		p.MaxDetourMinutes = &v
	}
	return &p, nil
}

func toIntPtr(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
