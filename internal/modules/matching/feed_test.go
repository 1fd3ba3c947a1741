package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"covoit/internal/maps"
	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

func TestFeed_PublishesFirstSnapshot(t *testing.T) {
	self := commuter("self", downtown, campus, "09:00", "17:00")
	cand := commuter("cand", plateau, campus, "09:00", "17:00")

	routes := durationsByOrigin(map[types.Point]int{
		self.Home: 30,
		cand.Home: 25,
	}, 35)
	engine := newTestEngine(routes, 2)
	pub := &recordingPublisher{}
	source := &channelSource{ch: make(chan profile.Snapshot, 1)}
	feed := NewFeed(engine, source, pub, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := feed.Run(ctx, self, schedule.Monday, schedule.Morning, 30)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	source.ch <- profile.Snapshot{Seq: 1, Day: schedule.Monday, Profiles: []profile.Profile{cand}}

	select {
	case set := <-out:
		if set.Seq != 1 || len(set.DriverMatches) != 1 {
			t.Errorf("published seq %d with %d driver matches", set.Seq, len(set.DriverMatches))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no match set published")
	}
	if got := pub.published(); len(got) != 1 || got[0].Seq != 1 {
		t.Errorf("store received %d sets", len(got))
	}
}

// TestFeed_LatestWins triggers a second snapshot while the first
// computation is still blocked inside the route provider. Only the
// second snapshot's results may ever be published.
func TestFeed_LatestWins(t *testing.T) {
	self := commuter("self", downtown, campus, "09:00", "17:00")
	slow := commuter("slow", plateau, campus, "09:00", "17:00")
	fast := commuter("fast", types.Point{Lat: 45.53, Lng: -73.59}, campus, "09:00", "17:00")

	started := make(chan struct{}, 3)
	release := make(chan struct{})
	routes := &fakeRoutes{
		direct: func(ctx context.Context, origin, _ types.Point) (maps.Route, error) {
			if origin == slow.Home {
				started <- struct{}{}
				select {
				case <-release:
				case <-ctx.Done():
					return maps.Route{}, ctx.Err()
				}
			}
			return minutes(25), nil
		},
		detour: func(_ context.Context, _, _, _, _ types.Point) (maps.Route, error) {
			return minutes(30), nil
		},
	}
	engine := newTestEngine(routes, 2)
	pub := &recordingPublisher{}
	source := &channelSource{ch: make(chan profile.Snapshot, 2)}
	feed := NewFeed(engine, source, pub, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := feed.Run(ctx, self, schedule.Monday, schedule.Morning, 30)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	source.ch <- profile.Snapshot{Seq: 1, Day: schedule.Monday, Profiles: []profile.Profile{slow}}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first computation never reached the route provider")
	}
	source.ch <- profile.Snapshot{Seq: 2, Day: schedule.Monday, Profiles: []profile.Profile{fast}}

	var published *MatchSet
	select {
	case published = <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("second computation never published")
	}
	if published.Seq != 2 {
		t.Fatalf("published seq = %d, want 2", published.Seq)
	}
	if len(published.DriverMatches) != 1 || published.DriverMatches[0].Profile.ID != "fast" {
		t.Errorf("published matches = %v, want fast only", ids(published.DriverMatches))
	}

	// Let the first computation finish; its result must be dropped at
	// the sequence gate.
	close(release)
	time.Sleep(50 * time.Millisecond)

	for _, set := range pub.published() {
		if set.Seq == 1 {
			t.Error("stale snapshot 1 was published after snapshot 2")
		}
	}
	last := pub.published()[len(pub.published())-1]
	if last.Seq != 2 {
		t.Errorf("last published seq = %d, want 2", last.Seq)
	}
}

func TestFeed_SubscribeFailureIsFatal(t *testing.T) {
	engine := newTestEngine(durationsByOrigin(nil, 0), 1)
	wantErr := errors.New("profile source unavailable")
	feed := NewFeed(engine, &channelSource{err: wantErr}, &recordingPublisher{}, testLogger())

	_, err := feed.Run(context.Background(), prof("self"), schedule.Monday, schedule.Morning, 10)
	if !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want the subscription failure", err)
	}
}
