package session

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/disclosure"
	"github.com/rcliao/brainsite/internal/model"
	"github.com/rcliao/brainsite/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2026, time.June, 6, 8, 30, 0, 0, time.UTC)

type memFeed struct {
	mu       sync.Mutex
	thoughts []store.AddThoughtParams
}

func (f *memFeed) AddThought(_ context.Context, p store.AddThoughtParams) (*model.Thought, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thoughts = append(f.thoughts, p)
	return &model.Thought{ID: p.ID, Content: p.Content}, nil
}

func newTestSession(t *testing.T) (*Session, *clock.Fake, *memFeed) {
	t.Helper()
	cat, err := catalog.Default(start)
	require.NoError(t, err)

	fake := clock.NewFake(start)
	feed := &memFeed{}
	s := New(cat, Options{
		Clock:       fake,
		Rand:        rand.New(rand.NewSource(3)),
		Feed:        feed,
		EventBuffer: 256,
	})
	t.Cleanup(s.Close)
	return s, fake, feed
}

func drain(s *Session) []EventKind {
	var kinds []EventKind
	for {
		select {
		case e, ok := <-s.Events():
			if !ok {
				return kinds
			}
			kinds = append(kinds, e.Kind)
		default:
			return kinds
		}
	}
}

func TestInitialSnapshotIsEmpty(t *testing.T) {
	s, _, _ := newTestSession(t)
	if diff := cmp.Diff(Snapshot{}, s.Snapshot()); diff != "" {
		t.Errorf("initial snapshot (-want +got):\n%s", diff)
	}
}

func TestHoverSelectBackdropFlow(t *testing.T) {
	s, _, _ := newTestSession(t)

	s.Hover("career")
	r, ok := s.HoveredRegion()
	require.True(t, ok)
	assert.Equal(t, "Career Growth", r.Name)
	assert.Equal(t, "#3b82f6", r.Color)

	require.True(t, s.Select("career"))
	snap := s.Snapshot()
	require.NotNil(t, snap.SelectedRegion)
	assert.Equal(t, []string{"Promotions", "Career pivots", "Negotiation", "Personal brand"}, snap.SelectedRegion.Topics)

	// Clicks inside the panel are contained.
	assert.False(t, s.ClickRegionPanel(disclosure.Content))
	assert.NotNil(t, s.Snapshot().SelectedRegion)

	assert.True(t, s.ClickRegionPanel(disclosure.Backdrop))
	snap = s.Snapshot()
	assert.Nil(t, snap.SelectedRegion)
	assert.Equal(t, "career", snap.HoveredRegionID)
}

func TestSelectUnknownIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.True(t, s.Select("learning"))
	assert.False(t, s.Select("cerebellum"))
	snap := s.Snapshot()
	require.NotNil(t, snap.SelectedRegion)
	assert.Equal(t, "learning", snap.SelectedRegion.ID)
}

func TestOneOverlayAtATime(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.True(t, s.Select("strategy"))
	require.True(t, s.OpenScenario(1))
	snap := s.Snapshot()
	assert.Nil(t, snap.SelectedRegion)
	require.NotNil(t, snap.ActiveScenario)
	assert.Equal(t, 1, snap.ActiveScenario.ID)

	require.True(t, s.Select("strategy"))
	snap = s.Snapshot()
	assert.Nil(t, snap.ActiveScenario)
	assert.NotNil(t, snap.SelectedRegion)

	assert.False(t, s.OpenScenario(999))
	assert.NotNil(t, s.Snapshot().SelectedRegion)
}

func TestScenarioClicks(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.True(t, s.OpenScenario(2))
	assert.False(t, s.ClickScenario(disclosure.Content))
	assert.True(t, s.CloseScenario())
	assert.False(t, s.CloseScenario())
	assert.Nil(t, s.Snapshot().ActiveScenario)
}

func TestActivateRipples(t *testing.T) {
	s, fake, _ := newTestSession(t)

	require.True(t, s.Activate("creativity"))
	assert.Equal(t, "creativity", s.Snapshot().ActiveRippleRegionID)

	fake.Advance(599 * time.Millisecond)
	assert.Equal(t, "creativity", s.Snapshot().ActiveRippleRegionID)

	fake.Advance(time.Millisecond)
	assert.Empty(t, s.Snapshot().ActiveRippleRegionID)
	assert.Contains(t, drain(s), RippleCleared)

	assert.False(t, s.Activate("cerebellum"))
	assert.Empty(t, s.Snapshot().ActiveRippleRegionID)
}

func TestLiveThoughtsReachSnapshotAndFeed(t *testing.T) {
	s, fake, feed := newTestSession(t)
	s.Start()

	fake.Advance(14 * time.Second)
	assert.Nil(t, s.Snapshot().EphemeralThought)

	fake.Advance(time.Second)
	th := s.Snapshot().EphemeralThought
	require.NotNil(t, th)
	assert.Equal(t, "live", th.Type)
	assert.Equal(t, start.Add(15*time.Second), th.Timestamp)

	fake.Advance(3 * time.Second)
	assert.Nil(t, s.Snapshot().EphemeralThought)

	kinds := drain(s)
	assert.Equal(t, []EventKind{ThoughtShown, ThoughtCleared}, kinds)

	feed.mu.Lock()
	defer feed.mu.Unlock()
	require.Len(t, feed.thoughts, 1)
	assert.Equal(t, th.ID, feed.thoughts[0].ID)
}

func TestCloseStopsEverything(t *testing.T) {
	s, fake, feed := newTestSession(t)
	s.Start()
	s.Activate("career")

	s.Close()
	s.Close()

	fake.Advance(time.Minute)
	assert.Equal(t, 0, fake.Pending())
	assert.Nil(t, s.Snapshot().EphemeralThought)
	assert.Empty(t, feed.thoughts)

	// The channel is closed once buffered events are drained.
	for range s.Events() {
	}
	assert.False(t, s.Select("career"))
}

func TestRealClockCloseDoesNotLeak(t *testing.T) {
	cat, err := catalog.Default(start)
	require.NoError(t, err)

	s := New(cat, Options{
		RippleWindow:   5 * time.Millisecond,
		NotifyInterval: 5 * time.Millisecond,
		NotifyDisplay:  2 * time.Millisecond,
	})
	s.Start()
	s.Activate("learning")
	time.Sleep(20 * time.Millisecond)
	s.Close()
}
