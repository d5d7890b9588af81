package notify

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2026, time.April, 4, 18, 0, 0, 0, time.UTC)

type episode struct {
	content string
	shownAt time.Duration
	endedAt time.Duration
}

type recorder struct {
	clock    *clock.Fake
	episodes []episode
}

func (r *recorder) show(th model.Thought) {
	r.episodes = append(r.episodes, episode{content: th.Content, shownAt: r.clock.Now().Sub(start), endedAt: -1})
}

func (r *recorder) clear(model.Thought) {
	r.episodes[len(r.episodes)-1].endedAt = r.clock.Now().Sub(start)
}

func testPool(t *testing.T) []model.Notification {
	t.Helper()
	cat, err := catalog.Default(start)
	require.NoError(t, err)
	return cat.Notifications
}

func newTestSimulator(t *testing.T, opts Options) (*Simulator, *clock.Fake, *recorder) {
	t.Helper()
	fake := clock.NewFake(start)
	rec := &recorder{clock: fake}
	opts.Clock = fake
	opts.OnShow = rec.show
	opts.OnClear = rec.clear
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	s := New(testPool(t), opts)
	t.Cleanup(s.Stop)
	return s, fake, rec
}

func TestSixtySecondWindow(t *testing.T) {
	s, fake, rec := newTestSimulator(t, Options{})
	s.Start()

	fake.Advance(63 * time.Second)

	require.Len(t, rec.episodes, 4)
	for i, ep := range rec.episodes {
		assert.Equal(t, time.Duration(i+1)*15*time.Second, ep.shownAt, "episode %d", i)
		assert.Equal(t, 3*time.Second, ep.endedAt-ep.shownAt, "episode %d", i)
	}
	assert.Equal(t, Idle, s.State())
}

func TestStateTransitions(t *testing.T) {
	s, fake, _ := newTestSimulator(t, Options{})
	s.Start()

	assert.Equal(t, Idle, s.State())
	fake.Advance(15 * time.Second)
	assert.Equal(t, Showing, s.State())

	th, ok := s.Current()
	require.True(t, ok)
	assert.NotEmpty(t, th.ID)
	assert.Equal(t, start.Add(15*time.Second), th.Timestamp)
	assert.Equal(t, "live", th.Type)

	fake.Advance(3 * time.Second)
	assert.Equal(t, Idle, s.State())
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestEveryMessageReachable(t *testing.T) {
	s, fake, rec := newTestSimulator(t, Options{})
	s.Start()

	fake.Advance(200 * 15 * time.Second)

	seen := map[string]bool{}
	for _, ep := range rec.episodes {
		seen[ep.content] = true
	}
	assert.Len(t, seen, 4)
}

func TestFreshIDs(t *testing.T) {
	s, fake, _ := newTestSimulator(t, Options{})
	s.Start()

	ids := map[string]bool{}
	for i := 0; i < 10; i++ {
		fake.Advance(15 * time.Second)
		th, ok := s.Current()
		require.True(t, ok)
		assert.False(t, ids[th.ID], "duplicate id %s", th.ID)
		ids[th.ID] = true
	}
}

func TestOverlapLastWriteWins(t *testing.T) {
	s, fake, rec := newTestSimulator(t, Options{
		Interval: 10 * time.Second,
		Display:  25 * time.Second,
	})
	s.Start()

	fake.Advance(10 * time.Second)
	first, ok := s.Current()
	require.True(t, ok)

	fake.Advance(10 * time.Second)
	second, ok := s.Current()
	require.True(t, ok)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, rec.episodes, 2)
	// Only the interval timer and the second display window remain.
	assert.Equal(t, 2, fake.Pending())
}

func TestStopCancelsTimers(t *testing.T) {
	s, fake, rec := newTestSimulator(t, Options{})
	s.Start()

	fake.Advance(16 * time.Second)
	require.Equal(t, Showing, s.State())

	s.Stop()
	assert.Equal(t, 0, fake.Pending())
	assert.Equal(t, Idle, s.State())

	fake.Advance(time.Minute)
	assert.Len(t, rec.episodes, 1)
	assert.Equal(t, time.Duration(-1), rec.episodes[0].endedAt)

	s.Stop()
	s.Start()
	assert.Equal(t, 0, fake.Pending())
}

func TestStartTwice(t *testing.T) {
	s, fake, _ := newTestSimulator(t, Options{})
	s.Start()
	s.Start()
	assert.Equal(t, 1, fake.Pending())
}

func TestRealClockStop(t *testing.T) {
	shown := make(chan model.Thought, 4)
	s := New(testPool(t), Options{
		Interval: 5 * time.Millisecond,
		Display:  time.Millisecond,
		OnShow: func(th model.Thought) {
			select {
			case shown <- th:
			default:
			}
		},
	})
	s.Start()

	select {
	case <-shown:
	case <-time.After(time.Second):
		t.Fatal("no thought shown")
	}
	s.Stop()
}
