package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/disclosure"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (*Model, *clock.Fake, *[]Change) {
	t.Helper()
	cat, err := catalog.Default(start)
	require.NoError(t, err)

	fake := clock.NewFake(start)
	var changes []Change
	m := New(cat, Options{
		Clock:    fake,
		OnChange: func(c Change) { changes = append(changes, c) },
	})
	t.Cleanup(m.Close)
	return m, fake, &changes
}

func TestHover(t *testing.T) {
	m, _, changes := newTestModel(t)

	_, ok := m.Hovered()
	assert.False(t, ok)

	m.SetHover("career")
	id, ok := m.Hovered()
	require.True(t, ok)
	assert.Equal(t, "career", id)

	r, ok := m.HoveredRegion()
	require.True(t, ok)
	assert.Equal(t, "Career Growth", r.Name)
	assert.Equal(t, "#3b82f6", r.Color)

	// Same id twice is not a change.
	m.SetHover("career")
	assert.Equal(t, []Change{HoverChanged}, *changes)

	m.ClearHover()
	_, ok = m.Hovered()
	assert.False(t, ok)
}

func TestHoverUnknownRegion(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.SetHover("cerebellum")
	id, ok := m.Hovered()
	assert.True(t, ok)
	assert.Equal(t, "cerebellum", id)

	_, ok = m.HoveredRegion()
	assert.False(t, ok)
}

func TestSelectAndClose(t *testing.T) {
	m, _, _ := newTestModel(t)

	require.True(t, m.Select("learning"))
	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "learning", r.ID)
	assert.NotEmpty(t, r.Topics)

	assert.False(t, m.ClickPanel(disclosure.Content))
	_, ok = m.Selected()
	assert.True(t, ok)

	assert.True(t, m.ClickPanel(disclosure.Backdrop))
	_, ok = m.Selected()
	assert.False(t, ok)

	assert.False(t, m.Deselect())
}

func TestSelectUnknownIsNoop(t *testing.T) {
	m, _, changes := newTestModel(t)

	require.True(t, m.Select("career"))
	assert.False(t, m.Select("cerebellum"))

	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "career", r.ID)
	assert.Equal(t, []Change{SelectionChanged}, *changes)
}

func TestCloseDoesNotTouchHover(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.SetHover("career")
	m.Select("career")
	m.Deselect()

	id, ok := m.Hovered()
	assert.True(t, ok)
	assert.Equal(t, "career", id)
}

func TestRippleClearsAfterWindow(t *testing.T) {
	m, fake, changes := newTestModel(t)

	m.TriggerRipple("creativity")
	id, ok := m.Ripple()
	require.True(t, ok)
	assert.Equal(t, "creativity", id)

	fake.Advance(599 * time.Millisecond)
	_, ok = m.Ripple()
	assert.True(t, ok)

	fake.Advance(time.Millisecond)
	_, ok = m.Ripple()
	assert.False(t, ok)
	assert.Equal(t, []Change{RippleStarted, RippleCleared}, *changes)
}

func TestRippleRetriggerRestartsWindow(t *testing.T) {
	m, fake, _ := newTestModel(t)

	m.TriggerRipple("career")
	fake.Advance(300 * time.Millisecond)
	m.TriggerRipple("strategy")

	// 600ms after the first trigger the second ripple is still active.
	fake.Advance(300 * time.Millisecond)
	id, ok := m.Ripple()
	require.True(t, ok)
	assert.Equal(t, "strategy", id)

	fake.Advance(299 * time.Millisecond)
	_, ok = m.Ripple()
	assert.True(t, ok)

	fake.Advance(time.Millisecond)
	_, ok = m.Ripple()
	assert.False(t, ok)
	assert.Equal(t, 0, fake.Pending())
}

func TestCloseCancelsRipple(t *testing.T) {
	m, fake, changes := newTestModel(t)

	m.TriggerRipple("career")
	m.Close()
	assert.Equal(t, 0, fake.Pending())

	fake.Advance(time.Second)
	assert.Equal(t, []Change{RippleStarted}, *changes)

	m.TriggerRipple("career")
	assert.Equal(t, 0, fake.Pending())
}

func TestRealClockRipple(t *testing.T) {
	cat, err := catalog.Default(start)
	require.NoError(t, err)

	cleared := make(chan struct{}, 1)
	m := New(cat, Options{
		RippleWindow: 5 * time.Millisecond,
		OnChange: func(c Change) {
			if c == RippleCleared {
				cleared <- struct{}{}
			}
		},
	})
	defer m.Close()

	m.TriggerRipple("career")
	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("ripple was not cleared")
	}
	_, ok := m.Ripple()
	assert.False(t, ok)
}
