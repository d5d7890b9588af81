// Package session owns the interaction state of one visitor: hovered,
// selected and rippling regions, the open scenario, and the live thought
// currently on screen.
package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/disclosure"
	"github.com/rcliao/brainsite/internal/interaction"
	"github.com/rcliao/brainsite/internal/model"
	"github.com/rcliao/brainsite/internal/notify"
	"github.com/rcliao/brainsite/internal/store"
)

// DefaultEventBuffer is the event channel capacity.
const DefaultEventBuffer = 32

// EventKind says what an Event reports.
type EventKind int

const (
	// Changed covers hover, selection and ripple start.
	Changed EventKind = iota
	RippleCleared
	ThoughtShown
	ThoughtCleared
)

func (k EventKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case RippleCleared:
		return "ripple_cleared"
	case ThoughtShown:
		return "thought_shown"
	case ThoughtCleared:
		return "thought_cleared"
	default:
		return "unknown"
	}
}

// Event is published on the session's event channel.
type Event struct {
	Kind    EventKind
	Thought model.Thought // set for ThoughtShown and ThoughtCleared
}

// Feed receives live thoughts. store.Store satisfies it.
type Feed interface {
	AddThought(ctx context.Context, p store.AddThoughtParams) (*model.Thought, error)
}

// Snapshot is a copy of the interaction state.
type Snapshot struct {
	HoveredRegionID      string          `json:"hovered_region_id,omitempty"`
	SelectedRegion       *model.Region   `json:"selected_region,omitempty"`
	ActiveScenario       *model.Scenario `json:"active_scenario,omitempty"`
	ActiveRippleRegionID string          `json:"active_ripple_region_id,omitempty"`
	EphemeralThought     *model.Thought  `json:"ephemeral_thought,omitempty"`
}

// Options configures a Session.
type Options struct {
	Clock          clock.Clock
	RippleWindow   time.Duration
	NotifyInterval time.Duration
	NotifyDisplay  time.Duration
	Rand           *rand.Rand
	Logger         *zap.Logger
	// Feed records live thoughts when set.
	Feed        Feed
	EventBuffer int
}

// Session is the state of one visitor. Methods are safe for concurrent use.
type Session struct {
	// mu serializes every disclosure panel access; the region and
	// scenario panels share a group.
	mu        sync.Mutex
	cat       *catalog.Catalog
	logger    *zap.Logger
	feed      Feed
	regions   *interaction.Model
	scenarios *disclosure.Panel[model.Scenario]
	notifier  *notify.Simulator
	closed    bool

	evMu     sync.Mutex
	events   chan Event
	evClosed bool
}

// New creates a session over the catalog. Live thoughts do not start until
// Start is called.
func New(cat *catalog.Catalog, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}

	s := &Session{
		cat:    cat,
		logger: opts.Logger,
		feed:   opts.Feed,
		events: make(chan Event, opts.EventBuffer),
	}

	group := disclosure.NewGroup()
	s.regions = interaction.New(cat, interaction.Options{
		Clock:        opts.Clock,
		RippleWindow: opts.RippleWindow,
		Logger:       opts.Logger.Named("interaction"),
		Group:        group,
		OnChange:     s.onChange,
	})
	s.scenarios = disclosure.NewPanel[model.Scenario]("scenario", group)
	s.notifier = notify.New(cat.Notifications, notify.Options{
		Clock:    opts.Clock,
		Interval: opts.NotifyInterval,
		Display:  opts.NotifyDisplay,
		Rand:     opts.Rand,
		Logger:   opts.Logger.Named("notify"),
		OnShow:   s.onShow,
		OnClear:  s.onClear,
	})
	return s
}

// Events returns the event channel. It is closed by Close. Events are
// dropped when the buffer is full.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) emit(e Event) {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	if s.evClosed {
		return
	}
	select {
	case s.events <- e:
	default:
		s.logger.Debug("event dropped", zap.Stringer("kind", e.Kind))
	}
}

func (s *Session) onChange(c interaction.Change) {
	if c == interaction.RippleCleared {
		s.emit(Event{Kind: RippleCleared})
		return
	}
	s.emit(Event{Kind: Changed})
}

func (s *Session) onShow(th model.Thought) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.feed != nil {
		_, err := s.feed.AddThought(context.Background(), store.AddThoughtParams{
			ID:        th.ID,
			Content:   th.Content,
			Type:      th.Type,
			Region:    th.Region,
			Timestamp: th.Timestamp,
		})
		if err != nil {
			s.logger.Warn("record live thought", zap.String("id", th.ID), zap.Error(err))
		}
	}
	s.emit(Event{Kind: ThoughtShown, Thought: th})
}

func (s *Session) onClear(th model.Thought) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		s.emit(Event{Kind: ThoughtCleared, Thought: th})
	}
}

// Catalog returns the content tables the session was built on.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Start begins the live thought cycle.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.notifier.Start()
}

// Hover marks id as hovered. Unknown ids are kept and resolve to nothing.
func (s *Session) Hover(id string) {
	s.regions.SetHover(id)
}

// ClearHover clears the hovered region.
func (s *Session) ClearHover() {
	s.regions.ClearHover()
}

// HoveredRegion resolves the hovered region.
func (s *Session) HoveredRegion() (model.Region, bool) {
	return s.regions.HoveredRegion()
}

// Select opens the region detail panel, closing any open scenario.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.regions.Select(id)
}

// Activate is a click on a region: it selects and ripples it.
func (s *Session) Activate(id string) bool {
	if !s.Select(id) {
		return false
	}
	s.regions.TriggerRipple(id)
	return true
}

// Ripple starts the ripple effect on id.
func (s *Session) Ripple(id string) {
	s.regions.TriggerRipple(id)
}

// Deselect closes the region detail panel.
func (s *Session) Deselect() bool {
	return s.ClickRegionPanel(disclosure.CloseButton)
}

// ClickRegionPanel routes a click on the region detail overlay.
func (s *Session) ClickRegionPanel(target disclosure.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions.ClickPanel(target)
}

// OpenScenario opens the scenario panel, closing the region panel. Unknown
// ids are a no-op.
func (s *Session) OpenScenario(id int) bool {
	sc, ok := s.cat.Scenario(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.scenarios.Open(sc)
	s.mu.Unlock()

	s.logger.Debug("scenario opened", zap.Int("id", id))
	s.emit(Event{Kind: Changed})
	return true
}

// CloseScenario closes the scenario panel.
func (s *Session) CloseScenario() bool {
	return s.ClickScenario(disclosure.CloseButton)
}

// ClickScenario routes a click on the scenario overlay.
func (s *Session) ClickScenario(target disclosure.Target) bool {
	s.mu.Lock()
	closed := s.scenarios.Click(target)
	s.mu.Unlock()

	if closed {
		s.emit(Event{Kind: Changed})
	}
	return closed
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	if id, ok := s.regions.Hovered(); ok {
		snap.HoveredRegionID = id
	}
	if r, ok := s.regions.Selected(); ok {
		snap.SelectedRegion = &r
	}
	if sc, ok := s.scenarios.Current(); ok {
		snap.ActiveScenario = &sc
	}
	if id, ok := s.regions.Ripple(); ok {
		snap.ActiveRippleRegionID = id
	}
	if th, ok := s.notifier.Current(); ok {
		snap.EphemeralThought = &th
	}
	return snap
}

// Close stops every timer and then closes the event channel. It is
// idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.regions.Close()
	s.notifier.Stop()

	s.evMu.Lock()
	s.evClosed = true
	close(s.events)
	s.evMu.Unlock()
}
