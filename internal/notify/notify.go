// Package notify simulates "live" thought notifications: on a fixed
// interval it shows one canned message for a fixed display window.
package notify

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/model"
)

const (
	DefaultInterval = 15 * time.Second
	DefaultDisplay  = 3 * time.Second
)

// State is the simulator state.
type State int

const (
	Idle State = iota
	Showing
)

func (s State) String() string {
	if s == Showing {
		return "showing"
	}
	return "idle"
}

// Options configures a Simulator.
type Options struct {
	Clock    clock.Clock
	Interval time.Duration
	Display  time.Duration
	// Rand picks messages and seeds thought ids. Defaults to a time seed.
	Rand   *rand.Rand
	Logger *zap.Logger
	// OnShow and OnClear run outside the simulator lock.
	OnShow  func(model.Thought)
	OnClear func(model.Thought)
}

// Simulator cycles Idle -> Showing -> Idle. It must be stopped by its owner.
type Simulator struct {
	mu       sync.Mutex
	pool     []model.Notification
	clock    clock.Clock
	interval time.Duration
	display  time.Duration
	rng      *rand.Rand
	logger   *zap.Logger
	onShow   func(model.Thought)
	onClear  func(model.Thought)

	state        State
	current      model.Thought
	tickTimer    clock.Timer
	displayTimer clock.Timer
	showGen      uint64
	running      bool
	stopped      bool
}

// New creates an idle, unstarted Simulator drawing from pool.
func New(pool []model.Notification, opts Options) *Simulator {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Display <= 0 {
		opts.Display = DefaultDisplay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Simulator{
		pool:     pool,
		clock:    opts.Clock,
		interval: opts.Interval,
		display:  opts.Display,
		rng:      opts.Rand,
		logger:   opts.Logger,
		onShow:   opts.OnShow,
		onClear:  opts.OnClear,
	}
}

// Start arms the interval timer. Starting a running or stopped simulator
// does nothing.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.stopped || len(s.pool) == 0 {
		return
	}
	s.running = true
	s.tickTimer = s.clock.AfterFunc(s.interval, s.tick)
	s.logger.Debug("notification simulator started",
		zap.Duration("interval", s.interval),
		zap.Duration("display", s.display))
}

// Stop cancels every timer. After Stop no callback fires and the state
// stays Idle. Stop is idempotent.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.running = false
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
	if s.displayTimer != nil {
		s.displayTimer.Stop()
		s.displayTimer = nil
	}
	s.state = Idle
	s.current = model.Thought{}
}

func (s *Simulator) tick() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.tickTimer = s.clock.AfterFunc(s.interval, s.tick)

	// An overlapping tick replaces the message on screen and restarts the
	// display window.
	if s.displayTimer != nil {
		s.displayTimer.Stop()
	}
	th := s.next()
	s.state = Showing
	s.current = th
	s.showGen++
	gen := s.showGen
	s.displayTimer = s.clock.AfterFunc(s.display, func() { s.clear(gen) })
	s.mu.Unlock()

	s.logger.Debug("thought shown", zap.String("id", th.ID), zap.String("region", th.Region))
	if s.onShow != nil {
		s.onShow(th)
	}
}

func (s *Simulator) clear(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.showGen {
		s.mu.Unlock()
		return
	}
	th := s.current
	s.state = Idle
	s.current = model.Thought{}
	s.displayTimer = nil
	s.mu.Unlock()

	if s.onClear != nil {
		s.onClear(th)
	}
}

// next builds a fresh thought from a uniformly chosen pool entry. Callers
// hold s.mu.
func (s *Simulator) next() model.Thought {
	n := s.pool[s.rng.Intn(len(s.pool))]
	now := s.clock.Now()
	return model.Thought{
		ID:        ulid.MustNew(ulid.Timestamp(now), s.rng).String(),
		Content:   n.Content,
		Timestamp: now.UTC(),
		Type:      n.Type,
		Region:    n.Region,
	}
}

// State returns the current state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the thought on screen, if any.
func (s *Simulator) Current() (model.Thought, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.state == Showing
}
