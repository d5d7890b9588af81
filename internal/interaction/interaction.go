// Package interaction tracks which brain region is hovered, selected or
// rippling, and resolves region ids to their display metadata.
package interaction

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/disclosure"
	"github.com/rcliao/brainsite/internal/model"
)

// DefaultRippleWindow is how long a ripple stays active.
const DefaultRippleWindow = 600 * time.Millisecond

// Resolver resolves region ids. *catalog.Catalog satisfies it.
type Resolver interface {
	Region(id string) (model.Region, bool)
}

// Change describes what moved in the model.
type Change int

const (
	HoverChanged Change = iota
	SelectionChanged
	RippleStarted
	RippleCleared
)

func (c Change) String() string {
	switch c {
	case HoverChanged:
		return "hover"
	case SelectionChanged:
		return "selection"
	case RippleStarted:
		return "ripple_started"
	case RippleCleared:
		return "ripple_cleared"
	default:
		return "unknown"
	}
}

// Options configures a Model.
type Options struct {
	Clock        clock.Clock
	RippleWindow time.Duration
	Logger       *zap.Logger
	// Group makes the region detail panel exclusive with other overlays.
	Group *disclosure.Group
	// OnChange is called after every state change, outside the model lock.
	OnChange func(Change)
}

// Model is the region interaction state of one session.
type Model struct {
	mu       sync.Mutex
	regions  Resolver
	clock    clock.Clock
	window   time.Duration
	logger   *zap.Logger
	onChange func(Change)

	hovered  string
	hovering bool
	panel    *disclosure.Panel[model.Region]

	ripple      string
	rippleTimer clock.Timer
	rippleGen   uint64

	closed bool
}

// New creates a Model with nothing hovered, selected or rippling.
func New(regions Resolver, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.RippleWindow <= 0 {
		opts.RippleWindow = DefaultRippleWindow
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Model{
		regions:  regions,
		clock:    opts.Clock,
		window:   opts.RippleWindow,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		panel:    disclosure.NewPanel[model.Region]("region", opts.Group),
	}
}

func (m *Model) notify(c Change) {
	if m.onChange != nil {
		m.onChange(c)
	}
}

// ResolveRegion looks a region up by exact id. Unknown ids are not an
// error; callers render nothing or fall back to a default color.
func (m *Model) ResolveRegion(id string) (model.Region, bool) {
	return m.regions.Region(id)
}

// SetHover records id as hovered. Ids without a region are allowed and
// resolve to nothing downstream.
func (m *Model) SetHover(id string) {
	m.mu.Lock()
	if m.hovering && m.hovered == id {
		m.mu.Unlock()
		return
	}
	m.hovered, m.hovering = id, true
	m.mu.Unlock()

	m.logger.Debug("hover", zap.String("region", id))
	m.notify(HoverChanged)
}

// ClearHover records that no region is hovered.
func (m *Model) ClearHover() {
	m.mu.Lock()
	if !m.hovering {
		m.mu.Unlock()
		return
	}
	m.hovered, m.hovering = "", false
	m.mu.Unlock()

	m.notify(HoverChanged)
}

// Hovered returns the hovered id.
func (m *Model) Hovered() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hovered, m.hovering
}

// HoveredRegion resolves the hovered id.
func (m *Model) HoveredRegion() (model.Region, bool) {
	id, ok := m.Hovered()
	if !ok {
		return model.Region{}, false
	}
	return m.regions.Region(id)
}

// Select opens the detail panel for id. Unknown ids leave the panel as it
// was and return false.
func (m *Model) Select(id string) bool {
	r, ok := m.regions.Region(id)
	if !ok {
		return false
	}
	m.mu.Lock()
	m.panel.Open(r)
	m.mu.Unlock()

	m.logger.Debug("select", zap.String("region", id))
	m.notify(SelectionChanged)
	return true
}

// Deselect closes the detail panel. It reports whether a region was open.
func (m *Model) Deselect() bool {
	return m.ClickPanel(disclosure.CloseButton)
}

// ClickPanel routes a click on the detail panel. Content clicks are
// contained; backdrop and close clicks close. Hover is never touched.
func (m *Model) ClickPanel(target disclosure.Target) bool {
	m.mu.Lock()
	closed := m.panel.Click(target)
	m.mu.Unlock()

	if closed {
		m.notify(SelectionChanged)
	}
	return closed
}

// Selected returns the region shown in the detail panel.
func (m *Model) Selected() (model.Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panel.Current()
}

// TriggerRipple marks id as rippling and clears it after the ripple window.
// Triggering again before the window elapses restarts it.
func (m *Model) TriggerRipple(id string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.rippleTimer != nil {
		m.rippleTimer.Stop()
	}
	m.rippleGen++
	gen := m.rippleGen
	m.ripple = id
	m.rippleTimer = m.clock.AfterFunc(m.window, func() { m.clearRipple(gen) })
	m.mu.Unlock()

	m.notify(RippleStarted)
}

func (m *Model) clearRipple(gen uint64) {
	m.mu.Lock()
	if m.closed || gen != m.rippleGen {
		m.mu.Unlock()
		return
	}
	m.ripple = ""
	m.rippleTimer = nil
	m.mu.Unlock()

	m.notify(RippleCleared)
}

// Ripple returns the rippling region id.
func (m *Model) Ripple() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ripple, m.ripple != ""
}

// Close cancels the ripple timer. No state changes after Close.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.rippleTimer != nil {
		m.rippleTimer.Stop()
		m.rippleTimer = nil
	}
}
