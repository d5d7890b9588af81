// Package disclosure implements open/close state for detail overlays.
//
// A Panel holds at most one open entity. Panels that share a Group are
// mutually exclusive: opening one closes the others, so a surface never
// shows two overlays at once. Panels are not safe for concurrent use; the
// owner serializes access.
package disclosure

// Target identifies what a click landed on.
type Target int

const (
	// Backdrop is the dimmed area around an open panel.
	Backdrop Target = iota
	// CloseButton is the panel's explicit close affordance.
	CloseButton
	// Content is anything inside the panel body.
	Content
)

func (t Target) String() string {
	switch t {
	case Backdrop:
		return "backdrop"
	case CloseButton:
		return "close"
	case Content:
		return "content"
	default:
		return "unknown"
	}
}

type closer interface {
	forceClose()
}

// Group makes its panels mutually exclusive.
type Group struct {
	active closer
}

// NewGroup returns an empty Group.
func NewGroup() *Group { return &Group{} }

func (g *Group) activate(c closer) {
	if g.active != nil && g.active != c {
		g.active.forceClose()
	}
	g.active = c
}

func (g *Group) release(c closer) {
	if g.active == c {
		g.active = nil
	}
}

// Panel is the disclosure state of a single overlay.
type Panel[T any] struct {
	name    string
	group   *Group
	current T
	open    bool
}

// NewPanel creates a closed panel. A nil group leaves it standalone.
func NewPanel[T any](name string, group *Group) *Panel[T] {
	return &Panel[T]{name: name, group: group}
}

// Name returns the panel name.
func (p *Panel[T]) Name() string { return p.name }

// Open shows v, replacing whatever the panel showed before and closing any
// other panel in the same group.
func (p *Panel[T]) Open(v T) {
	if p.group != nil {
		p.group.activate(p)
	}
	p.current = v
	p.open = true
}

// Close empties the panel. Closing a closed panel is a no-op; the return
// value reports whether anything was open.
func (p *Panel[T]) Close() bool {
	if !p.open {
		return false
	}
	p.forceClose()
	if p.group != nil {
		p.group.release(p)
	}
	return true
}

func (p *Panel[T]) forceClose() {
	var zero T
	p.current = zero
	p.open = false
}

// Current returns the open entity, if any.
func (p *Panel[T]) Current() (T, bool) {
	return p.current, p.open
}

// IsOpen reports whether the panel shows anything.
func (p *Panel[T]) IsOpen() bool { return p.open }

// Click applies a click on target. Backdrop and close button clicks always
// close; clicks on content are contained and never reach the backdrop.
// It reports whether the click closed the panel.
func (p *Panel[T]) Click(target Target) bool {
	switch target {
	case Backdrop, CloseButton:
		return p.Close()
	default:
		return false
	}
}
