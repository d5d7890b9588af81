// Package tui is the terminal front end: a single-page microsite with a
// hoverable brain explorer, Q&A, scenarios, coaching plans and a live
// thought feed.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/clock"
	"github.com/rcliao/brainsite/internal/model"
	"github.com/rcliao/brainsite/internal/qa"
	"github.com/rcliao/brainsite/internal/session"
	"github.com/rcliao/brainsite/internal/store"
)

// Section is one page section.
type Section int

const (
	SectionHero Section = iota
	SectionExplorer
	SectionAsk
	SectionScenarios
	SectionCoaching
	SectionThoughts
)

var sections = []Section{SectionHero, SectionExplorer, SectionAsk, SectionScenarios, SectionCoaching, SectionThoughts}

func (s Section) String() string {
	switch s {
	case SectionHero:
		return "Home"
	case SectionExplorer:
		return "Explore"
	case SectionAsk:
		return "Ask"
	case SectionScenarios:
		return "Scenarios"
	case SectionCoaching:
		return "Coaching"
	case SectionThoughts:
		return "Thoughts"
	default:
		return "?"
	}
}

// ThoughtLister reads the thought feed. store.Store satisfies it.
type ThoughtLister interface {
	ListThoughts(ctx context.Context, p store.ListThoughtsParams) ([]model.Thought, error)
}

// Options configures the TUI model.
type Options struct {
	Clock  clock.Clock
	Logger *zap.Logger
	// MarkdownStyle is a glamour standard style name. Defaults to "dark".
	MarkdownStyle string
}

type sessionEventMsg struct{ event session.Event }

type answerMsg struct {
	answer qa.Answer
	ok     bool
	err    error
}

type thoughtsMsg struct {
	thoughts []model.Thought
	err      error
}

// Model is the bubbletea model.
type Model struct {
	sess   *session.Session
	cat    *catalog.Catalog
	asker  *qa.Asker
	feed   ThoughtLister
	clock  clock.Clock
	logger *zap.Logger

	md      *glamour.TermRenderer
	mdCache map[string]string

	keys keyMap
	help help.Model

	width   int
	height  int
	section Section
	regions []model.RegionView

	cursor         int // explorer keyboard cursor; -1 before first use
	scenarioCursor int
	planCursor     int

	askInput textinput.Model
	asking   bool
	answer   *qa.Answer

	decisionInput textinput.Model
	decision      *qa.Decision

	thoughts []model.Thought
	err      error
}

// New builds the model. The session must already be started by the caller
// if live thoughts are wanted.
func New(sess *session.Session, asker *qa.Asker, feed ThoughtLister, opts Options) (Model, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}

	cat := sess.Catalog()
	regions, err := cat.RegionViews(catalog.ViewExplorer)
	if err != nil {
		return Model{}, err
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.MarkdownStyle),
		glamour.WithWordWrap(modalWidth-8),
	)
	if err != nil {
		opts.Logger.Warn("markdown renderer unavailable", zap.Error(err))
	}

	ask := textinput.New()
	ask.Placeholder = "What's on your mind?"
	ask.CharLimit = 280
	ask.Width = 50

	decide := textinput.New()
	decide.Placeholder = "What would you do?"
	decide.CharLimit = 280
	decide.Width = 44

	return Model{
		sess:          sess,
		cat:           cat,
		asker:         asker,
		feed:          feed,
		clock:         opts.Clock,
		logger:        opts.Logger,
		md:            md,
		mdCache:       make(map[string]string),
		keys:          keys,
		help:          help.New(),
		section:       SectionHero,
		regions:       regions,
		cursor:        -1,
		askInput:      ask,
		decisionInput: decide,
	}, nil
}

// Init starts the event listener and loads the thought feed.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.loadThoughts())
}

func (m Model) listen() tea.Cmd {
	events := m.sess.Events()
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{event: event}
	}
}

func (m Model) loadThoughts() tea.Cmd {
	feed := m.feed
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		ths, err := feed.ListThoughts(context.Background(), store.ListThoughtsParams{Limit: 20})
		return thoughtsMsg{thoughts: ths, err: err}
	}
}

func (m Model) ask(question string) tea.Cmd {
	asker := m.asker
	return func() tea.Msg {
		ans, ok, err := asker.Ask(context.Background(), question)
		return answerMsg{answer: ans, ok: ok, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case sessionEventMsg:
		cmds := []tea.Cmd{m.listen()}
		if msg.event.Kind == session.ThoughtShown {
			cmds = append(cmds, m.loadThoughts())
		}
		return m, tea.Batch(cmds...)

	case answerMsg:
		m.asking = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Warn("ask failed", zap.Error(msg.err))
			return m, nil
		}
		if msg.ok {
			m.answer = &msg.answer
		}
		return m, nil

	case thoughtsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.thoughts = msg.thoughts
		return m, nil
	}
	return m, nil
}

func (m Model) inputFocused() bool {
	switch m.section {
	case SectionAsk:
		return true
	case SectionScenarios:
		return m.sess.Snapshot().ActiveScenario != nil
	}
	return false
}

func (m *Model) setSection(s Section) tea.Cmd {
	m.section = s
	m.askInput.Blur()
	m.decisionInput.Blur()
	switch s {
	case SectionAsk:
		return m.askInput.Focus()
	case SectionScenarios:
		if m.sess.Snapshot().ActiveScenario != nil {
			return m.decisionInput.Focus()
		}
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextSection):
		cmd := m.setSection(sections[(int(m.section)+1)%len(sections)])
		return m, cmd
	case key.Matches(msg, m.keys.PrevSection):
		cmd := m.setSection(sections[(int(m.section)+len(sections)-1)%len(sections)])
		return m, cmd
	}

	if !m.inputFocused() {
		switch {
		case key.Matches(msg, m.keys.QuitQ):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch m.section {
	case SectionExplorer:
		m.explorerKey(msg)
		return m, nil
	case SectionAsk:
		return m.askKey(msg)
	case SectionScenarios:
		return m.scenarioKey(msg)
	case SectionCoaching:
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.planCursor = (m.planCursor + len(m.cat.Plans) - 1) % max(len(m.cat.Plans), 1)
		case key.Matches(msg, m.keys.Next):
			m.planCursor = (m.planCursor + 1) % max(len(m.cat.Plans), 1)
		}
	}
	return m, nil
}

func (m *Model) explorerKey(msg tea.KeyMsg) {
	n := len(m.regions)
	if n == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.sess.Deselect()
	case key.Matches(msg, m.keys.Next):
		m.cursor = (m.cursor + 1) % n
		m.sess.Hover(m.regions[m.cursor].ID)
	case key.Matches(msg, m.keys.Prev):
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.cursor = (m.cursor + n - 1) % n
		m.sess.Hover(m.regions[m.cursor].ID)
	case key.Matches(msg, m.keys.Select):
		if m.cursor >= 0 {
			m.sess.Activate(m.regions[m.cursor].ID)
		}
	}
}

func (m Model) askKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		q := m.askInput.Value()
		if strings.TrimSpace(q) == "" || m.asking {
			return m, nil
		}
		m.asking = true
		m.askInput.Reset()
		return m, m.ask(q)
	case tea.KeyEsc:
		m.askInput.Reset()
		m.answer = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.askInput, cmd = m.askInput.Update(msg)
	return m, cmd
}

func (m Model) scenarioKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.sess.Snapshot()
	if sc := snap.ActiveScenario; sc != nil {
		switch msg.Type {
		case tea.KeyEnter:
			if d, ok := qa.Decide(*sc, m.decisionInput.Value()); ok {
				m.decision = &d
			}
			return m, nil
		case tea.KeyEsc:
			m.closeScenario()
			return m, nil
		}
		var cmd tea.Cmd
		m.decisionInput, cmd = m.decisionInput.Update(msg)
		return m, cmd
	}

	n := len(m.cat.Scenarios)
	if n == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.scenarioCursor = (m.scenarioCursor + n - 1) % n
	case key.Matches(msg, m.keys.Next):
		m.scenarioCursor = (m.scenarioCursor + 1) % n
	case key.Matches(msg, m.keys.Select):
		cmd := m.openScenario(m.scenarioCursor)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openScenario(i int) tea.Cmd {
	if i < 0 || i >= len(m.cat.Scenarios) {
		return nil
	}
	m.scenarioCursor = i
	if !m.sess.OpenScenario(m.cat.Scenarios[i].ID) {
		return nil
	}
	m.decision = nil
	m.decisionInput.Reset()
	return m.decisionInput.Focus()
}

func (m *Model) closeScenario() {
	m.sess.CloseScenario()
	m.resetDecision()
}

func (m *Model) resetDecision() {
	m.decision = nil
	m.decisionInput.Reset()
	m.decisionInput.Blur()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// Motion with no button held moves hover on the explorer canvas.
	if msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonNone {
		if m.section != SectionExplorer || m.sess.Snapshot().SelectedRegion != nil {
			return nil
		}
		if l, ok := labelAt(m.labels(), msg.X, msg.Y); ok {
			m.sess.Hover(l.id)
		} else {
			m.sess.ClearHover()
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if msg.Y == 0 {
		if s, ok := tabAt(msg.X); ok {
			return m.setSection(s)
		}
		return nil
	}

	snap := m.sess.Snapshot()
	switch m.section {
	case SectionExplorer:
		if r := snap.SelectedRegion; r != nil {
			m.sess.ClickRegionPanel(m.regionModal(*r).target(msg.X, msg.Y))
			return nil
		}
		if l, ok := labelAt(m.labels(), msg.X, msg.Y); ok {
			for i, r := range m.regions {
				if r.ID == l.id {
					m.cursor = i
				}
			}
			m.sess.Activate(l.id)
		}
	case SectionScenarios:
		if sc := snap.ActiveScenario; sc != nil {
			if m.sess.ClickScenario(m.scenarioModal(*sc).target(msg.X, msg.Y)) {
				m.resetDecision()
			}
			return nil
		}
		if i := msg.Y - listTop; i >= 0 && i < len(m.cat.Scenarios) {
			return m.openScenario(i)
		}
	}
	return nil
}

func (m Model) labels() []label {
	return explorerLabels(m.regions, max(m.width, 40))
}

func (m Model) markdown(text string) string {
	if m.md == nil {
		return strings.TrimSpace(text)
	}
	if out, ok := m.mdCache[text]; ok {
		return out
	}
	out, err := m.md.Render(text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	out = strings.Trim(out, "\n")
	m.mdCache[text] = out
	return out
}
