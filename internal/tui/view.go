package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/model"
	"github.com/rcliao/brainsite/internal/reltime"
	"github.com/rcliao/brainsite/internal/session"
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.sess.Snapshot()

	var body string
	switch m.section {
	case SectionHero:
		body = m.renderHero()
	case SectionExplorer:
		body = m.renderExplorer(snap)
	case SectionAsk:
		body = m.renderAsk()
	case SectionScenarios:
		body = m.renderScenarios(snap)
	case SectionCoaching:
		body = m.renderCoaching()
	case SectionThoughts:
		body = m.renderThoughts()
	}

	var b strings.Builder
	b.WriteString(m.renderNav())
	b.WriteString("\n\n")
	b.WriteString(body)

	footer := []string{}
	if th := snap.EphemeralThought; th != nil {
		footer = append(footer, m.renderToast(*th))
	}
	if m.err != nil {
		footer = append(footer, errStyle.Render("error: "+m.err.Error()))
	}
	footer = append(footer, m.help.View(m.keys))

	used := lipgloss.Height(b.String()) + len(footer)
	if gap := m.height - used; gap > 0 {
		b.WriteString(strings.Repeat("\n", gap))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(footer, "\n"))
	return b.String()
}

func (m Model) renderNav() string {
	var tabs []string
	for _, s := range sections {
		if s == m.section {
			tabs = append(tabs, activeTabStyle.Render(tabText(s)))
		} else {
			tabs = append(tabs, tabStyle.Render(tabText(s)))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderHero() string {
	var b strings.Builder
	b.WriteString(heroStyle.Render("Inside my head"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Mental models, career decisions and the thinking behind them."))
	b.WriteString("\n\n")

	views, err := m.cat.RegionViews(catalog.ViewHeader)
	if err == nil {
		var names []string
		for _, r := range views {
			names = append(names, lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("● "+r.Name))
		}
		b.WriteString(strings.Join(names, "  "))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "%d regions · %d mental models · %d scenarios\n",
		len(m.cat.Regions), len(m.cat.MentalModels), len(m.cat.Scenarios))
	b.WriteString(dimStyle.Render("Press tab to explore."))
	return b.String()
}

func (m Model) renderExplorer(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Explore my brain"))
	b.WriteString("\n")
	if r, ok := m.sess.HoveredRegion(); ok {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render(r.Name))
		b.WriteString(dimStyle.Render(" · " + r.Area + " · click to open"))
	} else {
		b.WriteString(dimStyle.Render("Hover a region to see what lives there."))
	}
	b.WriteString("\n\n")

	if r := snap.SelectedRegion; r != nil {
		b.WriteString(m.regionModal(*r).view)
		return b.String()
	}
	b.WriteString(m.renderCanvas(snap))
	return b.String()
}

func (m Model) renderCanvas(snap session.Snapshot) string {
	byRow := make([][]label, canvasHeight)
	for _, l := range m.labels() {
		row := l.box.y - canvasTop
		byRow[row] = append(byRow[row], l)
	}

	colors := make(map[string]string, len(m.regions))
	for _, r := range m.regions {
		colors[r.ID] = r.Color
	}

	lines := make([]string, canvasHeight)
	for row, ls := range byRow {
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].box.x < ls[j].box.x })
		var line strings.Builder
		col := 0
		for _, l := range ls {
			if l.box.x < col {
				continue // overlaps the previous label
			}
			line.WriteString(strings.Repeat(" ", l.box.x-col))
			st := regionLabel(colors[l.id], snap.HoveredRegionID == l.id, snap.ActiveRippleRegionID == l.id)
			line.WriteString(st.Render(l.text))
			col = l.box.x + l.box.w
		}
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

func (m Model) regionModal(r model.Region) modal {
	body := []string{dimStyle.Render(r.Area), "", m.markdown(r.Description), "", "Topics:"}
	for _, t := range r.Topics {
		body = append(body, "  • "+t)
	}
	return buildModal(max(m.width, 40), canvasTop, r.Color, r.Name, body)
}

func (m Model) renderAsk() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ask me anything"))
	b.WriteString("\n\n")
	b.WriteString(m.askInput.View())
	b.WriteString("\n\n")

	switch {
	case m.asking:
		b.WriteString(dimStyle.Render("thinking..."))
	case m.answer != nil:
		b.WriteString(dimStyle.Render("> " + m.answer.Question))
		b.WriteString("\n")
		b.WriteString(m.answer.Reply)
		if m.answer.Model != nil {
			b.WriteString("\n\n")
			b.WriteString(titleStyle.Foreground(lipgloss.Color(m.answer.Model.Color)).Render(m.answer.Model.Name))
			for _, fp := range m.answer.Model.Framework {
				b.WriteString("\n  • " + fp.Point + dimStyle.Render(": "+fp.Detail))
			}
		}
	}
	return b.String()
}

func (m Model) renderScenarios(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Decision scenarios"))
	b.WriteString("\n\n")

	if sc := snap.ActiveScenario; sc != nil {
		b.WriteString(m.scenarioModal(*sc).view)
		return b.String()
	}

	for i, sc := range m.cat.Scenarios {
		cursor := "  "
		if i == m.scenarioCursor {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(sc.Color)).Render(sc.Title))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s · %s", sc.Category, sc.Difficulty)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) scenarioModal(sc model.Scenario) modal {
	body := []string{
		dimStyle.Render(sc.Category + " · " + sc.Difficulty),
		"",
		m.markdown(sc.Description),
		"",
		m.decisionInput.View(),
	}
	if d := m.decision; d != nil {
		body = append(body, "")
		for _, st := range d.Steps {
			mark := "○"
			if st.Addressed {
				mark = "●"
			}
			body = append(body, fmt.Sprintf("%s %d. %s", mark, st.Index, st.Text))
		}
		body = append(body, "", d.Summary)
	} else {
		body = append(body, "", dimStyle.Render("Framework:"))
		for i, step := range sc.Framework {
			body = append(body, fmt.Sprintf("  %d. %s", i+1, step))
		}
	}
	return buildModal(max(m.width, 40), listTop, sc.Color, sc.Title, body)
}

func (m Model) renderCoaching() string {
	var cards []string
	for i, p := range m.cat.Plans {
		st := planStyle
		if p.Highlighted {
			st = st.BorderStyle(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(p.Color))
		}
		if i == m.planCursor {
			st = st.BorderForeground(colorBrand)
		}
		lines := []string{
			titleStyle.Foreground(lipgloss.Color(p.Color)).Render(p.Name),
			dimStyle.Render(p.Subtitle),
			"",
			heroStyle.Render(p.Price),
			p.Description,
			"",
		}
		for _, f := range p.Features {
			lines = append(lines, "✓ "+f)
		}
		lines = append(lines, "", "["+p.CTA+"]")
		cards = append(cards, st.Render(strings.Join(lines, "\n")))
	}
	return titleStyle.Render("Work with me") + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderThoughts() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent thoughts"))
	b.WriteString("\n\n")
	if len(m.thoughts) == 0 {
		b.WriteString(dimStyle.Render("Nothing yet."))
		return b.String()
	}
	now := m.clock.Now()
	for _, th := range m.thoughts {
		color := "#6b7280"
		if r, ok := m.cat.Region(th.Region); ok {
			color = r.Color
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("● "))
		b.WriteString(th.Content)
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s · %s", th.Type, reltime.Format(th.Timestamp, now))))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderToast(th model.Thought) string {
	name := th.Region
	if r, ok := m.cat.Region(th.Region); ok {
		name = r.Name
	}
	return toastStyle.Render("● live  " + th.Content + dimStyle.Render("  · "+name))
}
