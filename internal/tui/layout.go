package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rcliao/brainsite/internal/disclosure"
	"github.com/rcliao/brainsite/internal/model"
)

// Screen rows. The navigation bar is row 0 and every section body starts
// at bodyTop.
const (
	bodyTop      = 2
	canvasTop    = bodyTop + 3
	canvasHeight = 12
	listTop      = bodyTop + 2
	modalWidth   = 60
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// label is a region name placed on the explorer canvas.
type label struct {
	id   string
	text string
	box  rect
}

// explorerLabels places one label per region. Positions are percentages
// of the canvas; labels are clamped inside it.
func explorerLabels(regions []model.RegionView, width int) []label {
	out := make([]label, 0, len(regions))
	for _, r := range regions {
		text := " " + r.Name + " "
		w := lipgloss.Width(text)
		col := int(r.Position.X / 100 * float64(width-w))
		row := int(r.Position.Y/100*float64(canvasHeight-1) + 0.5)
		col = clamp(col, 0, max(width-w, 0))
		row = clamp(row, 0, canvasHeight-1)
		out = append(out, label{id: r.ID, text: text, box: rect{x: col, y: canvasTop + row, w: w, h: 1}})
	}
	return out
}

// labelAt returns the label under a screen cell. Earlier labels win.
func labelAt(labels []label, x, y int) (label, bool) {
	for _, l := range labels {
		if l.box.contains(x, y) {
			return l, true
		}
	}
	return label{}, false
}

// tabAt maps a column of the navigation bar to a section.
func tabAt(x int) (Section, bool) {
	col := 0
	for _, s := range sections {
		w := lipgloss.Width(tabText(s))
		if x >= col && x < col+w {
			return s, true
		}
		col += w
	}
	return 0, false
}

func tabText(s Section) string { return " " + s.String() + " " }

const closeText = "[x]"

// modal is a rendered overlay with the screen areas clicks are tested
// against.
type modal struct {
	view  string
	box   rect
	close rect
}

// target classifies a click relative to the modal.
func (m modal) target(x, y int) disclosure.Target {
	switch {
	case !m.box.contains(x, y):
		return disclosure.Backdrop
	case m.close.contains(x, y):
		return disclosure.CloseButton
	default:
		return disclosure.Content
	}
}

// buildModal boxes title and body lines, centred horizontally within
// screenWidth with its top border on row top.
func buildModal(screenWidth, top int, accent, title string, body []string) modal {
	bw := min(modalWidth, max(screenWidth-2, 24))
	inner := bw - 4

	head := titleStyle.Foreground(lipgloss.Color(accent)).Render(title)
	gap := max(inner-lipgloss.Width(head)-len(closeText), 1)
	lines := append([]string{head + strings.Repeat(" ", gap) + closeText}, body...)

	box := modalStyle.BorderForeground(lipgloss.Color(accent)).Width(bw - 2).Render(strings.Join(lines, "\n"))
	boxW := lipgloss.Width(box)
	x0 := max((screenWidth-boxW)/2, 0)

	m := modal{
		view: indent(box, x0),
		box:  rect{x: x0, y: top, w: boxW, h: lipgloss.Height(box)},
	}
	// The close button sits on the first content row, below the border.
	rows := strings.Split(box, "\n")
	if len(rows) > 1 {
		plain := ansi.Strip(rows[1])
		if i := strings.Index(plain, closeText); i >= 0 {
			m.close = rect{x: x0 + lipgloss.Width(plain[:i]), y: top + 1, w: len(closeText), h: 1}
		}
	}
	return m
}

func indent(s string, n int) string {
	if n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
