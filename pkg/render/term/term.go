// Package term draws masonry layouts for a character-cell terminal.
//
// Geometry is measured in cells: MinWidth is a column width in columns of
// text and MinHeight an item height in lines. [Card] renders one feed card
// into exactly that box; [Compose] stitches the rendered views of a layout
// into the lines visible in the current viewport.
package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// Theme holds the styles used to draw cards.
type Theme struct {
	Border lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Tag    lipgloss.Style
	Index  lipgloss.Style
}

var (
	colorCyan = lipgloss.Color("36")
	colorBlue = lipgloss.Color("75")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorText = lipgloss.Color("255")
)

// DefaultTheme returns the theme used by the browser.
func DefaultTheme() Theme {
	return Theme{
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		Body:   lipgloss.NewStyle().Foreground(colorText),
		Tag:    lipgloss.NewStyle().Foreground(colorBlue),
		Index:  lipgloss.NewStyle().Foreground(colorGray),
	}
}

// Card renders c into a box exactly width cells wide and height lines tall.
// Content that does not fit is truncated.
func Card(c feed.Card, width, height int, th Theme) string {
	frameW := th.Border.GetHorizontalFrameSize()
	frameH := th.Border.GetVerticalFrameSize()
	inner := max(1, width-frameW)
	lines := max(1, height-frameH)

	id := ansi.Truncate(c.ID, max(0, inner/3), "")
	content := []string{
		th.Title.Render(ansi.Truncate(c.Title, max(1, inner-ansi.StringWidth(id)-1), "…")) + " " +
			th.Index.Render(id),
	}
	for _, l := range wrap(c.Body, inner) {
		content = append(content, th.Body.Render(l))
	}
	if len(c.Tags) > 0 {
		content = append(content, th.Tag.Render(ansi.Truncate("#"+strings.Join(c.Tags, " #"), inner, "…")))
	}
	if len(content) > lines {
		content = content[:lines]
	}
	for len(content) < lines {
		content = append(content, "")
	}

	return th.Border.
		Width(width - th.Border.GetHorizontalBorderSize()).
		Height(lines).
		Render(strings.Join(content, "\n"))
}

// Compose returns the terminal lines visible for layout l. Each column is
// drawn from the top spacer downward; the window starts at the viewport's
// scroll offset and spans its visible extent. Gaps are blank cells.
func Compose(l *masonry.Layout[string]) string {
	g := l.Geometry
	visible := int(l.Viewport.VisibleExtent)
	if visible <= 0 || len(l.Columns) == 0 {
		return ""
	}

	width := int(g.MinWidth)
	gap := int(g.Gap)
	blocks := make([]string, 0, 2*len(l.Columns)-1)
	for c, col := range l.Columns {
		if c > 0 && gap > 0 {
			blocks = append(blocks, strings.Repeat(" ", gap))
		}
		blocks = append(blocks, columnBlock(col, width, int(g.MinHeight), gap))
	}
	joined := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, blocks...), "\n")

	start := int(l.Viewport.ScrollOffset - l.TopSpacer)
	out := make([]string, 0, visible)
	for i := start; i < start+visible; i++ {
		if i >= 0 && i < len(joined) {
			out = append(out, joined[i])
		} else {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

func columnBlock(col masonry.Column[string], width, height, gap int) string {
	blank := strings.Repeat(" ", width)
	var lines []string
	for k, e := range col.Items {
		if k > 0 {
			for range gap {
				lines = append(lines, blank)
			}
		}
		view := strings.Split(e.View, "\n")
		for i := range height {
			if i < len(view) {
				lines = append(lines, view[i])
			} else {
				lines = append(lines, blank)
			}
		}
	}
	if len(lines) == 0 {
		return blank
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func wrap(s string, width int) []string {
	if s == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
