// Package tui hosts a masonry engine inside a bubbletea program.
//
// The terminal window is the scroll container: its width drives the column
// count and every line below the status bar is visible extent. Geometry is
// measured in terminal cells.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
	"github.com/matzehuels/recycleview/pkg/render/term"
)

// DefaultGeometry sizes cards for an 80-column terminal.
var DefaultGeometry = masonry.Geometry{MinWidth: 28, MinHeight: 6, Gap: 1}

// wheelStep is how many lines one mouse wheel notch scrolls.
const wheelStep = 3

var (
	colorCyan = lipgloss.Color("36")
	colorRed  = lipgloss.Color("167")
	colorDim  = lipgloss.Color("240")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

type loadedMsg struct{ err error }

// Model is the bubbletea model for the card browser.
type Model struct {
	ctx     context.Context
	engine  *masonry.Engine[feed.Card, string]
	surface *masonry.Emitter
	loader  feed.Loader

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	width   int
	height  int
	loading bool
	err     error
}

// New builds an engine over loader, mounts it on a fresh surface, and
// returns the model. Call [Model.Close] once the program exits.
func New(ctx context.Context, loader feed.Loader, g masonry.Geometry, logger *log.Logger) (Model, error) {
	theme := term.DefaultTheme()
	width, height := int(g.MinWidth), int(g.MinHeight)

	engine, err := masonry.New(masonry.Options[feed.Card, string]{
		MinWidth:   g.MinWidth,
		MinHeight:  g.MinHeight,
		Gap:        g.Gap,
		RenderItem: func(c feed.Card) string { return term.Card(c, width, height, theme) },
		Load:       loader.Load,
		Logger:     logger,
	})
	if err != nil {
		return Model{}, err
	}

	surface := masonry.NewEmitter()
	if err := engine.Mount(ctx, surface); err != nil {
		return Model{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return Model{
		ctx:     ctx,
		engine:  engine,
		surface: surface,
		loader:  loader,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: true,
	}, nil
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *masonry.Engine[feed.Card, string] { return m.engine }

// Close unmounts the engine. A load still in flight is discarded.
func (m Model) Close() { m.engine.Unmount() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.engine.Load(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			m.scrollBy(1)
		case key.Matches(msg, m.keys.Up):
			m.scrollBy(-1)
		case key.Matches(msg, m.keys.PageDown):
			m.scrollBy(float64(m.bodyHeight()))
		case key.Matches(msg, m.keys.PageUp):
			m.scrollBy(-float64(m.bodyHeight()))
		case key.Matches(msg, m.keys.Top):
			m.surface.Scroll(0)
		case key.Matches(msg, m.keys.Bottom):
			m.surface.Scroll(m.engine.MaxScroll())
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.scrollBy(wheelStep)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()

	case loadedMsg:
		m.loading = false
		m.err = msg.err

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) scrollBy(delta float64) {
	m.surface.Scroll(m.engine.Viewport().ScrollOffset + delta)
}

func (m Model) resize() {
	m.surface.Resize(float64(m.width), float64(m.bodyHeight()))
}

// bodyHeight is the number of lines left for cards after the status bar and
// the help footer.
func (m Model) bodyHeight() int {
	return max(0, m.height-1-lipgloss.Height(m.help.View(m.keys)))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch {
	case m.err != nil:
		body = errorStyle.Render("✗ " + errors.UserMessage(m.err))
	case m.loading:
		body = m.spinner.View() + " " + statusStyle.Render("loading "+m.loader.Location())
	default:
		body = term.Compose(m.engine.Layout())
	}
	body = lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.status(), body, m.help.View(m.keys))
}

func (m Model) status() string {
	l := m.engine.Layout()
	parts := []string{m.loader.Kind() + ":" + m.loader.Location()}
	switch {
	case l.ItemCount == 0:
		parts = append(parts, "no items")
	case l.Range.Empty():
		parts = append(parts, fmt.Sprintf("%d items", l.ItemCount))
	default:
		parts = append(parts, fmt.Sprintf("%d–%d of %d", l.Range.Start+1, l.Range.End+1, l.ItemCount))
	}
	parts = append(parts,
		fmt.Sprintf("%d cols", l.ColumnCount()),
		fmt.Sprintf("%d recomputes", m.engine.Stats().Recomputes),
	)
	line := titleStyle.Render("recycleview") + " " + statusStyle.Render(strings.Join(parts, " · "))
	return lipgloss.NewStyle().MaxWidth(max(1, m.width)).Render(line)
}

// Run starts an alt-screen program for m and unmounts the engine on exit.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.Close()
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
