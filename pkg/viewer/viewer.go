// Package viewer is a terminal UI that steps through a simulation turn by
// turn, showing the moves of each turn and the load of every zone.
package viewer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/render"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	movesBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

// PlayInterval is the delay between frames while playing.
const PlayInterval = 400 * time.Millisecond

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Play  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/l", "next turn"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←/h", "previous turn"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "start"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "end"),
	),
	Play: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Play, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.Play, k.Quit},
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(PlayInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of the viewer.
type Model struct {
	g       *graph.Graph
	title   string
	frames  []scheduler.Frame
	lines   []string // lines[i] is the moves of frame i+1
	failure string

	current int
	playing bool
	zones   table.Model
	help    help.Model
	keys    keyMap
}

// New builds a viewer for a finished (or deadlocked) simulation. runErr is
// the error Simulate returned alongside the report, if any.
func New(title string, g *graph.Graph, report *flyin.Report, runErr error) (Model, error) {
	if report == nil || report.Result == nil {
		return Model{}, fmt.Errorf("viewer: no simulation result")
	}
	frames, err := scheduler.Replay(g, report.Agents, report.Result.Log)
	if err != nil {
		return Model{}, fmt.Errorf("viewer: %w", err)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Zone", Width: 16},
			{Title: "Type", Width: 11},
			{Title: "Drones", Width: 7},
			{Title: "Capacity", Width: 9},
		}),
		table.WithHeight(min(g.NodeCount(), 15)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(s)

	m := Model{
		g:      g,
		title:  title,
		frames: frames,
		lines:  render.New(g, render.Options{}).Lines(report.Result.Log),
		zones:  t,
		help:   help.New(),
		keys:   keys,
	}
	if runErr != nil {
		m.failure = runErr.Error()
	}
	m.refresh()
	return m, nil
}

// Turn returns the turn of the frame on screen; 0 is the initial placement.
func (m Model) Turn() int {
	return m.frames[m.current].Turn
}

// Turns returns the number of turns in the log.
func (m Model) Turns() int {
	return len(m.frames) - 1
}

// Playing reports whether frames advance on their own.
func (m Model) Playing() bool {
	return m.playing
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.current == len(m.frames)-1 {
			m.playing = false
			return m, nil
		}
		m.seek(m.current + 1)
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.seek(m.current + 1)
		case key.Matches(msg, m.keys.Prev):
			m.seek(m.current - 1)
		case key.Matches(msg, m.keys.First):
			m.seek(0)
		case key.Matches(msg, m.keys.Last):
			m.seek(len(m.frames) - 1)
		case key.Matches(msg, m.keys.Play):
			m.playing = !m.playing
			if m.playing {
				if m.current == len(m.frames)-1 {
					m.seek(0)
				}
				return m, tickCmd()
			}
		}
	}
	return m, nil
}

func (m *Model) seek(i int) {
	m.current = max(0, min(i, len(m.frames)-1))
	m.refresh()
}

func (m *Model) refresh() {
	frame := m.frames[m.current]
	rows := make([]table.Row, 0, m.g.NodeCount())
	for _, n := range m.g.Nodes() {
		capacity := "∞"
		if n.Bounded() {
			capacity = strconv.Itoa(n.Capacity)
		}
		rows = append(rows, table.Row{
			n.Name,
			n.Category.String(),
			strconv.Itoa(frame.NodeLoad[n.ID]),
			capacity,
		})
	}
	m.zones.SetRows(rows)
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("fly-in · " + m.title))
	s.WriteString("\n\n")

	frame := m.frames[m.current]
	status := fmt.Sprintf("Turn %d/%d", frame.Turn, m.Turns())
	if m.playing {
		status += " ▶"
	}
	s.WriteString(headerStyle.Render(status))
	s.WriteString("\n\n")

	moves := "initial placement"
	if m.current > 0 {
		moves = m.lines[m.current-1]
	}
	s.WriteString(movesBoxStyle.Render(moves))
	s.WriteString("\n\n")

	s.WriteString(m.zones.View())
	if transit := m.inTransit(frame); transit != "" {
		s.WriteString("\n\nIn transit: " + transit)
	}

	if m.failure != "" && m.current == len(m.frames)-1 {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render("✗ " + m.failure))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return contentStyle.Render(s.String())
}

func (m Model) inTransit(frame scheduler.Frame) string {
	var parts []string
	for _, p := range frame.Positions {
		if p.Edge == graph.None {
			continue
		}
		parts = append(parts, fmt.Sprintf("D%d→%s", p.Agent, m.g.Node(p.Target).Name))
	}
	return strings.Join(parts, " ")
}

// Run starts the viewer on the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
