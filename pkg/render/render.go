// Package render prints a move log in the turn-by-turn text format: one line
// per turn, moves separated by spaces. A node entry or a completed transit is
// written D<id>-<zone>; entering a restricted connection is written
// D<id>-<from>-<to>.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
)

// palette maps the color names accepted in map files to terminal colors.
var palette = map[string]string{
	"black":   "#000000",
	"blue":    "#3B82F6",
	"brown":   "#A52A2A",
	"crimson": "#DC143C",
	"cyan":    "#00FFFF",
	"gold":    "#FFD700",
	"gray":    "#888888",
	"green":   "#00FF00",
	"grey":    "#888888",
	"lime":    "#32CD32",
	"magenta": "#FF00FF",
	"maroon":  "#800000",
	"orange":  "#FFA500",
	"pink":    "#FFC0CB",
	"purple":  "#A020F0",
	"red":     "#FF0000",
	"violet":  "#EE82EE",
	"white":   "#FFFFFF",
	"yellow":  "#FFFF00",
}

// Options controls rendering.
type Options struct {
	// Color styles each move with its destination zone's color.
	Color bool
	// Output is the terminal the colors are chosen for. Defaults to stdout.
	Output io.Writer
}

// Renderer formats turns of one graph.
type Renderer struct {
	g      *graph.Graph
	styles []*lipgloss.Style // per node; nil when uncolored
}

// New creates a renderer for g.
func New(g *graph.Graph, opts Options) *Renderer {
	r := &Renderer{g: g}
	if !opts.Color {
		return r
	}

	var lr *lipgloss.Renderer
	if opts.Output != nil {
		lr = lipgloss.NewRenderer(opts.Output)
	} else {
		lr = lipgloss.DefaultRenderer()
	}
	r.styles = make([]*lipgloss.Style, g.NodeCount())
	for _, n := range g.Nodes() {
		c, ok := TerminalColor(n.Color)
		if !ok {
			continue
		}
		style := lr.NewStyle().Foreground(c)
		r.styles[n.ID] = &style
	}
	return r
}

// TerminalColor resolves a map file color name. Bare ANSI color numbers are
// passed through.
func TerminalColor(name string) (lipgloss.Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	if hex, ok := palette[name]; ok {
		return lipgloss.Color(hex), true
	}
	if strings.Trim(name, "0123456789") == "" {
		return lipgloss.Color(name), true
	}
	return "", false
}

// Token formats a single move.
func (r *Renderer) Token(m scheduler.Move) string {
	var s string
	switch m.Action {
	case scheduler.EnterEdge:
		s = fmt.Sprintf("D%d-%s", m.Agent, r.g.EdgeName(m.Edge, m.From))
	default:
		s = fmt.Sprintf("D%d-%s", m.Agent, r.g.Node(m.To).Name)
	}
	if r.styles != nil {
		if style := r.styles[m.To]; style != nil {
			return style.Render(s)
		}
	}
	return s
}

// Line formats one turn.
func (r *Renderer) Line(t scheduler.Turn) string {
	tokens := make([]string, len(t.Moves))
	for i, m := range t.Moves {
		tokens[i] = r.Token(m)
	}
	return strings.Join(tokens, " ")
}

// Lines formats a whole log.
func (r *Renderer) Lines(log []scheduler.Turn) []string {
	out := make([]string, len(log))
	for i, t := range log {
		out[i] = r.Line(t)
	}
	return out
}

// Write prints a whole log to w, one turn per line.
func (r *Renderer) Write(w io.Writer, log []scheduler.Turn) error {
	bw := bufio.NewWriter(w)
	for _, t := range log {
		if _, err := bw.WriteString(r.Line(t)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
