// Package mapfile reads the line-oriented drone map format:
//
//	nb_drones: 4
//	start_hub: base 0 0 [color=green]
//	hub: gate 1 0 [zone=restricted max_drones=2]
//	end_hub: goal 2 0
//	connection: base-gate [max_link_capacity=2]
//	connection: gate-goal
//
// Blank lines and lines starting with '#' are ignored. Zones must be declared
// before the first connection.
package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/validation"
)

const (
	DefaultMaxDrones       = 1
	DefaultMaxLinkCapacity = 1
)

const (
	prefixDrones     = "nb_drones:"
	prefixStart      = "start_hub:"
	prefixEnd        = "end_hub:"
	prefixHub        = "hub:"
	prefixConnection = "connection:"
)

var (
	zoneKeys       = []string{"color", "max_drones", "zone"}
	connectionKeys = []string{"max_link_capacity"}
)

type phase int

const (
	phaseHeader phase = iota
	phaseZones
	phaseConnections
)

// Map is a parsed map file.
type Map struct {
	Drones int
	Graph  *graph.Graph
}

type zoneDecl struct {
	line int
	spec graph.NodeSpec
}

type connectionDecl struct {
	line int
	spec graph.EdgeSpec
}

type parser struct {
	phase       phase
	drones      int
	zones       []zoneDecl
	names       map[string]int
	start, end  int // line numbers, 0 until declared
	connections []connectionDecl
	pairs       map[[2]string]int
}

// Parse reads a map from r and builds its graph.
func Parse(r io.Reader) (*Map, error) {
	p := &parser{
		names: make(map[string]int),
		pairs: make(map[[2]string]int),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.line(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return p.finish()
}

// ParseString is Parse over an in-memory map.
func ParseString(s string) (*Map, error) {
	return Parse(strings.NewReader(s))
}

func (p *parser) line(n int, line string) error {
	switch {
	case p.phase == phaseHeader:
		rest, ok := strings.CutPrefix(line, prefixDrones)
		if !ok {
			return syntaxError(n, "first line must be %s <positive integer>", prefixDrones)
		}
		drones, err := positiveInt(rest, "nb_drones")
		if err != nil {
			return wrapError(n, "", err)
		}
		if err := validation.ValidateFleetSize(drones); err != nil {
			return wrapError(n, "nb_drones", err)
		}
		p.drones = drones
		p.phase = phaseZones
		return nil

	case strings.HasPrefix(line, prefixConnection):
		p.phase = phaseConnections
		return p.connection(n, strings.TrimPrefix(line, prefixConnection))

	case p.phase == phaseConnections:
		return syntaxError(n, "expected %s after the first connection", prefixConnection)
	}

	for _, kind := range []struct {
		prefix   string
		category graph.Category
	}{
		{prefixStart, graph.Start},
		{prefixEnd, graph.End},
		{prefixHub, graph.Normal},
	} {
		if rest, ok := strings.CutPrefix(line, kind.prefix); ok {
			return p.zone(n, kind.prefix, kind.category, rest)
		}
	}
	return syntaxError(n, "expected %s, %s, %s or %s", prefixStart, prefixEnd, prefixHub, prefixConnection)
}

func (p *parser) zone(n int, prefix string, category graph.Category, rest string) error {
	rest, meta, err := splitMetadata(rest, zoneKeys)
	if err != nil {
		return wrapError(n, "", err)
	}

	fields := strings.Fields(rest)
	kind := strings.TrimSuffix(prefix, ":")
	switch {
	case len(fields) < 3:
		return syntaxError(n, "%s needs a name and two integer coordinates", kind)
	case len(fields) > 3:
		return syntaxError(n, "unexpected %q after coordinates (metadata goes in [...])", fields[3])
	}
	x, errX := strconv.Atoi(fields[1])
	y, errY := strconv.Atoi(fields[2])
	if errX != nil || errY != nil {
		return syntaxError(n, "coordinates must be integers")
	}

	req := validation.HubRequest{
		Name:      fields[0],
		Zone:      strings.ToLower(meta["zone"]),
		Color:     meta["color"],
		MaxDrones: DefaultMaxDrones,
	}
	if v, ok := meta["max_drones"]; ok {
		if req.MaxDrones, err = positiveInt(v, "max_drones"); err != nil {
			return wrapError(n, "", err)
		}
	}
	if err := validation.ValidateHubRequest(&req); err != nil {
		return wrapError(n, "zone "+fields[0], err)
	}

	if prev, dup := p.names[req.Name]; dup {
		return syntaxError(n, "zone %q already declared on line %d", req.Name, prev)
	}
	switch category {
	case graph.Start:
		if p.start != 0 {
			return syntaxError(n, "second %s (first on line %d)", kind, p.start)
		}
		p.start = n
	case graph.End:
		if p.end != 0 {
			return syntaxError(n, "second %s (first on line %d)", kind, p.end)
		}
		p.end = n
	default:
		if category, err = graph.ParseCategory(req.Zone); err != nil {
			return wrapError(n, "", err)
		}
	}

	p.names[req.Name] = n
	p.zones = append(p.zones, zoneDecl{
		line: n,
		spec: graph.NodeSpec{
			Name:     req.Name,
			Category: category,
			Capacity: req.MaxDrones,
			Color:    req.Color,
			X:        x,
			Y:        y,
		},
	})
	return nil
}

func (p *parser) connection(n int, rest string) error {
	rest, meta, err := splitMetadata(rest, connectionKeys)
	if err != nil {
		return wrapError(n, "", err)
	}
	rest = strings.TrimSpace(rest)
	from, to, ok := strings.Cut(rest, "-")
	if !ok {
		return syntaxError(n, "connection must be written zone1-zone2")
	}

	req := validation.ConnectionRequest{
		From:            strings.TrimSpace(from),
		To:              strings.TrimSpace(to),
		MaxLinkCapacity: DefaultMaxLinkCapacity,
	}
	if v, ok := meta["max_link_capacity"]; ok {
		if req.MaxLinkCapacity, err = positiveInt(v, "max_link_capacity"); err != nil {
			return wrapError(n, "", err)
		}
	}
	if err := validation.ValidateConnectionRequest(&req); err != nil {
		return wrapError(n, "connection "+rest, err)
	}

	for _, name := range []string{req.From, req.To} {
		if _, ok := p.names[name]; !ok {
			return syntaxError(n, "connection references undeclared zone %q", name)
		}
	}
	key := [2]string{min(req.From, req.To), max(req.From, req.To)}
	if prev, dup := p.pairs[key]; dup {
		return syntaxError(n, "duplicate connection %s-%s (first on line %d)", req.From, req.To, prev)
	}
	p.pairs[key] = n

	p.connections = append(p.connections, connectionDecl{
		line: n,
		spec: graph.EdgeSpec{From: req.From, To: req.To, Capacity: req.MaxLinkCapacity},
	})
	return nil
}

func (p *parser) finish() (*Map, error) {
	switch {
	case p.phase == phaseHeader:
		return nil, syntaxError(0, "missing %s line", prefixDrones)
	case p.start == 0:
		return nil, syntaxError(0, "missing %s line", prefixStart)
	case p.end == 0:
		return nil, syntaxError(0, "missing %s line", prefixEnd)
	}

	b := graph.NewBuilder()
	for _, z := range p.zones {
		if _, err := b.AddNode(z.spec); err != nil {
			return nil, wrapError(z.line, "", err)
		}
	}
	for _, c := range p.connections {
		if _, err := b.AddEdge(c.spec); err != nil {
			return nil, wrapError(c.line, "", err)
		}
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build map graph: %w", err)
	}
	return &Map{Drones: p.drones, Graph: g}, nil
}

// splitMetadata cuts a trailing "[key=value ...]" block off s.
func splitMetadata(s string, allowed []string) (string, map[string]string, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.Contains(s, "]") {
			return "", nil, fmt.Errorf("unbalanced ']'")
		}
		return s, nil, nil
	}
	block := strings.TrimSpace(s[open:])
	if !strings.HasSuffix(block, "]") {
		return "", nil, fmt.Errorf("metadata must end with ']'")
	}
	inner := block[1 : len(block)-1]
	if strings.ContainsAny(inner, "[]") {
		return "", nil, fmt.Errorf("nested brackets in metadata")
	}

	meta := make(map[string]string)
	for _, token := range strings.Fields(inner) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" || value == "" {
			return "", nil, fmt.Errorf("metadata %q must be key=value", token)
		}
		if !slices.Contains(allowed, key) {
			return "", nil, fmt.Errorf("unknown metadata key %q (allowed: %s)", key, strings.Join(allowed, ", "))
		}
		meta[key] = value
	}
	return s[:open], meta, nil
}

func positiveInt(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s is empty", name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return n, nil
}
