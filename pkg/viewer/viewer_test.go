package viewer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
)

func linearModel(t *testing.T) Model {
	t.Helper()
	m, err := mapfile.ParseFile(filepath.Join("..", "mapfile", "testdata", "linear.txt"))
	require.NoError(t, err)
	report, err := flyin.Simulate(context.Background(), m, nil)
	require.NoError(t, err)
	model, err := New("linear", m.Graph, report, nil)
	require.NoError(t, err)
	return model
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m := linearModel(t)
	assert.Equal(t, 0, m.Turn())
	assert.Equal(t, 3, m.Turns())
	assert.Contains(t, m.View(), "Turn 0/3")
	assert.Contains(t, m.View(), "initial placement")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Turn())
	assert.Contains(t, m.View(), "Turn 1/3")
	assert.Contains(t, m.View(), "D1-relay")

	m, _ = press(t, m, runes("G"))
	assert.Equal(t, 3, m.Turn())
	assert.Contains(t, m.View(), "D2-goal")

	// Clamped at both ends.
	m, _ = press(t, m, runes("l"))
	assert.Equal(t, 3, m.Turn())
	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Turn())
}

func TestZoneTable(t *testing.T) {
	m := linearModel(t)
	rows := m.zones.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "base", rows[0][0])
	assert.Equal(t, "2", rows[0][2], "both drones start at the base")
	assert.Equal(t, "∞", rows[0][3])

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	rows = m.zones.Rows()
	assert.Equal(t, "1", rows[0][2])
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "1", rows[1][3])
}

func TestPlayback(t *testing.T) {
	m := linearModel(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.Playing())
	assert.NotNil(t, cmd)

	for i := 0; i < 3; i++ {
		next, _ := m.Update(tickMsg{})
		m = next.(Model)
	}
	assert.Equal(t, 3, m.Turn())

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	assert.False(t, m.Playing(), "playback stops on the last turn")
	assert.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	m := linearModel(t)
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFailureShownOnLastFrame(t *testing.T) {
	m, err := mapfile.ParseFile(filepath.Join("..", "mapfile", "testdata", "linear.txt"))
	require.NoError(t, err)
	report, err := flyin.Simulate(context.Background(), m, nil)
	require.NoError(t, err)

	model, err := New("linear", m.Graph, report, errors.New("deadlock at turn 4"))
	require.NoError(t, err)
	assert.NotContains(t, model.View(), "deadlock at turn 4")

	model, _ = press(t, model, runes("G"))
	assert.Contains(t, model.View(), "deadlock at turn 4")
}

func TestNew_NoResult(t *testing.T) {
	_, err := New("x", nil, nil, nil)
	assert.Error(t, err)
}
