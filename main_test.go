package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"scoop-drop/internal/game"
	"scoop-drop/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, state.DefaultConfig(), opts.cfg)
	assert.Equal(t, 8, opts.hold)
	assert.Equal(t, 3600, opts.ticks)
	assert.False(t, opts.headless)
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-width=500", "-slots=3", "-colors=3",
		"-palette=a=#111111,b=#222222,c=#333333",
		"-tick-rate=30", "-seed=9", "-hold=0", "-headless", "-ticks=10",
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, opts.cfg.FieldWidth)
	assert.Equal(t, 3, opts.cfg.SlotCount)
	assert.Equal(t, 3, opts.cfg.PaletteSize)
	assert.Len(t, opts.cfg.Palette, 3)
	assert.Equal(t, "#222222", opts.cfg.Palette[1].Hex)
	assert.Equal(t, 30, opts.cfg.TickRate)
	assert.Equal(t, uint64(9), opts.seed)
	assert.Equal(t, 0, opts.hold)
	assert.True(t, opts.headless)
	assert.Equal(t, 10, opts.ticks)
}

func TestParseFlags_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-palette=#XYZ"},
		{"-slots", "true"},
		{"-slots=five"},
	} {
		_, err := parseFlags(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestRunHeadless(t *testing.T) {
	opts, err := parseFlags([]string{"-seed=5", "-ticks=600", "-demo"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runHeadless(opts, quietLogger(), &out))
	assert.True(t, strings.HasPrefix(out.String(), "ticks=600 phase=playing"), out.String())

	opts.cfg.SlotCount = 0
	assert.ErrorIs(t, runHeadless(opts, quietLogger(), &out), state.ErrInvalidConfig)
}

func newTestModel(t *testing.T, args ...string) *LocalState {
	t.Helper()
	opts, err := parseFlags(append([]string{"-seed=1"}, args...))
	require.NoError(t, err)
	m, err := initialModel(opts, quietLogger())
	require.NoError(t, err)
	return m
}

func TestModel_KeysSteerTheBlock(t *testing.T) {
	m := newTestModel(t)
	require.NotNil(t, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, m.Input.Snapshot().MoveLeft)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	snap := m.Input.Snapshot()
	assert.True(t, snap.MoveRight)
	assert.False(t, snap.MoveLeft)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.True(t, m.Input.Snapshot().HardDrop)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_RestartAfterGameOver(t *testing.T) {
	m := newTestModel(t)
	st := m.Session.State

	// Enter does nothing mid-round.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, st.Round)

	st.Blocks[0] = state.Block{X: st.SpawnX(0), Y: 489, Flavor: st.Palette[1], FlavorIndex: 1}
	_, err := m.Session.Tick()
	require.NoError(t, err)
	require.Equal(t, state.GameOver, m.Session.Phase())
	assert.False(t, m.Clock.Running())
	assert.Contains(t, m.View(), "Game over! Final score: 0")

	// Steering is ignored while the round is over.
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, m.Input.Snapshot().MoveLeft)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd, "restart schedules the next tick")
	assert.Equal(t, state.Playing, m.Session.Phase())
	assert.True(t, m.Clock.Running())
	assert.Equal(t, 2, st.Round)
	assert.NotContains(t, m.View(), "Game over")
}

func TestModel_PresentTracksEffects(t *testing.T) {
	m := newTestModel(t)

	m.Present(game.Frame{TickResult: game.TickResult{Events: []game.Event{
		{Kind: game.EventMatch, X: 40, Y: 500, Flavor: state.DefaultPalette()[0]},
		{Kind: game.EventBonus},
	}}})
	assert.Len(t, m.particles, 10)
	assert.Equal(t, bonusFrames, m.bonusTicks)

	// Sprinkles are gone after about 50 frames.
	for range 51 {
		m.Present(game.Frame{})
	}
	assert.Empty(t, m.particles)
	assert.Equal(t, bonusFrames-51, m.bonusTicks)
}

func TestModel_ViewDrawsField(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "SCORE: 0")
	assert.Contains(t, view, "ROUND: 1")
	assert.Contains(t, view, "█")
	assert.Contains(t, view, "restart")

	demo := newTestModel(t, "-demo")
	assert.Nil(t, demo.Input)
	assert.Contains(t, demo.View(), "autopilot")
}

func TestGrid_Fill(t *testing.T) {
	g := newGrid(40, 40) // 4x2 cells
	g.fill(10, 0, 30, 20, '#', "#FFFFFF")

	assert.Equal(t, 4, g.cols)
	assert.Equal(t, 2, g.rows)
	assert.Equal(t, cell{ch: '#', hex: "#FFFFFF"}, g.cells[0][1])
	assert.Equal(t, cell{ch: '#', hex: "#FFFFFF"}, g.cells[0][2])
	assert.Equal(t, ' ', g.cells[0][0].ch)
	assert.NotEqual(t, '#', g.cells[1][1].ch)

	// Out of field writes are dropped.
	g.set(-5, 10, '*', "")
	g.set(100, 10, '*', "")
	g.fill(-100, -100, -50, -50, '*', "")
}
