package game

import (
	"scoop-drop/internal/clock"
	"scoop-drop/internal/state"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutopilot_SteersTowardMatchingSlot(t *testing.T) {
	e := newTestEngine(t)
	ap := NewAutopilot(e.State, false)

	place(e, 0, 4, 0) // berry over strawberry; berry is slot 4
	snap := ap.Snapshot()
	assert.True(t, snap.MoveRight)
	assert.False(t, snap.MoveLeft)
	assert.False(t, snap.HardDrop)

	place(e, 4, 0, 0)
	snap = ap.Snapshot()
	assert.True(t, snap.MoveLeft)

	place(e, 2, 2, 0)
	assert.Equal(t, InputSnapshot{}, ap.Snapshot())
	assert.False(t, ap.ConsumeHardDrop(), "drop disabled")
}

func TestAutopilot_DropsWhenLinedUp(t *testing.T) {
	e := newTestEngine(t)
	ap := NewAutopilot(e.State, true)

	place(e, 1, 1, 0)
	assert.True(t, ap.Snapshot().HardDrop)
	assert.True(t, ap.ConsumeHardDrop())

	place(e, 0, 1, 0)
	assert.False(t, ap.ConsumeHardDrop())

	e.State.Blocks = nil
	assert.Equal(t, InputSnapshot{}, ap.Snapshot())
	assert.False(t, ap.ConsumeHardDrop())
}

func TestAutopilot_PicksNearestSlot(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.SlotCount = 10
	cfg.FieldWidth = 1000
	st, err := state.NewState(cfg)
	require.NoError(t, err)
	require.NoError(t, st.AddBlock(state.Block{X: st.SpawnX(8), Flavor: st.Palette[0], FlavorIndex: 0}))

	// Strawberry sits in slots 0 and 5; slot 5 is closer to slot 8.
	target, ok := NewAutopilot(st, false).target(*st.Active())
	require.True(t, ok)
	assert.Equal(t, st.SpawnX(5), target)
}

// At 30 matches the fall speed is 5, slow enough for a block to cross the
// whole field before it reaches the slot row.
func TestAutopilot_PlaysWithoutLosing(t *testing.T) {
	const wantMatches = 30
	for _, seed := range []uint64{1, 2, 3} {
		for _, drop := range []bool{true, false} {
			clk := &clock.Manual{}
			sess, err := InitSession(state.DefaultConfig(),
				WithClock(clk), WithSeed(seed), WithAutopilot(drop), WithLogger(discardLogger()))
			require.NoError(t, err)

			for range 10000 {
				if sess.State.Score.Matches >= wantMatches {
					break
				}
				require.Equal(t, 1, clk.Advance(1), "seed=%d drop=%v lost at %d matches",
					seed, drop, sess.State.Score.Matches)
			}
			assert.Equal(t, wantMatches, sess.State.Score.Matches, "seed=%d drop=%v", seed, drop)
			assert.Equal(t, state.Playing, sess.Phase())
			assert.InDelta(t, 5.0, sess.State.Score.FallSpeed, 1e-9)
		}
	}
}
