package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"scoop-drop/internal/state"
)

var ErrNotInitialized = errors.New("engine has no session state")

type EventKind int

const (
	EventMatch EventKind = iota + 1
	EventBonus
	EventMismatch
)

func (k EventKind) String() string {
	switch k {
	case EventMatch:
		return "match"
	case EventBonus:
		return "bonus"
	case EventMismatch:
		return "mismatch"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is something a tick did that the presentation may want to show.
// X and Y are the center of the resolved block.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Flavor state.Flavor
	Score  int
}

// TickResult is the outcome of one tick.
type TickResult struct {
	Blocks     []state.Block
	Events     []Event
	Landed     *state.Block // block resolved this tick, as it was when it arrived
	Phase      state.Phase
	Score      int
	Bonus      bool
	GameOver   bool
	FinalScore int
}

// Engine owns the session state and advances it one fixed step per Tick.
type Engine struct {
	State *state.State
	rng   *rand.Rand
}

// NewEngine wraps st. rng drives spawning; pass a seeded source for
// reproducible sessions.
func NewEngine(st *state.State, rng *rand.Rand) *Engine {
	return &Engine{State: st, rng: rng}
}

// Tick advances the simulation by one step: fall or hard-drop, steer,
// resolve an arrival against the slot row, then spawn if nothing is in
// flight. A mismatch ends the round; it is reported as an event, not an
// error. The spawn still happens on the mismatch tick, and later ticks
// change nothing until restart.
func (e *Engine) Tick(in InputSource) (TickResult, error) {
	if e == nil || e.State == nil {
		return TickResult{}, ErrNotInitialized
	}
	st := e.State
	if st.IsGameOver() {
		return e.result(nil, nil), nil
	}

	var snap InputSnapshot
	if in != nil {
		snap = in.Snapshot()
	}
	cfg := st.Config

	var events []Event
	var landed *state.Block
	for i := len(st.Blocks) - 1; i >= 0; i-- {
		b := &st.Blocks[i]

		if in != nil && in.ConsumeHardDrop() {
			b.Y = st.DropY()
		} else {
			b.Y += st.Score.FallSpeed
		}

		if snap.MoveLeft {
			b.X = math.Max(0, b.X-cfg.MoveSpeed)
		}
		if snap.MoveRight {
			b.X = math.Min(st.MaxX(), b.X+cfg.MoveSpeed)
		}

		if !st.Arrived(*b) {
			continue
		}

		block := *b
		landed = &block
		st.RemoveBlock(i)
		ev := Event{
			X:      block.X + cfg.BlockSize/2,
			Y:      block.Y + cfg.BlockSize/2,
			Flavor: block.Flavor,
		}

		if idx, ok := st.SlotAt(block.X); ok && st.Slots[idx].Flavor == block.Flavor {
			bonus := st.Score.Match()
			ev.Kind, ev.Score = EventMatch, st.Score.CurrentScore
			events = append(events, ev)
			if bonus {
				ev.Kind = EventBonus
				events = append(events, ev)
			}
			continue
		}

		st.Score.Mismatch()
		ev.Kind, ev.Score = EventMismatch, st.Score.CurrentScore
		events = append(events, ev)
		if err := st.EndRound(context.Background()); err != nil {
			return e.result(events, landed), err
		}
	}

	if len(st.Blocks) == 0 {
		if err := e.Spawn(); err != nil {
			return e.result(events, landed), err
		}
	}

	return e.result(events, landed), nil
}

// Spawn puts a new block at the top of the field. Flavor and spawn slot are
// independent uniform draws.
func (e *Engine) Spawn() error {
	if e == nil || e.State == nil {
		return ErrNotInitialized
	}
	st := e.State
	flavorIndex := e.rng.IntN(len(st.Palette))
	slotIndex := e.rng.IntN(len(st.Slots))

	if err := st.AddBlock(state.Block{
		X:           st.SpawnX(slotIndex),
		Y:           0,
		Flavor:      st.Palette[flavorIndex],
		FlavorIndex: flavorIndex,
	}); err != nil {
		return fmt.Errorf("could not spawn block: %w", err)
	}
	return nil
}

// Snapshot reports the current state without advancing it.
func (e *Engine) Snapshot() TickResult {
	return e.result(nil, nil)
}

func (e *Engine) result(events []Event, landed *state.Block) TickResult {
	st := e.State
	res := TickResult{
		Blocks: append([]state.Block(nil), st.Blocks...),
		Events: events,
		Landed: landed,
		Phase:  st.Phase(),
		Score:  st.Score.CurrentScore,
	}
	for _, ev := range events {
		if ev.Kind == EventBonus {
			res.Bonus = true
		}
	}
	if res.Phase == state.GameOver {
		res.GameOver = true
		res.FinalScore = res.Score
	}
	return res
}
