package game

import (
	"math"
	"scoop-drop/internal/state"
)

// Autopilot is an InputSource that steers the active block to the nearest
// slot of its flavor. It powers the demo and headless modes.
type Autopilot struct {
	State *state.State
	Drop  bool // hard-drop once lined up
}

func NewAutopilot(st *state.State, drop bool) *Autopilot {
	return &Autopilot{State: st, Drop: drop}
}

func (a *Autopilot) Snapshot() InputSnapshot {
	b := a.State.Active()
	if b == nil {
		return InputSnapshot{}
	}
	targetX, ok := a.target(*b)
	if !ok {
		return InputSnapshot{}
	}

	half := a.State.Config.MoveSpeed / 2
	dx := targetX - b.X
	return InputSnapshot{
		MoveLeft:  dx < -half,
		MoveRight: dx > half,
		HardDrop:  a.shouldDrop(*b),
	}
}

func (a *Autopilot) ConsumeHardDrop() bool {
	b := a.State.Active()
	return b != nil && a.shouldDrop(*b)
}

// shouldDrop is true once b would land in a slot of its own flavor and has
// not been dropped yet.
func (a *Autopilot) shouldDrop(b state.Block) bool {
	if !a.Drop || b.Y >= a.State.DropY() {
		return false
	}
	idx, ok := a.State.SlotAt(b.X)
	return ok && a.State.Slots[idx].Flavor == b.Flavor
}

func (a *Autopilot) target(b state.Block) (float64, bool) {
	best, found := 0.0, false
	for _, idx := range a.State.SlotsFor(b.FlavorIndex) {
		x := a.State.SpawnX(idx)
		if !found || math.Abs(x-b.X) < math.Abs(best-b.X) {
			best, found = x, true
		}
	}
	return best, found
}
