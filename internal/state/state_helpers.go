package state

import "math"

// Arrived reports whether b has reached the slot row. The hit window reaches
// below the drawn scoop so landings register a little early.
func (s State) Arrived(b Block) bool {
	cfg := s.Config
	return b.Y+cfg.BlockSize*cfg.HitWindow >= cfg.FieldHeight-cfg.BlockSize
}

// DropY is where a hard-drop puts a block: just short of the slot row.
func (s State) DropY() float64 {
	cfg := s.Config
	return cfg.FieldHeight - cfg.BlockSize*cfg.DropGap
}

// MaxX is the rightmost left edge a block may have.
func (s State) MaxX() float64 {
	return s.Config.FieldWidth - s.Config.BlockSize
}

// ClampX keeps x inside the field.
func (s State) ClampX(x float64) float64 {
	return math.Min(s.MaxX(), math.Max(0, x))
}

// SpawnX centers a block over the given slot. Slots narrower than a block
// would push it out of the field, so the result is clamped.
func (s State) SpawnX(slotIndex int) float64 {
	slot := s.Slots[slotIndex]
	return s.ClampX(slot.X + (slot.Width-s.Config.BlockSize)/2)
}

func (s State) IsGameOver() bool {
	return s.Phase() == GameOver
}

// BestScore is the highest finished round of this process, or 0.
func (s State) BestScore() int {
	if best := s.History.GetHighScoreEntry(); best != nil {
		return best.Score
	}
	return 0
}
