package scoring

// StreakLength is the number of consecutive matches that pays the streak bonus.
const StreakLength = 5

// Scoring tracks score, the match streak and the fall speed of one round.
type Scoring struct {
	// public
	CurrentScore       int
	ConsecutiveMatches int
	FallSpeed          float64
	Matches            int
	Bonuses            int
	// private
	baseSpeed      float64
	speedIncrement float64
	scoreTable     map[string]int
}

// InitScoring creates a Scoring at the start of a round.
func InitScoring(baseSpeed, speedIncrement float64) *Scoring {
	s := &Scoring{
		scoreTable:     getScoreTable(),
		baseSpeed:      baseSpeed,
		speedIncrement: speedIncrement,
	}
	s.Reset()
	return s
}

// Reset puts the score state back to (0, 0, base speed).
func (s *Scoring) Reset() {
	s.CurrentScore = 0
	s.ConsecutiveMatches = 0
	s.FallSpeed = s.baseSpeed
	s.Matches = 0
	s.Bonuses = 0
}

// ScoreEvent adds the points of a named event to the score.
func (s *Scoring) ScoreEvent(event string) {
	s.CurrentScore += s.scoreTable[event]
}

// Match scores a correct landing, ramps up the fall speed and reports whether
// the streak bonus was paid.
func (s *Scoring) Match() bool {
	s.ScoreEvent("match")
	s.Matches++
	s.ConsecutiveMatches++
	s.FallSpeed += s.speedIncrement

	if s.ConsecutiveMatches == StreakLength {
		s.ScoreEvent("streakBonus")
		s.Bonuses++
		s.ConsecutiveMatches = 0
		return true
	}
	return false
}

// Mismatch breaks the streak. The score itself is left untouched.
func (s *Scoring) Mismatch() {
	s.ConsecutiveMatches = 0
}

// getScoreTable returns the predefined values for different scoring events.
func getScoreTable() map[string]int {
	return map[string]int{
		"match":       10,
		"streakBonus": 100,
	}
}
