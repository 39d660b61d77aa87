package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestInitScoring verifies a fresh round starts at (0, 0, base speed).
func TestInitScoring(t *testing.T) {
	s := InitScoring(2, 0.1)

	if s.CurrentScore != 0 {
		t.Errorf("expected initial score 0, got %d", s.CurrentScore)
	}
	if s.ConsecutiveMatches != 0 {
		t.Errorf("expected no streak, got %d", s.ConsecutiveMatches)
	}
	if s.FallSpeed != 2 || s.baseSpeed != 2 {
		t.Errorf("expected fall speed 2, got %g", s.FallSpeed)
	}
}

// TestScoreEvent checks the score table.
func TestScoreEvent(t *testing.T) {
	s := InitScoring(2, 0.1)

	s.ScoreEvent("match")
	if s.CurrentScore != 10 {
		t.Errorf("match: expected 10, got %d", s.CurrentScore)
	}
	s.ScoreEvent("streakBonus")
	if s.CurrentScore != 110 {
		t.Errorf("streakBonus: expected 110, got %d", s.CurrentScore)
	}
	s.ScoreEvent("unknown")
	if s.CurrentScore != 110 {
		t.Errorf("unknown events should score nothing, got %d", s.CurrentScore)
	}
}

// TestMatch_StreakBonus plays five matches and checks the bonus on the fifth.
func TestMatch_StreakBonus(t *testing.T) {
	s := InitScoring(2, 0.1)

	prevSpeed := s.FallSpeed
	for i := 1; i <= 4; i++ {
		if s.Match() {
			t.Fatalf("match %d should not pay the bonus", i)
		}
		if s.ConsecutiveMatches != i {
			t.Errorf("match %d: expected streak %d, got %d", i, i, s.ConsecutiveMatches)
		}
		if s.FallSpeed <= prevSpeed {
			t.Errorf("match %d: fall speed must strictly increase", i)
		}
		prevSpeed = s.FallSpeed
	}

	if !s.Match() {
		t.Fatal("fifth match should pay the bonus")
	}
	if s.CurrentScore != 150 {
		t.Errorf("expected 5*10 + 100 = 150, got %d", s.CurrentScore)
	}
	if s.ConsecutiveMatches != 0 {
		t.Errorf("streak should reset after the bonus, got %d", s.ConsecutiveMatches)
	}
	if s.Matches != 5 || s.Bonuses != 1 {
		t.Errorf("expected 5 matches and 1 bonus, got %d and %d", s.Matches, s.Bonuses)
	}
	if !almostEqual(s.FallSpeed, 2.5) {
		t.Errorf("expected fall speed 2.5, got %g", s.FallSpeed)
	}
}

// TestMismatch resets the streak but leaves score and speed alone.
func TestMismatch(t *testing.T) {
	s := InitScoring(2, 0.1)
	s.Match()
	s.Match()
	speed := s.FallSpeed

	s.Mismatch()
	if s.ConsecutiveMatches != 0 {
		t.Errorf("expected streak reset, got %d", s.ConsecutiveMatches)
	}
	if s.CurrentScore != 20 {
		t.Errorf("mismatch must not change score, got %d", s.CurrentScore)
	}
	if s.FallSpeed != speed {
		t.Errorf("mismatch must not change speed")
	}

	s.Reset()
	if s.CurrentScore != 0 || s.Matches != 0 || s.FallSpeed != 2 {
		t.Errorf("Reset should restore defaults, got %+v", s)
	}
}

// TestScoreHistory_Record verifies the high score follows the best round.
func TestScoreHistory_Record(t *testing.T) {
	var h ScoreHistory

	if h.GetHighScoreEntry() != nil {
		t.Fatal("empty history should have no high score")
	}
	if !h.GotHighScore(0) {
		t.Error("any score is a high score on an empty history")
	}

	h.Record(ScoreHistoryEntry{Round: 1, Score: 120})
	h.Record(ScoreHistoryEntry{Round: 2, Score: 300})
	h.Record(ScoreHistoryEntry{Round: 3, Score: 40})

	if h.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", h.Attempts)
	}
	best := h.GetHighScoreEntry()
	if best == nil || best.Score != 300 || best.Round != 2 {
		t.Fatalf("expected round 2 with 300 as high score, got %+v", best)
	}
	if h.GotHighScore(299) {
		t.Error("299 is not a high score")
	}
	if !h.GotHighScore(300) {
		t.Error("matching the best counts as a high score")
	}
}

// TestGetNScoreEntries verifies entries come back sorted by score.
func TestGetNScoreEntries(t *testing.T) {
	var h ScoreHistory
	h.Record(ScoreHistoryEntry{Round: 1, Score: 100})
	h.Record(ScoreHistoryEntry{Round: 2, Score: 300})
	h.Record(ScoreHistoryEntry{Round: 3, Score: 200})

	entries := h.GetNScoreEntries(2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Score != 300 || entries[1].Score != 200 {
		t.Errorf("expected 300, 200; got %d, %d", entries[0].Score, entries[1].Score)
	}

	if len(h.GetNScoreEntries(10)) != 3 {
		t.Errorf("asking for more entries than exist returns all of them")
	}
	if h.Entries[0].Score != 100 {
		t.Errorf("GetNScoreEntries must not reorder the history")
	}
}
