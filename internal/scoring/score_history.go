package scoring

import (
	"sort"
)

// ScoreHistory holds the finished rounds of the running process. Nothing is
// written to disk; the history ends with the program.
type ScoreHistory struct {
	Entries        []ScoreHistoryEntry
	HighScoreEntry *ScoreHistoryEntry
	Attempts       int
}

// ScoreHistoryEntry represents a single finished round.
type ScoreHistoryEntry struct {
	Round     int
	Score     int
	Matches   int
	Timestamp string
}

// Record appends a finished round and updates the high score.
func (sh *ScoreHistory) Record(entry ScoreHistoryEntry) {
	sh.Entries = append(sh.Entries, entry)
	sh.Attempts++
	if sh.HighScoreEntry == nil || entry.Score > sh.HighScoreEntry.Score {
		best := entry
		sh.HighScoreEntry = &best
	}
}

// GetHighScoreEntry returns the highest score entry recorded so far.
func (sh ScoreHistory) GetHighScoreEntry() *ScoreHistoryEntry {
	return sh.HighScoreEntry
}

// GetNScoreEntries returns the top N score entries from the history, sorted by score.
func (sh ScoreHistory) GetNScoreEntries(n int) []ScoreHistoryEntry {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]ScoreHistoryEntry, len(sh.Entries))
	copy(entriesCopy, sh.Entries)

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Score > entriesCopy[j].Score
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotHighScore checks if score is greater than or equal to the best recorded
// round.
func (sh ScoreHistory) GotHighScore(score int) bool {
	if sh.HighScoreEntry == nil {
		return true
	}
	return score >= sh.HighScoreEntry.Score
}
