package models

import (
	"errors"
	"slices"
	"time"
)

type GameType string

const (
	GameWordle GameType = "wordle"
	GameSudoku GameType = "sudoku"
	GameMemory GameType = "memory"
	GameMath   GameType = "math"
	GameTiles  GameType = "2048"
	GameMotion GameType = "webcam"
)

var GameTypes = []GameType{GameWordle, GameSudoku, GameMemory, GameMath, GameTiles, GameMotion}

var ErrUnknownGame = errors.New("unknown game type")

func ParseGameType(s string) (GameType, error) {
	g := GameType(s)
	if !slices.Contains(GameTypes, g) {
		return "", ErrUnknownGame
	}
	return g, nil
}

const dateLayout = "2006-01-02"

// DailyBreaksWindow is how many calendar days of per-day counts are kept.
// A year of entries fits the store's per-item quota.
const DailyBreaksWindow = 365

type BreakStats struct {
	TotalBreaks   int              `json:"totalBreaks"`
	GamesPlayed   map[GameType]int `json:"gamesPlayed"`
	TotalTimeMs   int64            `json:"totalTime"`
	CurrentStreak int              `json:"currentStreak"`
	LongestStreak int              `json:"longestStreak"`
	LastBreakDate string           `json:"lastBreakDate,omitempty"`
	DailyBreaks   map[string]int   `json:"dailyBreaks"`
}

func NewBreakStats() *BreakStats {
	s := &BreakStats{}
	s.FillDefaults()
	return s
}

// FillDefaults adds zero entries for missing games and allocates nil maps.
func (s *BreakStats) FillDefaults() {
	if s.GamesPlayed == nil {
		s.GamesPlayed = make(map[GameType]int, len(GameTypes))
	}
	for _, g := range GameTypes {
		if _, ok := s.GamesPlayed[g]; !ok {
			s.GamesPlayed[g] = 0
		}
	}
	if s.DailyBreaks == nil {
		s.DailyBreaks = make(map[string]int)
	}
}

// Record counts one completed break. Streaks follow calendar days in now's
// location: a break on the day after the last one extends the streak, a gap
// restarts it at one, further breaks on the same day leave it alone.
func (s *BreakStats) Record(game GameType, took time.Duration, now time.Time) {
	s.FillDefaults()

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	s.TotalBreaks++
	s.GamesPlayed[game]++
	s.DailyBreaks[today]++
	if took > 0 {
		s.TotalTimeMs += took.Milliseconds()
	}

	switch s.LastBreakDate {
	case today:
	case yesterday:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	s.LastBreakDate = today
	s.pruneDailyBreaks(now)
}

// pruneDailyBreaks drops per-day counts older than the window ending at now.
// Layout keys sort chronologically.
func (s *BreakStats) pruneDailyBreaks(now time.Time) {
	oldest := now.AddDate(0, 0, -(DailyBreaksWindow - 1)).Format(dateLayout)
	for day := range s.DailyBreaks {
		if day < oldest {
			delete(s.DailyBreaks, day)
		}
	}
}

func (s *BreakStats) BreaksOn(day time.Time) int {
	return s.DailyBreaks[day.Format(dateLayout)]
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	Unlocked    bool   `json:"unlocked"`
}

type achievementRule struct {
	id, name, desc string
	check          func(*BreakStats) bool
}

func totalAtLeast(n int) func(*BreakStats) bool {
	return func(s *BreakStats) bool { return s.TotalBreaks >= n }
}

func streakAtLeast(n int) func(*BreakStats) bool {
	return func(s *BreakStats) bool { return s.CurrentStreak >= n }
}

func playedAtLeast(g GameType, n int) func(*BreakStats) bool {
	return func(s *BreakStats) bool { return s.GamesPlayed[g] >= n }
}

var achievementRules = []achievementRule{
	{"first-break", "First Break", "Complete your first break", totalAtLeast(1)},
	{"ten-breaks", "Getting Started", "Complete 10 breaks", totalAtLeast(10)},
	{"fifty-breaks", "Committed", "Complete 50 breaks", totalAtLeast(50)},
	{"hundred-breaks", "Century Club", "Complete 100 breaks", totalAtLeast(100)},
	{"streak-3", "Three Day Streak", "3 days in a row", streakAtLeast(3)},
	{"streak-7", "Week Warrior", "7 days in a row", streakAtLeast(7)},
	{"wordle-master", "Word Wizard", "Play Wordle 25 times", playedAtLeast(GameWordle, 25)},
	{"sudoku-master", "Sudoku Sage", "Play Sudoku 25 times", playedAtLeast(GameSudoku, 25)},
	{"memory-master", "Memory Master", "Play Memory 25 times", playedAtLeast(GameMemory, 25)},
}

func (s *BreakStats) Achievements() []Achievement {
	out := make([]Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		out = append(out, Achievement{
			ID:          r.id,
			Name:        r.name,
			Description: r.desc,
			Unlocked:    r.check(s),
		})
	}
	return out
}
