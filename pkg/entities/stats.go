package entities

import "time"

// ResultStats tracks one result column of a game
type ResultStats struct {
	Count   int64 `json:"count"`
	Streak  int64 `json:"streak"`
	Coins   int64 `json:"coins"`
	Highest int64 `json:"highest"`
}

func (r *ResultStats) record(coins int64) {
	r.Count++
	r.Streak++
	r.Coins += coins
	if coins > r.Highest {
		r.Highest = coins
	}
}

// GameStats holds per-game statistics
type GameStats struct {
	Wins       ResultStats `json:"wins"`
	Loses      ResultStats `json:"loses"`
	Ties       ResultStats `json:"ties"`
	LastPlayed time.Time   `json:"last_played"`
}

// RecordWin counts a win worth coins and breaks the other streaks
func (s *GameStats) RecordWin(coins int64, at time.Time) {
	s.Wins.record(coins)
	s.Loses.Streak = 0
	s.Ties.Streak = 0
	s.LastPlayed = at
}

// RecordLose counts a loss of coins
func (s *GameStats) RecordLose(coins int64, at time.Time) {
	s.Loses.record(coins)
	s.Wins.Streak = 0
	s.Ties.Streak = 0
	s.LastPlayed = at
}

func (s *GameStats) RecordTie(at time.Time) {
	s.Ties.record(0)
	s.Wins.Streak = 0
	s.Loses.Streak = 0
	s.LastPlayed = at
}

// Played returns the number of resolved rounds
func (s *GameStats) Played() int64 {
	return s.Wins.Count + s.Loses.Count + s.Ties.Count
}

// WinRate calculates the win rate as a percentage
func (s *GameStats) WinRate() float64 {
	if s.Played() == 0 {
		return 0.0
	}
	return float64(s.Wins.Count) / float64(s.Played()) * 100.0
}
