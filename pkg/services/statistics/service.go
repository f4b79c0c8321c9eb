package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fadedpez/coinpurse/pkg/entities"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/repositories/rounds"
	"github.com/fadedpez/coinpurse/pkg/rng"
)

// RecentRounds is how many history entries a report carries by default
const RecentRounds = 5

// Service builds per-player statistics from the economy document and round history
type Service struct {
	players economyRepo.Repository
	rounds  rounds.Repository
	clock   rng.Clock
}

// NewService creates a new statistics service
func NewService(players economyRepo.Repository, history rounds.Repository, clock rng.Clock) *Service {
	if clock == nil {
		clock = rng.SystemClock{}
	}
	return &Service{
		players: players,
		rounds:  history,
		clock:   clock,
	}
}

// GameRank is one game's statistics with derived metrics
type GameRank struct {
	GameID string `json:"game_id"`
	entities.GameStats
	WinRate float64 `json:"win_rate"`
	Profit  int64   `json:"profit"`
	// IsFavorite marks the most played game, IsBest the most profitable one
	IsFavorite bool `json:"is_favorite"`
	IsBest     bool `json:"is_best"`
}

// PlayerReport summarizes a player's results across every game
type PlayerReport struct {
	UserID      string                  `json:"user_id"`
	Games       []*GameRank             `json:"games"`
	Played      int64                   `json:"played"`
	Wins        int64                   `json:"wins"`
	WinRate     float64                 `json:"win_rate"`
	Profit      int64                   `json:"profit"`
	Recent      []*entities.RoundRecord `json:"recent"`
	RecentNet   int64                   `json:"recent_net"`
	LastUpdated time.Time               `json:"last_updated"`
}

// PlayerReport loads the player's stats and their newest recent rounds
func (s *Service) PlayerReport(ctx context.Context, userID string, recent int) (*PlayerReport, error) {
	if recent < 1 {
		recent = RecentRounds
	}

	player, err := s.players.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", userID, err)
	}

	history, err := s.rounds.PlayerRounds(ctx, userID, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds for %s: %w", userID, err)
	}

	report := &PlayerReport{
		UserID:      userID,
		Games:       make([]*GameRank, 0, len(player.Games)),
		Recent:      history,
		LastUpdated: s.clock.Now(),
	}

	for gameID, stats := range player.Games {
		if stats.Played() == 0 {
			continue
		}
		rank := &GameRank{
			GameID:    gameID,
			GameStats: stats,
			WinRate:   stats.WinRate(),
			Profit:    stats.Wins.Coins - stats.Loses.Coins,
		}
		report.Games = append(report.Games, rank)
		report.Played += stats.Played()
		report.Wins += stats.Wins.Count
		report.Profit += rank.Profit
	}

	if report.Played > 0 {
		report.WinRate = float64(report.Wins) / float64(report.Played) * 100.0
	}

	for _, round := range history {
		report.RecentNet += round.Net()
	}

	rankGames(report.Games)
	return report, nil
}

// rankGames sorts by rounds played and flags the favorite and the best game
func rankGames(games []*GameRank) {
	if len(games) == 0 {
		return
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].Played() != games[j].Played() {
			return games[i].Played() > games[j].Played()
		}
		return games[i].GameID < games[j].GameID
	})
	games[0].IsFavorite = true

	best := games[0]
	for _, g := range games[1:] {
		if g.Profit > best.Profit {
			best = g
		}
	}
	if best.Profit > 0 {
		best.IsBest = true
	}
}
