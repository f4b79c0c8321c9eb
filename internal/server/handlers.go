package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type StandingResponse struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Won    int64  `json:"won"`
	Rounds int64  `json:"rounds"`
}

type LeaderboardResponse struct {
	Game      string             `json:"game,omitempty"`
	Standings []StandingResponse `json:"standings"`
}

// HandleHealthz reports that the process is alive
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports whether storage is reachable
func HandleReadyz(ready ReadyCheck, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := ready(ctx); err != nil {
				log.Error().Err(err).Msg("Readiness check failed")
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Message: "storage connection failed",
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleLeaderboard returns the top winners, for one game when {game} is set
func HandleLeaderboard(boards Leaderboards, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultLeaderboardLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > MaxLeaderboardLimit {
				http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
				return
			}
			limit = n
		}

		game := chi.URLParam(r, "game")
		standings, err := boards.Leaderboard(r.Context(), game, limit)
		if err != nil {
			log.Error().Err(err).Str("game", game).Msg("Error loading leaderboard")
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}

		resp := LeaderboardResponse{Game: game, Standings: make([]StandingResponse, 0, len(standings))}
		for i, s := range standings {
			resp.Standings = append(resp.Standings, StandingResponse{
				Rank:   i + 1,
				UserID: s.UserID,
				Won:    s.Won,
				Rounds: s.Rounds,
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
