// Package spamevent runs claim-the-coins events: everyone who clicks within the
// window gets a random share of a prize pool.
package spamevent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/coinpurse/internal/metrics"
	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/format"
	"github.com/fadedpez/coinpurse/pkg/payout"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrEmptyPool = errors.New("spam event pool must be positive")

// Share is one participant's cut of the pool
type Share struct {
	UserID string
	Coins  int64
}

// Result summarises a finished event
type Result struct {
	EventID string
	Pool    int64
	Shares  []Share
}

// Responder renders the event and listens for claims for the whole window
type Responder interface {
	play.Responder
	play.Subscriber
}

// Service runs spam events against the economy repository
type Service struct {
	repo  economyRepo.Updater
	src   rng.Source
	clock rng.Clock
	log   zerolog.Logger
}

// NewService creates a new spam event service
func NewService(repo economyRepo.Updater, src rng.Source, clock rng.Clock, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		src:   src,
		clock: clock,
		log:   log.With().Str("service", "spamevent").Logger(),
	}
}

// Bounds returns the per-participant share limits for splitting pool n ways.
// Shares range from half to twice the even split, so the pool always fits.
func Bounds(pool int64, n int) (min, max int64) {
	avg := pool / int64(n)
	return avg / 2, 2*avg + 1
}

// Run announces the event, collects claims until window closes and pays out
func (s *Service) Run(ctx context.Context, r Responder, pool int64, window time.Duration) (*Result, error) {
	if pool <= 0 {
		return nil, ErrEmptyPool
	}

	result := &Result{EventID: uuid.NewString(), Pool: pool}
	claimID := "spam:" + result.EventID + ":claim"
	log := s.log.With().Str("event", result.EventID).Logger()

	msg, err := r.Respond(ctx, claimView(claimID, pool, 0))
	if err != nil {
		return nil, fmt.Errorf("announce spam event: %w", err)
	}

	participants, err := s.collect(ctx, r, msg, claimID, pool, window)
	if err != nil {
		return nil, err
	}

	if len(participants) == 0 {
		view := claimView(claimID, pool, 0).Disabled()
		view.Footer = "Nobody claimed the coins."
		_, err := r.Edit(ctx, msg, view)
		log.Info().Msg("Spam event ended without participants")
		return result, err
	}

	min, max := Bounds(pool, len(participants))
	parts, err := payout.Scatter(s.src, int(pool), int(min), int(max), len(participants))
	if err != nil {
		return nil, fmt.Errorf("split spam pool: %w", err)
	}

	for i, userID := range participants {
		share := Share{UserID: userID, Coins: int64(parts[i].Value)}
		if err := s.credit(ctx, share); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("spam_credit").Inc()
			log.Error().Err(err).Str("user", userID).Msg("Error crediting spam share")
			continue
		}
		result.Shares = append(result.Shares, share)
	}

	metrics.SpamEventsTotal.Inc()
	metrics.SpamEventCoinsTotal.Add(float64(pool))
	log.Info().Int("participants", len(participants)).Int64("pool", pool).Msg("Spam event paid out")

	if _, err := r.Edit(ctx, msg, resultView(claimID, result)); err != nil {
		return result, fmt.Errorf("show spam results: %w", err)
	}
	return result, nil
}

func (s *Service) collect(ctx context.Context, r Responder, msg play.Message, claimID string, pool int64, window time.Duration) ([]string, error) {
	actions, cancel := r.Subscribe(msg, func(a play.Action) bool {
		return a.CustomID == claimID
	})
	defer cancel()

	timer := time.NewTimer(window)
	defer timer.Stop()

	seen := make(map[string]bool)
	var participants []string
	claim := func(a play.Action) bool {
		if seen[a.UserID] {
			return false
		}
		seen[a.UserID] = true
		participants = append(participants, a.UserID)
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await spam claims: %w", ctx.Err())
		case <-timer.C:
			return participants, nil
		case action, ok := <-actions:
			if !ok {
				return participants, nil
			}
			changed := claim(action)
			// take everything that queued up during the last edit
			for drained := false; !drained; {
				select {
				case next, ok := <-actions:
					if !ok {
						drained = true
						break
					}
					if claim(next) {
						changed = true
					}
				default:
					drained = true
				}
			}
			if !changed {
				continue
			}

			var err error
			if msg, err = r.Edit(ctx, msg, claimView(claimID, pool, len(participants))); err != nil {
				return nil, fmt.Errorf("update spam claims: %w", err)
			}
		}
	}
}

func (s *Service) credit(ctx context.Context, share Share) error {
	_, err := s.repo.Update(ctx, share.UserID, func(player *entities.PlayerEconomy) error {
		player.Wallet.AddValue(share.Coins)
		player.UpdatedAt = s.clock.Now()
		return nil
	})
	return err
}

func claimView(claimID string, pool int64, claimed int) play.View {
	return play.View{
		Title:       "💸 Spam event!",
		Description: fmt.Sprintf("**%s** coins are up for grabs. Click Claim to get a share.", format.Coins(pool)),
		Color:       play.ColorWin,
		Fields: []play.Field{
			{Name: "Claimed", Value: fmt.Sprintf("%d", claimed), Inline: true},
		},
		Rows: []play.Row{play.ButtonRow(
			play.Button{ID: claimID, Label: "Claim", Emoji: "💰", Style: play.StyleSuccess},
		)},
	}
}

func resultView(claimID string, result *Result) play.View {
	lines := make([]string, 0, len(result.Shares))
	for _, share := range result.Shares {
		lines = append(lines, fmt.Sprintf("<@%s> %s", share.UserID, format.Signed(share.Coins)))
	}

	view := claimView(claimID, result.Pool, len(result.Shares)).Disabled()
	view.Fields = append(view.Fields, play.Field{Name: "Payouts", Value: strings.Join(lines, "\n")})
	view.Footer = "The spam event is over."
	return view
}
