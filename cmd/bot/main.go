package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fadedpez/coinpurse/internal/bot"
	"github.com/fadedpez/coinpurse/internal/config"
	"github.com/fadedpez/coinpurse/internal/discord"
	"github.com/fadedpez/coinpurse/internal/logging"
	"github.com/fadedpez/coinpurse/internal/server"
	"github.com/fadedpez/coinpurse/pkg/games/blackjack"
	"github.com/fadedpez/coinpurse/pkg/games/coinflip"
	"github.com/fadedpez/coinpurse/pkg/games/diceroll"
	"github.com/fadedpez/coinpurse/pkg/games/emojipair"
	"github.com/fadedpez/coinpurse/pkg/games/highlow"
	"github.com/fadedpez/coinpurse/pkg/games/slotmachine"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/scheduler"
	"github.com/fadedpez/coinpurse/pkg/services/economy"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/fadedpez/coinpurse/pkg/services/spamevent"
	"github.com/fadedpez/coinpurse/pkg/services/statistics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.IsDevelopment(),
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := rng.SystemClock{}
	src := rng.NewTimeSource()

	st, err := openStores(ctx, cfg, clock, log)
	if err != nil {
		return err
	}
	defer st.close()

	registry, err := play.NewRegistry(
		blackjack.New(),
		coinflip.New(),
		diceroll.New(),
		emojipair.New(),
		highlow.New(),
		slotmachine.New(),
	)
	if err != nil {
		return fmt.Errorf("error registering games: %w", err)
	}

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	// every writer shares one locked repository so updates never interleave
	players := economyRepo.NewLockedRepository(st.players)

	b := bot.New(cfg, bot.Deps{
		Session:  session,
		Registry: registry,
		Players:  players,
		Rounds:   st.rounds,
		Economy:  economy.NewService(players, clock, log),
		Spam:     spamevent.NewService(players, src, clock, log),
		Stats:    statistics.NewService(players, st.rounds, clock),
		Source:   src,
		Clock:    clock,
		Logger:   log,
	})
	if err := b.Start(); err != nil {
		return err
	}

	maintenance := scheduler.NewMaintenance(st.rounds, cfg.History.MaxRoundsPerPlayer, st.indices, log)
	maintenance.Start(ctx)

	srv := server.NewServer(cfg.HTTP.Addr, st.ready, st.rounds, log)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	log.Info().Str("environment", cfg.Environment).Msg("Bot is running. Press Ctrl+C to exit")
	<-ctx.Done()

	log.Info().Msg("Shutting down...")
	b.Shutdown()
	maintenance.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}
	return nil
}
