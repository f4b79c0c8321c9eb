package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/fadedpez/coinpurse/internal/config"
	"github.com/fadedpez/coinpurse/internal/discord"
	"github.com/fadedpez/coinpurse/internal/metrics"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/repositories/rounds"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/services/economy"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/fadedpez/coinpurse/pkg/services/spamevent"
	"github.com/fadedpez/coinpurse/pkg/services/statistics"
)

// Interaction ids are remembered this long to drop gateway redeliveries
const (
	DedupeSize = 4096
	DedupeTTL  = 15 * time.Minute
)

// Deps are the collaborators the bot routes commands to
type Deps struct {
	Session  discord.SessionHandler
	Registry *play.Registry
	Players  economyRepo.Updater
	Rounds   rounds.Repository
	Economy  *economy.Service
	Spam     *spamevent.Service
	Stats    *statistics.Service
	Source   rng.Source
	Clock    rng.Clock
	Logger   zerolog.Logger
}

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config    *config.Config
	session   discord.SessionHandler
	collector *discord.Collector
	registry  *play.Registry
	players   economyRepo.Updater
	rounds    rounds.Repository
	economy   *economy.Service
	spam      *spamevent.Service
	stats     *statistics.Service
	src       rng.Source
	clock     rng.Clock
	log       zerolog.Logger

	seenMu sync.Mutex
	seen   *expirable.LRU[string, struct{}]

	activeMu sync.Mutex
	active   map[string]bool // user id -> session running

	ctx        context.Context
	cancel     context.CancelFunc
	removeHook func()
	shutdownWg sync.WaitGroup
}

// New creates a new instance of Bot
func New(cfg *config.Config, deps Deps) *Bot {
	if deps.Clock == nil {
		deps.Clock = rng.SystemClock{}
	}
	if deps.Source == nil {
		deps.Source = rng.NewTimeSource()
	}
	if deps.Stats == nil {
		deps.Stats = statistics.NewService(deps.Players, deps.Rounds, deps.Clock)
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := deps.Logger.With().Str("component", "bot").Logger()
	return &Bot{
		config:    cfg,
		session:   deps.Session,
		collector: discord.NewCollector(deps.Session, log),
		registry:  deps.Registry,
		players:   deps.Players,
		rounds:    deps.Rounds,
		economy:   deps.Economy,
		spam:      deps.Spam,
		stats:     deps.Stats,
		src:       deps.Source,
		clock:     deps.Clock,
		log:       log,
		seen:      expirable.NewLRU[string, struct{}](DedupeSize, nil, DedupeTTL),
		active:    make(map[string]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers handlers, connects to Discord and registers commands
func (b *Bot) Start() error {
	b.removeHook = b.session.AddHandler(b.handleInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.log.Info().Int("games", len(b.registry.List())).Msg("Bot started")
	return nil
}

// Shutdown stops running sessions and closes the connection
func (b *Bot) Shutdown() {
	b.cancel()
	if b.removeHook != nil {
		b.removeHook()
	}

	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	if err := b.session.Close(); err != nil {
		b.log.Error().Err(err).Msg("Error closing Discord session")
	}

	// Wait for any ongoing sessions to unwind
	b.shutdownWg.Wait()
}

func (b *Bot) registerCommands() error {
	commands := Commands(b.registry)
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.config.Discord.AppID, b.config.Discord.GuildID, commands)
	if err != nil {
		return err
	}
	b.log.Info().Int("commands", len(registered)).Msg("Registered slash commands")
	return nil
}

func (b *Bot) cleanupCommands() {
	_, err := b.session.ApplicationCommandBulkOverwrite(b.config.Discord.AppID, b.config.Discord.GuildID, []*discordgo.ApplicationCommand{})
	if err != nil {
		b.log.Error().Err(err).Msg("Error removing slash commands")
	}
}

// handleInteractionCreate handles Discord interaction events
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(i.Interaction)
}

func (b *Bot) handleInteraction(i *discordgo.Interaction) {
	if b.isDuplicate(i.ID) {
		metrics.DuplicateInteractions.Inc()
		b.log.Debug().Str("interaction", i.ID).Msg("Skipping already processed interaction")
		return
	}
	metrics.InteractionsTotal.WithLabelValues(i.Type.String()).Inc()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(i)
	}
}

func (b *Bot) isDuplicate(id string) bool {
	b.seenMu.Lock()
	defer b.seenMu.Unlock()

	if b.seen.Contains(id) {
		return true
	}
	b.seen.Add(id, struct{}{})
	return false
}

// claim marks userID as playing. It fails while another session is running.
func (b *Bot) claim(userID string) bool {
	b.activeMu.Lock()
	defer b.activeMu.Unlock()

	if b.active[userID] {
		return false
	}
	b.active[userID] = true
	return true
}

func (b *Bot) release(userID string) {
	b.activeMu.Lock()
	defer b.activeMu.Unlock()
	delete(b.active, userID)
}

// Playing reports whether userID has a running session
func (b *Bot) Playing(userID string) bool {
	b.activeMu.Lock()
	defer b.activeMu.Unlock()
	return b.active[userID]
}
