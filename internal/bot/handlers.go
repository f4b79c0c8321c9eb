package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/coinpurse/internal/discord"
	"github.com/fadedpez/coinpurse/internal/logging"
	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/format"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/fadedpez/coinpurse/pkg/services/spamevent"
	"github.com/fadedpez/coinpurse/pkg/services/statistics"
)

const (
	pickerPrefix = "picker:"
	// commandTimeout bounds the storage work behind a single command
	commandTimeout = 5 * time.Second
)

// handleSlashCommand handles all slash commands
func (b *Bot) handleSlashCommand(i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case CommandPlay:
		b.handlePlay(i)
	case CommandBalance:
		b.handleBalance(i)
	case CommandBet:
		b.handleBet(i)
	case CommandRecharge:
		b.handleRecharge(i)
	case CommandDeposit:
		b.handleDeposit(i)
	case CommandWithdraw:
		b.handleWithdraw(i)
	case CommandLeaderboard:
		b.handleLeaderboard(i)
	case CommandSpamEvent:
		b.handleSpamEvent(i)
	case CommandStats:
		b.handleStats(i)
	case CommandParty:
		b.handleParty(i)
	default:
		b.log.Warn().Str("command", data.Name).Msg("Unknown command")
		b.respondError(i, types.NewGameError(types.ErrInvalidCommand, "Unknown command."))
	}
}

// handleMessageComponent handles button clicks and select menus
func (b *Bot) handleMessageComponent(i *discordgo.Interaction) {
	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, pickerPrefix) {
		b.handlePicker(i)
		return
	}
	b.collector.Dispatch(i)
}

func (b *Bot) handlePlay(i *discordgo.Interaction) {
	if gameID := stringOption(i, OptionGame); gameID != "" {
		b.startGame(i, gameID, false)
		return
	}

	picker := b.registry.Picker(pickerPrefix + discord.UserID(i))
	resp := discord.NewEmbedResponse(discord.Embed(picker), false)
	resp.Components = discord.Components(picker)
	if err := discord.SendResponse(b.session, i, resp); err != nil {
		b.log.Error().Err(err).Msg("Error sending game picker")
	}
}

func (b *Bot) handlePicker(i *discordgo.Interaction) {
	data := i.MessageComponentData()
	owner := strings.TrimPrefix(data.CustomID, pickerPrefix)
	if owner != discord.UserID(i) {
		b.respondError(i, types.NewGameError(types.ErrPermissionDenied, "This menu belongs to someone else. Use `/play` to get your own."))
		return
	}
	if len(data.Values) == 0 {
		b.respondError(i, types.NewGameError(types.ErrInvalidArgument, "Pick a game from the menu."))
		return
	}
	b.startGame(i, data.Values[0], true)
}

// startGame runs a session in the background. update replaces the message the
// interaction came from instead of answering with a new one.
func (b *Bot) startGame(i *discordgo.Interaction, gameID string, update bool) {
	userID := discord.UserID(i)

	game, err := b.registry.Get(gameID)
	if err != nil {
		b.respondError(i, err)
		return
	}

	if !b.claim(userID) {
		b.respondError(i, types.NewGameError(types.ErrGameInProgress, "You already have a game running. Finish it before starting another."))
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	player, err := b.players.Fetch(ctx, userID)
	cancel()
	if err != nil {
		b.release(userID)
		b.respondError(i, types.WrapError(types.ErrDatabaseError, "Could not load your wallet.", err))
		return
	}

	if update {
		err = discord.DeferUpdate(b.session, i)
	} else {
		err = discord.Defer(b.session, i, false)
	}
	if err != nil {
		b.release(userID)
		b.log.Error().Err(err).Msg("Error acknowledging interaction")
		return
	}

	session := play.NewSession(player, game, play.Deps{
		Responder: discord.NewInteractionResponder(b.session, b.collector, i),
		Store:     b.players,
		Recorder:  b.rounds,
		Source:    b.src,
		Clock:     b.clock,
		Logger:    b.log,
	})

	b.shutdownWg.Add(1)
	go func() {
		defer b.shutdownWg.Done()
		defer b.release(userID)

		if err := session.Run(b.ctx); err != nil {
			logging.LogError(b.log, err)
		}
	}()
}

func (b *Bot) handleBalance(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	player, err := b.economy.Balance(ctx, discord.UserID(i))
	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, discord.NewEmbedResponse(balanceEmbed(player, b.clock.Now()), true))
}

func (b *Bot) handleBet(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	player, err := b.economy.SetBet(ctx, discord.UserID(i), intOption(i, OptionAmount))
	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, discord.NewEphemeralResponse(fmt.Sprintf("🎲 Your bet is now **%s** coins.", format.Coins(player.Bet.Value)), nil))
}

func (b *Bot) handleRecharge(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	player, err := b.economy.Recharge(ctx, discord.UserID(i))
	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, discord.NewEphemeralResponse(fmt.Sprintf(
		"⚡ Recharged! You can play until <t:%d:t>. Energy left: **%d**.",
		player.Energy.Expire.Unix(), player.Energy.Energy(),
	), nil))
}

func (b *Bot) handleDeposit(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	amount := intOption(i, OptionAmount)
	player, err := b.economy.Deposit(ctx, discord.UserID(i), amount)
	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, discord.NewEphemeralResponse(fmt.Sprintf(
		"🏦 Deposited **%s** coins. Bank: **%s** / %s.",
		format.Coins(amount), format.Coins(player.Bank.Value), format.Coins(player.Bank.Space.Value),
	), nil))
}

func (b *Bot) handleWithdraw(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	amount := intOption(i, OptionAmount)
	player, err := b.economy.Withdraw(ctx, discord.UserID(i), amount)
	if err != nil {
		b.respondError(i, err)
		return
	}
	b.respond(i, discord.NewEphemeralResponse(fmt.Sprintf(
		"👛 Withdrew **%s** coins. Wallet: **%s**.",
		format.Coins(amount), format.Coins(player.Wallet.Value),
	), nil))
}

func (b *Bot) handleLeaderboard(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	gameID := stringOption(i, OptionGame)
	title := "🏆 Leaderboard"
	if gameID != "" {
		game, err := b.registry.Get(gameID)
		if err != nil {
			b.respondError(i, err)
			return
		}
		title = fmt.Sprintf("🏆 %s leaderboard", game.Name())
	}

	standings, err := b.rounds.Leaderboard(ctx, gameID, LeaderboardSize)
	if err != nil {
		b.respondError(i, types.WrapError(types.ErrDatabaseError, "The leaderboard is unavailable right now.", err))
		return
	}
	b.respond(i, discord.NewEmbedResponse(leaderboardEmbed(title, standings), false))
}

func (b *Bot) handleStats(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	userID := userOption(i, OptionUser)
	if userID == "" {
		userID = discord.UserID(i)
	}

	report, err := b.stats.PlayerReport(ctx, userID, statistics.RecentRounds)
	if err != nil {
		b.respondError(i, types.WrapError(types.ErrDatabaseError, "Statistics are unavailable right now.", err))
		return
	}
	b.respond(i, discord.NewEmbedResponse(statsEmbed(report, b.registry), false))
}

func (b *Bot) handleParty(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondError(i, types.NewGameError(types.ErrInvalidCommand, "Unknown party command."))
		return
	}
	sub := options[0]
	userID := discord.UserID(i)
	var memberID string
	for _, opt := range sub.Options {
		if opt.Name == OptionUser {
			memberID = opt.UserValue(nil).ID
		}
	}

	var (
		player *entities.PlayerEconomy
		err    error
		msg    string
	)
	switch sub.Name {
	case PartyInvite:
		player, err = b.economy.Invite(ctx, userID, memberID)
		msg = fmt.Sprintf("🎉 Invited <@%s>. They can join with `/party accept`.", memberID)
	case PartyAccept:
		player, err = b.economy.Accept(ctx, userID, memberID)
		msg = fmt.Sprintf("🎉 You joined <@%s>'s party.", memberID)
	case PartyLeave:
		player, err = b.economy.Leave(ctx, userID, memberID)
		msg = fmt.Sprintf("👋 <@%s> is no longer in your party.", memberID)
	default:
		err = types.NewGameError(types.ErrInvalidCommand, "Unknown party command.")
	}
	if err != nil {
		b.respondError(i, err)
		return
	}

	msg += fmt.Sprintf(" Winnings bonus: **+%d%%**.", player.EffectiveMultiplier(b.clock.Now()))
	b.respond(i, discord.NewEphemeralResponse(msg, nil))
}

func (b *Bot) handleSpamEvent(i *discordgo.Interaction) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		b.respondError(i, types.NewGameError(types.ErrPermissionDenied, "Only server managers can start a spam event."))
		return
	}

	var responder spamevent.Responder
	if channelID := b.config.Spam.ChannelID; channelID != "" {
		responder = discord.NewChannelResponder(b.session, b.collector, channelID)
		b.respond(i, discord.NewEphemeralResponse(fmt.Sprintf("💸 Spam event started in <#%s>.", channelID), nil))
	} else {
		if err := discord.Defer(b.session, i, false); err != nil {
			b.log.Error().Err(err).Msg("Error acknowledging interaction")
			return
		}
		responder = discord.NewInteractionResponder(b.session, b.collector, i)
	}

	b.shutdownWg.Add(1)
	go func() {
		defer b.shutdownWg.Done()

		if _, err := b.spam.Run(b.ctx, responder, b.config.Spam.Pool, b.config.Spam.Window); err != nil {
			logging.LogError(b.log, err)
		}
	}()
}

func (b *Bot) respond(i *discordgo.Interaction, resp *discord.Response) {
	if err := discord.SendResponse(b.session, i, resp); err != nil {
		b.log.Error().Err(err).Str("interaction", i.ID).Msg("Error sending response")
	}
}

// respondError shows err to the user. Faults that are not plain user mistakes are logged.
func (b *Bot) respondError(i *discordgo.Interaction, err error) {
	var gameErr *types.GameError
	if !types.As(err, &gameErr) || gameErr.Err != nil {
		logging.LogError(b.log, err)
	}
	b.respond(i, discord.NewErrorResponse(err))
}

func stringOption(i *discordgo.Interaction, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func userOption(i *discordgo.Interaction, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.UserValue(nil).ID
		}
	}
	return ""
}

func intOption(i *discordgo.Interaction, name string) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}
