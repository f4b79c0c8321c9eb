package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/coinpurse/pkg/services/play"
)

// Command names
const (
	CommandPlay        = "play"
	CommandBalance     = "balance"
	CommandBet         = "bet"
	CommandRecharge    = "recharge"
	CommandDeposit     = "deposit"
	CommandWithdraw    = "withdraw"
	CommandLeaderboard = "leaderboard"
	CommandSpamEvent   = "spamevent"
	CommandStats       = "stats"
	CommandParty       = "party"
)

// Party subcommands
const (
	PartyInvite = "invite"
	PartyAccept = "accept"
	PartyLeave  = "leave"
)

const (
	OptionGame   = "game"
	OptionAmount = "amount"
	OptionUser   = "user"
)

var minAmount = 1.0

// Commands defines all slash commands for the bot. Game choices come from registry.
func Commands(registry *play.Registry) []*discordgo.ApplicationCommand {
	games := registry.List()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(games))
	for _, g := range games {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  g.Name(),
			Value: g.ID(),
		})
	}

	amount := func(description string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        OptionAmount,
			Description: description,
			Required:    true,
			MinValue:    &minAmount,
		}}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandPlay,
			Description: "Play a game with your current bet",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionGame,
				Description: "Game to play. Leave empty to pick from a menu",
				Choices:     choices,
			}},
		},
		{
			Name:        CommandBalance,
			Description: "Show your wallet, bank, bet and energy",
		},
		{
			Name:        CommandBet,
			Description: "Set the bet used for every round",
			Options:     amount("Coins to bet each round"),
		},
		{
			Name:        CommandRecharge,
			Description: "Spend one energy to open a new play window",
		},
		{
			Name:        CommandDeposit,
			Description: "Move coins from your wallet to your bank",
			Options:     amount("Coins to deposit"),
		},
		{
			Name:        CommandWithdraw,
			Description: "Move coins from your bank to your wallet",
			Options:     amount("Coins to withdraw"),
		},
		{
			Name:        CommandLeaderboard,
			Description: "Show the players who won the most coins",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionGame,
				Description: "Only count rounds of this game",
				Choices:     choices,
			}},
		},
		{
			Name:        CommandStats,
			Description: "Show per-game results and recent rounds",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptionUser,
				Description: "Player to look up. Defaults to you",
			}},
		},
		{
			Name:        CommandParty,
			Description: "Play in a party: every accepted member adds to your winnings bonus",
			Options: []*discordgo.ApplicationCommandOption{
				partyCommand(PartyInvite, "Invite a player to your party", "Player to invite"),
				partyCommand(PartyAccept, "Accept a party invite", "Player who invited you"),
				partyCommand(PartyLeave, "Leave a party or remove a member", "Party member"),
			},
		},
		{
			Name:                     CommandSpamEvent,
			Description:              "Start a spam event: everyone who claims gets a share of the pool",
			DefaultMemberPermissions: &manageServer,
		},
	}
}

var manageServer int64 = discordgo.PermissionManageServer

func partyCommand(name, description, user string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        OptionUser,
			Description: user,
			Required:    true,
		}},
	}
}
