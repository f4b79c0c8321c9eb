package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/coinpurse/pkg/entities"
	"github.com/fadedpez/coinpurse/pkg/format"
	"github.com/fadedpez/coinpurse/pkg/repositories/rounds"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/fadedpez/coinpurse/pkg/services/statistics"
)

const LeaderboardSize = 10

var medals = []string{"🥇", "🥈", "🥉"}

func balanceEmbed(p *entities.PlayerEconomy, now time.Time) *discordgo.MessageEmbed {
	energy := "expired, use `/recharge`"
	if !p.Energy.IsExpired(now) {
		energy = fmt.Sprintf("active until <t:%d:t>", p.Energy.Expire.Unix())
	}

	return &discordgo.MessageEmbed{
		Title: "👛 Balance",
		Color: play.ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Wallet",
				Value:  fmt.Sprintf("%s / %s", format.Coins(p.Wallet.Value), format.Coins(p.Wallet.MaxValue(p.Upgrades.Mastery))),
				Inline: true,
			},
			{
				Name:   "Bank",
				Value:  fmt.Sprintf("%s / %s", format.Coins(p.Bank.Value), format.Coins(p.Bank.Space.Value)),
				Inline: true,
			},
			{
				Name:   "Bet",
				Value:  fmt.Sprintf("%s (%s to %s)", format.Coins(p.Bet.Value), format.Coins(p.MinBet()), format.Coins(p.MaxBet())),
				Inline: true,
			},
			{
				Name:   "Energy",
				Value:  fmt.Sprintf("⚡ %d / %d, %s", p.Energy.Energy(), p.Energy.MaxEnergy(p.Upgrades.Tier), energy),
				Inline: false,
			},
			{
				Name:   "Multiplier",
				Value:  format.Percent(p.EffectiveMultiplier(now)),
				Inline: true,
			},
		},
	}
}

func leaderboardEmbed(title string, standings []rounds.Standing) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: play.ColorWin,
	}
	if len(standings) == 0 {
		embed.Description = "Nobody has played yet."
		return embed
	}

	lines := make([]string, 0, len(standings))
	for idx, s := range standings {
		rank := fmt.Sprintf("**%d.**", idx+1)
		if idx < len(medals) {
			rank = medals[idx]
		}
		lines = append(lines, fmt.Sprintf("%s <@%s> won **%s** coins in %d rounds", rank, s.UserID, format.Coins(s.Won), s.Rounds))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func statsEmbed(r *statistics.PlayerReport, registry *play.Registry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📊 Statistics",
		Description: fmt.Sprintf("<@%s>", r.UserID),
		Color:       play.ColorNeutral,
		Timestamp:   r.LastUpdated.Format(time.RFC3339),
	}
	if r.Played == 0 {
		embed.Description += " has not played yet."
		return embed
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Overall",
		Value: fmt.Sprintf("%d rounds, %.1f%% won, %s coins",
			r.Played, r.WinRate, format.Signed(r.Profit)),
	})

	for _, g := range r.Games {
		name := g.GameID
		if game, err := registry.Get(g.GameID); err == nil {
			name = game.Name()
		}
		if g.IsFavorite {
			name += " ⭐"
		}
		if g.IsBest {
			name += " 💰"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: name,
			Value: fmt.Sprintf("%d W / %d L / %d T (%.1f%%)\nWin streak %d, top payoff %s",
				g.Wins.Count, g.Loses.Count, g.Ties.Count, g.WinRate, g.Wins.Streak, format.Coins(g.Wins.Highest)),
			Inline: true,
		})
	}

	if len(r.Recent) > 0 {
		lines := make([]string, 0, len(r.Recent))
		for _, round := range r.Recent {
			lines = append(lines, fmt.Sprintf("`%s` %s %s", round.GameID, round.Outcome, format.Signed(round.Net())))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Recent rounds (%s)", format.Signed(r.RecentNet)),
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
