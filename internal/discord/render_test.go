package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	view := play.View{
		Title:       "Coin Flip",
		Description: "Heads or tails?",
		Color:       play.ColorNeutral,
		Fields: []play.Field{
			{Name: "Bet", Value: "1,000", Inline: true},
		},
		Footer: "You took too long to respond.",
	}

	embed := Embed(view)

	assert.Equal(t, "Coin Flip", embed.Title)
	assert.Equal(t, "Heads or tails?", embed.Description)
	assert.Equal(t, play.ColorNeutral, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Bet", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "You took too long to respond.", embed.Footer.Text)
}

func TestEmbedWithoutFooter(t *testing.T) {
	assert.Nil(t, Embed(play.View{Title: "x"}).Footer)
}

func TestComponents(t *testing.T) {
	view := play.View{
		Rows: []play.Row{
			play.ButtonRow(
				play.Button{ID: "s:1:heads", Label: "Heads", Emoji: "🙂", Style: play.StyleSuccess},
				play.Button{ID: "s:1:tails", Label: "Tails", Style: play.StyleDanger, Disabled: true},
			),
			{},
			{Select: &play.Select{
				ID:          "picker",
				Placeholder: "Select a game",
				Options:     []play.Option{{Label: "Blackjack", Value: "blackjack", Emoji: "🃏"}},
			}},
		},
	}

	components := Components(view)

	require.Len(t, components, 2)

	buttons := components[0].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 2)
	heads := buttons[0].(discordgo.Button)
	assert.Equal(t, "s:1:heads", heads.CustomID)
	assert.Equal(t, discordgo.SuccessButton, heads.Style)
	require.NotNil(t, heads.Emoji)
	assert.Equal(t, "🙂", heads.Emoji.Name)
	tails := buttons[1].(discordgo.Button)
	assert.Equal(t, discordgo.DangerButton, tails.Style)
	assert.True(t, tails.Disabled)
	assert.Nil(t, tails.Emoji)

	menu := components[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, "picker", menu.CustomID)
	assert.Equal(t, discordgo.StringSelectMenu, menu.MenuType)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, "blackjack", menu.Options[0].Value)
}
