package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

var buttonStyles = map[play.ButtonStyle]discordgo.ButtonStyle{
	play.StylePrimary:   discordgo.PrimaryButton,
	play.StyleSecondary: discordgo.SecondaryButton,
	play.StyleSuccess:   discordgo.SuccessButton,
	play.StyleDanger:    discordgo.DangerButton,
}

// Embed renders the text part of a view
func Embed(v play.View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       v.Title,
		Description: v.Description,
		Color:       v.Color,
	}
	for _, f := range v.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if v.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: v.Footer}
	}
	return embed
}

// Components renders the controls of a view as action rows
func Components(v play.View) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(v.Rows))
	for _, row := range v.Rows {
		if row.Select != nil {
			components = append(components, discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{selectMenu(*row.Select)},
			})
			continue
		}
		if len(row.Buttons) == 0 {
			continue
		}

		buttons := make([]discordgo.MessageComponent, 0, len(row.Buttons))
		for _, b := range row.Buttons {
			buttons = append(buttons, button(b))
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return components
}

func button(b play.Button) discordgo.Button {
	style, ok := buttonStyles[b.Style]
	if !ok {
		style = discordgo.PrimaryButton
	}
	return discordgo.Button{
		Label:    b.Label,
		Style:    style,
		CustomID: b.ID,
		Disabled: b.Disabled,
		Emoji:    emoji(b.Emoji),
	}
}

func selectMenu(s play.Select) discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, len(s.Options))
	for _, o := range s.Options {
		options = append(options, discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
			Emoji:       emoji(o.Emoji),
		})
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    s.ID,
		Placeholder: s.Placeholder,
		Options:     options,
		Disabled:    s.Disabled,
	}
}

func emoji(name string) *discordgo.ComponentEmoji {
	if name == "" {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: name}
}
