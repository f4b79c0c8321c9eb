package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/coinpurse/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrGameNotFound:      "🔍",
	types.ErrGameInProgress:    "🎮",
	types.ErrGameAlreadyEnded:  "🏁",
	types.ErrInsufficientFunds: "💸",
	types.ErrInvalidBet:        "🎲",
	types.ErrNoEnergy:          "🔋",
	types.ErrBankFull:          "🏦",
	types.ErrWalletFull:        "👛",
	types.ErrInvalidAction:     "❌",
	types.ErrInvalidCommand:    "⛔",
	types.ErrInvalidArgument:   "❗",
	types.ErrPermissionDenied:  "🚫",
	types.ErrInternalError:     "💥",
	types.ErrNetworkError:      "🌐",
	types.ErrDatabaseError:     "💾",
}

// Response represents a Discord interaction response
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
}

// NewResponse creates a new Response
func NewResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  false,
	}
}

// NewEphemeralResponse creates a new ephemeral Response (only visible to the user)
func NewEphemeralResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  true,
	}
}

// NewEmbedResponse wraps a single embed
func NewEmbedResponse(embed *discordgo.MessageEmbed, ephemeral bool) *Response {
	return &Response{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Ephemeral: ephemeral,
	}
}

// NewErrorResponse creates a new error Response
func NewErrorResponse(err error) *Response {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return NewEphemeralResponse(fmt.Sprintf("%s %s", emoji, gameErr.Message), nil)
	}
	return NewEphemeralResponse(fmt.Sprintf("❌ %s", types.UserMessage(err)), nil)
}

// SendResponse sends a response to a Discord interaction
func SendResponse(s SessionHandler, i *discordgo.Interaction, r *Response) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    r.Content,
			Embeds:     r.Embeds,
			Components: r.Components,
			Flags:      getFlags(r.Ephemeral),
		},
	})
}

// EditResponse replaces the body of a deferred interaction response
func EditResponse(s SessionHandler, i *discordgo.Interaction, r *Response) error {
	edit := &discordgo.WebhookEdit{
		Content:    &r.Content,
		Components: &r.Components,
	}
	if len(r.Embeds) > 0 {
		edit.Embeds = &r.Embeds
	}
	_, err := s.InteractionResponseEdit(i, edit)
	return err
}

// SendErrorResponse sends an error response
func SendErrorResponse(s SessionHandler, i *discordgo.Interaction, err error) error {
	return SendResponse(s, i, NewErrorResponse(err))
}

// Helper functions

func getFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
