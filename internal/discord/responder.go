package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/coinpurse/pkg/services/play"
)

// InteractionResponder renders views as the response to a deferred slash command.
// Later edits go to the channel message the response created.
type InteractionResponder struct {
	session     SessionHandler
	collector   *Collector
	interaction *discordgo.Interaction
}

// NewInteractionResponder creates a responder for an interaction already
// acknowledged with Defer
func NewInteractionResponder(session SessionHandler, collector *Collector, i *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{
		session:     session,
		collector:   collector,
		interaction: i,
	}
}

// Defer acknowledges a slash command so the bot has time to build the first view
func Defer(session SessionHandler, i *discordgo.Interaction, ephemeral bool) error {
	return session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: getFlags(ephemeral),
		},
	})
}

// DeferUpdate acknowledges a component interaction whose message the next
// response will replace
func DeferUpdate(session SessionHandler, i *discordgo.Interaction) error {
	return session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (r *InteractionResponder) Respond(ctx context.Context, view play.View) (play.Message, error) {
	embeds := []*discordgo.MessageEmbed{Embed(view)}
	components := Components(view)

	m, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return play.Message{}, fmt.Errorf("error editing interaction response: %w", err)
	}
	return play.Message{ID: m.ID, ChannelID: m.ChannelID}, nil
}

func (r *InteractionResponder) Edit(ctx context.Context, msg play.Message, view play.View) (play.Message, error) {
	return editMessage(ctx, r.session, msg, view)
}

func (r *InteractionResponder) AwaitComponent(ctx context.Context, msg play.Message, filter play.Filter, timeout time.Duration) (play.Action, error) {
	return r.collector.Await(ctx, msg, filter, timeout)
}

func (r *InteractionResponder) Subscribe(msg play.Message, filter play.Filter) (<-chan play.Action, func()) {
	return r.collector.Subscribe(msg, filter)
}

// ChannelResponder posts views as plain channel messages, for events the bot
// starts itself
type ChannelResponder struct {
	session   SessionHandler
	collector *Collector
	channelID string
}

// NewChannelResponder creates a responder posting to channelID
func NewChannelResponder(session SessionHandler, collector *Collector, channelID string) *ChannelResponder {
	return &ChannelResponder{
		session:   session,
		collector: collector,
		channelID: channelID,
	}
}

func (r *ChannelResponder) Respond(ctx context.Context, view play.View) (play.Message, error) {
	m, err := r.session.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{Embed(view)},
		Components: Components(view),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return play.Message{}, fmt.Errorf("error sending message: %w", err)
	}
	return play.Message{ID: m.ID, ChannelID: m.ChannelID}, nil
}

func (r *ChannelResponder) Edit(ctx context.Context, msg play.Message, view play.View) (play.Message, error) {
	return editMessage(ctx, r.session, msg, view)
}

func (r *ChannelResponder) AwaitComponent(ctx context.Context, msg play.Message, filter play.Filter, timeout time.Duration) (play.Action, error) {
	return r.collector.Await(ctx, msg, filter, timeout)
}

func (r *ChannelResponder) Subscribe(msg play.Message, filter play.Filter) (<-chan play.Action, func()) {
	return r.collector.Subscribe(msg, filter)
}

func editMessage(ctx context.Context, session SessionHandler, msg play.Message, view play.View) (play.Message, error) {
	embeds := []*discordgo.MessageEmbed{Embed(view)}
	components := Components(view)

	m, err := session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         msg.ID,
		Channel:    msg.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return msg, fmt.Errorf("error editing message: %w", err)
	}
	return play.Message{ID: m.ID, ChannelID: m.ChannelID}, nil
}

var (
	_ play.Responder  = (*InteractionResponder)(nil)
	_ play.Responder  = (*ChannelResponder)(nil)
	_ play.Subscriber = (*InteractionResponder)(nil)
	_ play.Subscriber = (*ChannelResponder)(nil)
)
