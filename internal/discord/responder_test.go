package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordmock "github.com/fadedpez/coinpurse/internal/discord/mock"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testView = play.View{
	Title: "Dice Roll",
	Rows: []play.Row{play.ButtonRow(
		play.Button{ID: "s:1:roll", Label: "Roll"},
	)},
}

func TestInteractionResponderRespond(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := discordmock.NewMockSessionHandler(ctrl)
	interaction := &discordgo.Interaction{ID: "i1"}
	r := NewInteractionResponder(session, NewCollector(session, zerolog.Nop()), interaction)

	session.EXPECT().
		InteractionResponseEdit(interaction, gomock.Any(), gomock.Any()).
		DoAndReturn(func(i *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			require.NotNil(t, edit.Embeds)
			assert.Equal(t, "Dice Roll", (*edit.Embeds)[0].Title)
			require.NotNil(t, edit.Components)
			assert.Len(t, *edit.Components, 1)
			return &discordgo.Message{ID: "m1", ChannelID: "c1"}, nil
		})

	msg, err := r.Respond(context.Background(), testView)

	require.NoError(t, err)
	assert.Equal(t, play.Message{ID: "m1", ChannelID: "c1"}, msg)
}

func TestInteractionResponderRespondError(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := discordmock.NewMockSessionHandler(ctrl)
	r := NewInteractionResponder(session, NewCollector(session, zerolog.Nop()), &discordgo.Interaction{})

	session.EXPECT().
		InteractionResponseEdit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("unknown interaction"))

	_, err := r.Respond(context.Background(), testView)

	assert.ErrorContains(t, err, "unknown interaction")
}

func TestChannelResponder(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := discordmock.NewMockSessionHandler(ctrl)
	r := NewChannelResponder(session, NewCollector(session, zerolog.Nop()), "events")

	session.EXPECT().
		ChannelMessageSendComplex("events", gomock.Any(), gomock.Any()).
		DoAndReturn(func(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			assert.Equal(t, "Dice Roll", data.Embeds[0].Title)
			return &discordgo.Message{ID: "m1", ChannelID: channelID}, nil
		})
	session.EXPECT().
		ChannelMessageEditComplex(gomock.Any(), gomock.Any()).
		DoAndReturn(func(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			assert.Equal(t, "m1", m.ID)
			assert.Equal(t, "events", m.Channel)
			assert.True(t, (*m.Components)[0].(discordgo.ActionsRow).Components[0].(discordgo.Button).Disabled)
			return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
		})

	msg, err := r.Respond(context.Background(), testView)
	require.NoError(t, err)

	msg, err = r.Edit(context.Background(), msg, testView.Disabled())
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
}

func TestEditKeepsMessageOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := discordmock.NewMockSessionHandler(ctrl)
	r := NewChannelResponder(session, NewCollector(session, zerolog.Nop()), "events")
	msg := play.Message{ID: "m1", ChannelID: "events"}

	session.EXPECT().
		ChannelMessageEditComplex(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("missing access"))

	got, err := r.Edit(context.Background(), msg, testView)

	assert.Error(t, err)
	assert.Equal(t, msg, got)
}
