package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"item not found", "looking up price: item not found: Coal", MsgItemNotFound},
		{"duplicate entry", "entry already logged: Abyssal whip", MsgDuplicateEntry},
		{"event not owned", "event not found or not owned by caller", MsgEventNotOwned},
		{"user not found", "user not found: 123", MsgUserNotFound},
		{"invalid input", "invalid input: quantity must be at least 1", MsgInvalidInput},
		{"unknown error", "connection reset by peer", "❌ " + MsgGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFriendlyError(tt.msg))
		})
	}
}

func TestCommandsEqual(t *testing.T) {
	a := &discordgo.ApplicationCommand{
		Name:        "drop",
		Description: "Record a drop you received",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item name", Required: true, Autocomplete: true},
		},
	}
	b := &discordgo.ApplicationCommand{
		Name:        "drop",
		Description: "Record a drop you received",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item name", Required: true, Autocomplete: true},
		},
	}

	assert.True(t, commandsEqual([]*discordgo.ApplicationCommand{a}, []*discordgo.ApplicationCommand{b}))

	b.Options[0].Description = "changed"
	assert.False(t, commandsEqual([]*discordgo.ApplicationCommand{a}, []*discordgo.ApplicationCommand{b}))

	assert.False(t, commandsEqual(nil, []*discordgo.ApplicationCommand{a}))
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, validateRequest(DropRequest{Item: "Twisted bow", Quantity: 1}))
	assert.Error(t, validateRequest(DropRequest{Item: "", Quantity: 1}))
	assert.Error(t, validateRequest(DropRequest{Item: "Coal", Quantity: 0}))
	assert.Error(t, validateRequest(RemoveRequest{EventID: 0}))
	assert.NoError(t, validateRequest(HandleRequest{Handle: "Zezima"}))
	assert.Error(t, validateRequest(HandleRequest{Handle: ""}))
}

func TestBoardPosition(t *testing.T) {
	assert.Equal(t, "🥇", boardPosition(0))
	assert.Equal(t, "🥉", boardPosition(2))
	assert.Equal(t, "` 4.`", boardPosition(3))
}
