package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

func TestCommandPayloadChat(t *testing.T) {
	payload := commandPayload(custom.RegistrationSpec{
		Name:        "greet",
		Description: "greets you",
		Type:        custom.TypeChatInput,
	})

	assert.Equal(t, "greet", payload.Name)
	assert.Equal(t, discordgo.ChatApplicationCommand, payload.Type)
	assert.Equal(t, "greets you", payload.Description)
}

func TestCommandPayloadContextMenusDropDescription(t *testing.T) {
	user := commandPayload(custom.RegistrationSpec{
		Name:        "Poke User",
		Description: "ignored",
		Type:        custom.TypeUser,
	})
	assert.Equal(t, discordgo.UserApplicationCommand, user.Type)
	assert.Empty(t, user.Description)

	message := commandPayload(custom.RegistrationSpec{
		Name: "Quote This",
		Type: custom.TypeMessage,
	})
	assert.Equal(t, discordgo.MessageApplicationCommand, message.Type)
}

func TestRegistrationOf(t *testing.T) {
	reg := registrationOf("g1", &discordgo.ApplicationCommand{
		ID:   "1001",
		Name: "greet",
		Type: discordgo.ChatApplicationCommand,
	})

	require.NotNil(t, reg)
	assert.Equal(t, "1001", reg.ID)
	assert.Equal(t, "g1", reg.GuildID)
	assert.Equal(t, custom.TypeChatInput, reg.Type)
}

func TestAPIErrRedactsToken(t *testing.T) {
	r := NewCommandRegistrar(nil, "sup3r-secret")
	err := r.apiErr("create", errors.New("HTTP 401 Unauthorized, token sup3r-secret rejected"))

	assert.True(t, custom.IsKind(err, custom.KindRemoteAPI))
	assert.NotContains(t, err.Error(), "sup3r-secret")
}
