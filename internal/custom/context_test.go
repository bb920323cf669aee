package custom

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greetRecord() *Record {
	return &Record{
		ID:          "1001",
		GuildID:     "g1",
		Name:        "greet",
		Type:        TypeChatInput,
		Content:     "Hello {{user.username}}",
		Description: "greets you",
	}
}

func slashInteraction() *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "g1",
			ChannelID: "c1",
			Token:     "very-secret-token",
			Member: &discordgo.Member{
				Nick:  "Al",
				Roles: []string{"r1", "r2"},
				User:  &discordgo.User{ID: "u1", Username: "alice"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				ID:   "1001",
				Name: "greet",
			},
		},
	}
}

func TestBuildContextBasics(t *testing.T) {
	ctx := BuildContext(slashInteraction(), greetRecord())

	assert.Equal(t, "g1", ctx["guild_id"])
	assert.Equal(t, "c1", ctx["channel_id"])

	command, ok := ctx["command"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1001", command["id"])
	assert.Equal(t, "greet", command["name"])
	assert.Equal(t, "greets you", command["description"])
	assert.Equal(t, "Chat", command["type"])

	user, ok := ctx["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "<@u1>", user["mention"])

	member, ok := ctx["member"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Al", member["nick"])
	assert.Equal(t, []string{"r1", "r2"}, member["roles"])
}

func TestBuildContextOmitsToken(t *testing.T) {
	ctx := BuildContext(slashInteraction(), greetRecord())

	for key, value := range ctx {
		assert.NotEqual(t, "token", key)
		if s, ok := value.(string); ok {
			assert.NotEqual(t, "very-secret-token", s)
		}
	}
}

func TestBuildContextDeterministic(t *testing.T) {
	first := BuildContext(slashInteraction(), greetRecord())
	second := BuildContext(slashInteraction(), greetRecord())
	assert.Equal(t, first, second)
}

func TestBuildContextResolvedTarget(t *testing.T) {
	i := slashInteraction()
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.TargetID = "u2"
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{
			"u2": {ID: "u2", Username: "bob"},
		},
	}
	i.Data = data

	rec := greetRecord()
	rec.Type = TypeUser
	ctx := BuildContext(i, rec)

	target, ok := ctx["target_user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob", target["username"])

	users, ok := ctx["users"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, users, "u2")
}

func TestBuildContextResolvedMessage(t *testing.T) {
	i := slashInteraction()
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.TargetID = "m1"
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Messages: map[string]*discordgo.Message{
			"m1": {ID: "m1", Content: "hi there", ChannelID: "c1", Author: &discordgo.User{ID: "u2", Username: "bob"}},
		},
	}
	i.Data = data

	rec := greetRecord()
	rec.Type = TypeMessage
	ctx := BuildContext(i, rec)

	target, ok := ctx["target_message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi there", target["content"])

	author, ok := target["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob", author["username"])
}

func TestBuildContextOptions(t *testing.T) {
	i := slashInteraction()
	data := i.Data.(discordgo.ApplicationCommandInteractionData)
	data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
	}
	i.Data = data

	ctx := BuildContext(i, greetRecord())

	options, ok := ctx["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), options["count"])
}
