package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestDefinitionHashDeterministic(t *testing.T) {
	def := func() *discordgo.ApplicationCommand {
		return &discordgo.ApplicationCommand{
			Name:        "command",
			Description: "Manage custom commands",
			Type:        discordgo.ChatApplicationCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "create", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "delete", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		}
	}
	assert.Equal(t, definitionHash(def()), definitionHash(def()))
}

func TestDefinitionHashIgnoresRuntimeFields(t *testing.T) {
	a := &discordgo.ApplicationCommand{Name: "ping", Description: "Check bot latency"}
	b := &discordgo.ApplicationCommand{ID: "12345", Version: "2", Name: "ping", Description: "Check bot latency"}
	assert.Equal(t, definitionHash(a), definitionHash(b))
}

func TestDefinitionHashIgnoresOptionOrder(t *testing.T) {
	a := &discordgo.ApplicationCommand{
		Name: "command",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "create", Type: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "list", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	b := &discordgo.ApplicationCommand{
		Name: "command",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "list", Type: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "create", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	assert.Equal(t, definitionHash(a), definitionHash(b))
}

func TestDefinitionHashChangesWithContent(t *testing.T) {
	a := &discordgo.ApplicationCommand{Name: "ping", Description: "Check bot latency"}
	b := &discordgo.ApplicationCommand{Name: "ping", Description: "Check latency"}
	assert.NotEqual(t, definitionHash(a), definitionHash(b))

	c := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check bot latency",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "name", Type: discordgo.ApplicationCommandOptionString, Autocomplete: true},
		},
	}
	d := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check bot latency",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "name", Type: discordgo.ApplicationCommandOptionString},
		},
	}
	assert.NotEqual(t, definitionHash(c), definitionHash(d))
}
