// Package core holds the bot's built-in commands.
package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
)

// EmbedColor is the accent color used across the bot's embeds.
const EmbedColor = 0x1B2342

type PingCommand struct{}

func (c *PingCommand) Name() string             { return "ping" }
func (c *PingCommand) Description() string      { return "Check bot latency" }
func (c *PingCommand) UserPermissions() []int64 { return nil }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx *command.Context) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()

	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🏓 Pong! %dms", latency),
		},
	})
}
