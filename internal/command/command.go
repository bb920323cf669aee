// Package command defines the bot's command contract: a command is something
// with a name, description, and Run(ctx). Registration with Discord and
// dispatch are handled by the discord adapter; middleware wraps commands
// without changing their type.
package command

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
	"github.com/TinkerStorm/hack-n-slash/internal/template"
)

// Command is the universal contract. Permission requirements are declared
// here; enforcement lives in middleware.
type Command interface {
	Name() string
	Description() string
	// UserPermissions returns the permission bits that allow this command,
	// any-of semantics. Empty means open to everyone.
	UserPermissions() []int64
	Run(ctx *Context) error
}

// SlashProvider supplies the application command definition pushed to Discord
// on startup.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// AutocompleteHandler is implemented by commands that serve autocomplete
// interactions.
type AutocompleteHandler interface {
	Autocomplete(ctx *Context) error
}

// Context is what the dispatcher hands a running command.
type Context struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Service *custom.Service
	History *custom.History
	Engine  *template.Engine
}

// interactionUser returns the invoking user whether the interaction arrived
// from a guild (Member set) or a DM (User set).
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
