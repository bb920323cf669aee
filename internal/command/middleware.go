package command

import (
	"github.com/bwmarrin/discordgo"
)

// Middleware wraps a command (logging, permission checks). The wrapped type
// remains Command, and the inner command stays reachable via Unwrap so the
// adapter can type-assert to SlashProvider or AutocompleteHandler.
type Middleware func(Command) Command

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Unwrappable is implemented by wrapped commands.
type Unwrappable interface {
	Command
	Unwrap() Command
}

type wrapped struct {
	inner Command
	run   func(ctx *Context) error
}

func (w *wrapped) Name() string             { return w.inner.Name() }
func (w *wrapped) Description() string      { return w.inner.Description() }
func (w *wrapped) UserPermissions() []int64 { return w.inner.UserPermissions() }

func (w *wrapped) Run(ctx *Context) error {
	if w.run != nil {
		return w.run(ctx)
	}
	return w.inner.Run(ctx)
}

func (w *wrapped) Unwrap() Command { return w.inner }

func (w *wrapped) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := Root(w).(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (w *wrapped) Autocomplete(ctx *Context) error {
	if ah, ok := Root(w).(AutocompleteHandler); ok {
		return ah.Autocomplete(ctx)
	}
	return nil
}

// Wrap returns a command that runs run instead of c.Run, delegating identity
// to c.
func Wrap(c Command, run func(ctx *Context) error) Command {
	return &wrapped{inner: c, run: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
