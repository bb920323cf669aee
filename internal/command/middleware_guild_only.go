package command

import (
	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

// WithGuildOnly rejects invocations that arrive outside a guild. The
// dispatcher turns the returned error into an ephemeral reply.
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(ctx *Context) error {
			if ctx.Event.GuildID == "" {
				return custom.Errf(custom.KindValidation, cmd.Name(),
					"This command can only be used in a server.")
			}
			return cmd.Run(ctx)
		})
	}
}
