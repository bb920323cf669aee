package command

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

// WithCommandLogger records each execution in the guild's usage history after
// the command runs. History failures are logged, never surfaced to the user.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(ctx *Context) error {
			err := cmd.Run(ctx)

			if ctx.History == nil || ctx.Event.GuildID == "" {
				return err
			}
			user := interactionUser(ctx.Event)
			if user == nil {
				return err
			}

			rec := custom.UsageRecord{
				UserID:    user.ID,
				Username:  user.Username,
				ChannelID: ctx.Event.ChannelID,
				Command:   cmd.Name(),
				When:      time.Now().UTC(),
			}
			if e := ctx.History.Append(ctx.Ctx, ctx.Event.GuildID, rec); e != nil {
				log.Warn().Err(e).
					Str("guild_id", ctx.Event.GuildID).
					Str("command", cmd.Name()).
					Msg("failed to record command usage")
			}

			return err
		})
	}
}
