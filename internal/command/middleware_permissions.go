package command

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

// PermissionNames maps the permission bits this bot cares about to their
// human labels, used in rejection messages.
var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:  "Administrator",
	discordgo.PermissionManageGuild:    "Manage Server",
	discordgo.PermissionManageChannels: "Manage Channels",
	discordgo.PermissionManageMessages: "Manage Messages",
	discordgo.PermissionManageRoles:    "Manage Roles",
	discordgo.PermissionKickMembers:    "Kick Members",
	discordgo.PermissionBanMembers:     "Ban Members",
}

// WithUserPermissionCheck enforces the command's declared UserPermissions
// against the invoking member's permissions from the interaction payload.
// Any-of semantics; administrators always pass; an empty requirement list
// means the command is open.
func WithUserPermissionCheck() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(ctx *Context) error {
			m := ctx.Event.Member
			if ctx.Event.GuildID == "" || m == nil {
				return cmd.Run(ctx)
			}

			if m.Permissions&discordgo.PermissionAdministrator != 0 {
				return cmd.Run(ctx)
			}

			required := cmd.UserPermissions()
			if len(required) == 0 {
				return cmd.Run(ctx)
			}

			for _, p := range required {
				if m.Permissions&p != 0 {
					return cmd.Run(ctx)
				}
			}

			names := make([]string, 0, len(required))
			for _, p := range required {
				name := PermissionNames[p]
				if name == "" {
					name = fmt.Sprintf("0x%x", p)
				}
				names = append(names, name)
			}
			return custom.Errf(custom.KindValidation, cmd.Name(),
				"You need at least one of the following permissions to run this command: `%s`",
				strings.Join(names, "`, `"))
		})
	}
}
