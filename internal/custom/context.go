package custom

import (
	"github.com/bwmarrin/discordgo"
)

// BuildContext assembles the data map a template renders against: the command
// record's own metadata, the invoking user/member, the target entity for
// user/message commands, and every entity resolved in the interaction
// payload. Pure copy of interaction state; never touches the store, the
// session, or the network, and never includes the interaction token.
func BuildContext(i *discordgo.InteractionCreate, rec *Record) map[string]any {
	data := i.ApplicationCommandData()

	ctx := map[string]any{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
		"command": map[string]any{
			"id":          rec.ID,
			"name":        rec.Name,
			"description": rec.Description,
			"type":        rec.Type.String(),
		},
	}

	user := i.User
	if i.Member != nil {
		user = i.Member.User
		ctx["member"] = memberMap(i.Member)
	}
	if user != nil {
		ctx["user"] = userMap(user)
	}

	if len(data.Options) > 0 {
		options := make(map[string]any, len(data.Options))
		for _, opt := range data.Options {
			options[opt.Name] = opt.Value
		}
		ctx["options"] = options
	}

	if resolved := data.Resolved; resolved != nil {
		if len(resolved.Users) > 0 {
			users := make(map[string]any, len(resolved.Users))
			for id, u := range resolved.Users {
				users[id] = userMap(u)
			}
			ctx["users"] = users
		}
		if len(resolved.Members) > 0 {
			members := make(map[string]any, len(resolved.Members))
			for id, m := range resolved.Members {
				members[id] = memberMap(m)
			}
			ctx["members"] = members
		}
		if len(resolved.Roles) > 0 {
			roles := make(map[string]any, len(resolved.Roles))
			for id, r := range resolved.Roles {
				roles[id] = roleMap(r)
			}
			ctx["roles"] = roles
		}
		if len(resolved.Channels) > 0 {
			channels := make(map[string]any, len(resolved.Channels))
			for id, c := range resolved.Channels {
				channels[id] = channelMap(c)
			}
			ctx["channels"] = channels
		}
		if len(resolved.Messages) > 0 {
			messages := make(map[string]any, len(resolved.Messages))
			for id, m := range resolved.Messages {
				messages[id] = messageMap(m)
			}
			ctx["messages"] = messages
		}

		// Target entity for user/message command types.
		if data.TargetID != "" {
			if u, ok := resolved.Users[data.TargetID]; ok {
				ctx["target_user"] = userMap(u)
			}
			if m, ok := resolved.Messages[data.TargetID]; ok {
				ctx["target_message"] = messageMap(m)
			}
		}
	}

	return ctx
}

func userMap(u *discordgo.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"username":    u.Username,
		"global_name": u.GlobalName,
		"mention":     u.Mention(),
		"bot":         u.Bot,
	}
}

func memberMap(m *discordgo.Member) map[string]any {
	out := map[string]any{
		"nick":  m.Nick,
		"roles": append([]string(nil), m.Roles...),
	}
	if m.User != nil {
		out["user"] = userMap(m.User)
	}
	return out
}

func roleMap(r *discordgo.Role) map[string]any {
	return map[string]any{
		"id":      r.ID,
		"name":    r.Name,
		"mention": r.Mention(),
		"color":   r.Color,
	}
}

func channelMap(c *discordgo.Channel) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"name":    c.Name,
		"mention": c.Mention(),
		"topic":   c.Topic,
	}
}

func messageMap(m *discordgo.Message) map[string]any {
	out := map[string]any{
		"id":         m.ID,
		"content":    m.Content,
		"channel_id": m.ChannelID,
	}
	if m.Author != nil {
		out["author"] = userMap(m.Author)
	}
	return out
}
