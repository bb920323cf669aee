package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
	"github.com/TinkerStorm/hack-n-slash/pkg/retrylimit"
)

// CommandRegistrar implements custom.Registrar against the Discord
// application-command REST API. Calls go through an adaptive limiter so a
// guild bulk-editing its commands degrades gracefully instead of tripping
// rate limits.
type CommandRegistrar struct {
	session *discordgo.Session
	token   string
	limiter *retrylimit.AdaptiveLimiter
}

// NewCommandRegistrar returns a registrar over the given session. The token
// is kept only for redacting it out of API error messages.
func NewCommandRegistrar(s *discordgo.Session, token string) *CommandRegistrar {
	return &CommandRegistrar{
		session: s,
		token:   token,
		limiter: retrylimit.NewAdaptiveLimiter(10, 1, 25, 1, 5),
	}
}

func (r *CommandRegistrar) CreateCommand(ctx context.Context, guildID string, spec custom.RegistrationSpec) (*custom.Registration, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, custom.WrapErr(custom.KindRemoteAPI, "create", err)
	}

	created, err := r.session.ApplicationCommandCreate(
		r.appID(), guildID, commandPayload(spec), discordgo.WithContext(ctx))
	if err != nil {
		return nil, r.apiErr("create", err)
	}
	r.limiter.Success()

	return registrationOf(guildID, created), nil
}

func (r *CommandRegistrar) UpdateCommand(ctx context.Context, guildID, id string, spec custom.RegistrationSpec) (*custom.Registration, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, custom.WrapErr(custom.KindRemoteAPI, "update", err)
	}

	updated, err := r.session.ApplicationCommandEdit(
		r.appID(), guildID, id, commandPayload(spec), discordgo.WithContext(ctx))
	if err != nil {
		return nil, r.apiErr("update", err)
	}
	r.limiter.Success()

	return registrationOf(guildID, updated), nil
}

func (r *CommandRegistrar) DeleteCommand(ctx context.Context, guildID, id string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return custom.WrapErr(custom.KindRemoteAPI, "delete", err)
	}

	err := r.session.ApplicationCommandDelete(r.appID(), guildID, id, discordgo.WithContext(ctx))
	if err != nil {
		return r.apiErr("delete", err)
	}
	r.limiter.Success()
	return nil
}

func (r *CommandRegistrar) appID() string {
	if r.session.State != nil && r.session.State.User != nil {
		return r.session.State.User.ID
	}
	return ""
}

// apiErr tags the failure as remote, adjusts the limiter, and scrubs the bot
// token out of whatever Discord put in the message.
func (r *CommandRegistrar) apiErr(op string, err error) error {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		r.limiter.Throttled()
	}
	return custom.WrapErr(custom.KindRemoteAPI, op,
		errors.New(custom.Redact(err.Error(), r.token)))
}

// commandPayload maps a registration spec onto the wire shape. Discord
// rejects descriptions on user and message commands, so only chat commands
// carry one.
func commandPayload(spec custom.RegistrationSpec) *discordgo.ApplicationCommand {
	payload := &discordgo.ApplicationCommand{
		Name: spec.Name,
		Type: applicationCommandType(spec.Type),
	}
	if spec.Type == custom.TypeChatInput {
		payload.Description = spec.Description
	}
	return payload
}

func applicationCommandType(t custom.CommandType) discordgo.ApplicationCommandType {
	switch t {
	case custom.TypeUser:
		return discordgo.UserApplicationCommand
	case custom.TypeMessage:
		return discordgo.MessageApplicationCommand
	default:
		return discordgo.ChatApplicationCommand
	}
}

func registrationOf(guildID string, cmd *discordgo.ApplicationCommand) *custom.Registration {
	return &custom.Registration{
		ID:      cmd.ID,
		GuildID: guildID,
		Name:    cmd.Name,
		Type:    custom.CommandType(cmd.Type),
	}
}
