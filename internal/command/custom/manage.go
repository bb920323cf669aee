// Package custom holds the /command management command: guild administrators
// create, update, delete, and inspect the guild's custom commands through it.
package custom

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

const embedColor = 0x1B2342

type ManageCommand struct{}

func (c *ManageCommand) Name() string        { return "command" }
func (c *ManageCommand) Description() string { return "Manage custom commands" }

func (c *ManageCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *ManageCommand) SlashDefinition() *discordgo.ApplicationCommand {
	nameArg := func(desc string, autocomplete bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Name:         "name",
			Description:  desc,
			Type:         discordgo.ApplicationCommandOptionString,
			Required:     true,
			Autocomplete: autocomplete,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "create",
				Description: "Create a command",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameArg("The name of the command", false),
					{
						Name:        "content",
						Description: "The response template of the command",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
					{
						Name:        "type",
						Description: "Where the command appears",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Chat", Value: int(custom.TypeChatInput)},
							{Name: "User", Value: int(custom.TypeUser)},
							{Name: "Message", Value: int(custom.TypeMessage)},
						},
					},
					{
						Name:        "description",
						Description: "The description of the command (required for chat commands)",
						Type:        discordgo.ApplicationCommandOptionString,
					},
				},
			},
			{
				Name:        "update",
				Description: "Update a command's content or description",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameArg("The name of the command", true),
					{
						Name:        "content",
						Description: "The new response template",
						Type:        discordgo.ApplicationCommandOptionString,
					},
					{
						Name:        "description",
						Description: "The new description",
						Type:        discordgo.ApplicationCommandOptionString,
					},
				},
			},
			{
				Name:        "delete",
				Description: "Delete a command",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameArg("The name of the command", true),
				},
			},
			{
				Name:        "list",
				Description: "List all commands",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "info",
				Description: "Get info about a command",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameArg("The name of the command", true),
				},
			},
		},
	}
}

func (c *ManageCommand) Run(ctx *command.Context) error {
	// Create/update/delete hit the Discord registration API, so acknowledge
	// first and fill the response in afterwards.
	err := ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	data := ctx.Event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return c.edit(ctx, &discordgo.WebhookEdit{Content: strptr("Invalid subcommand")})
	}
	sub := data.Options[0]
	args := optionMap(sub.Options)

	var reply *discordgo.WebhookEdit
	switch sub.Name {
	case "create":
		reply, err = c.create(ctx, args)
	case "update":
		reply, err = c.update(ctx, args)
	case "delete":
		reply, err = c.delete(ctx, args)
	case "list":
		reply, err = c.list(ctx)
	case "info":
		reply, err = c.info(ctx, args)
	default:
		reply = &discordgo.WebhookEdit{Content: strptr("Invalid subcommand")}
	}

	if err != nil {
		if k := custom.KindOf(err); k == custom.KindRemoteAPI || k == custom.KindStorage {
			log.Error().Err(err).
				Str("guild_id", ctx.Event.GuildID).
				Str("subcommand", sub.Name).
				Msg("command management failed")
		}
		reply = &discordgo.WebhookEdit{Content: strptr(custom.UserMessage(err))}
	}

	return c.edit(ctx, reply)
}

func (c *ManageCommand) create(ctx *command.Context, args optionArgs) (*discordgo.WebhookEdit, error) {
	in := custom.CreateInput{
		GuildID:     ctx.Event.GuildID,
		Name:        args.str("name"),
		Content:     args.str("content"),
		Description: args.str("description"),
		Type:        custom.TypeChatInput,
	}
	if t, ok := args.int("type"); ok {
		in.Type = custom.CommandType(t)
	}

	rec, err := ctx.Service.Create(ctx.Ctx, in)
	if err != nil {
		return nil, err
	}
	return &discordgo.WebhookEdit{
		Content: strptr(fmt.Sprintf("✅ `%s` created", rec.Name)),
	}, nil
}

func (c *ManageCommand) update(ctx *command.Context, args optionArgs) (*discordgo.WebhookEdit, error) {
	in := custom.UpdateInput{
		GuildID: ctx.Event.GuildID,
		Ref:     args.str("name"),
	}
	if v, ok := args.opt("content"); ok {
		in.Content = &v
	}
	if v, ok := args.opt("description"); ok {
		in.Description = &v
	}

	rec, err := ctx.Service.Update(ctx.Ctx, in)
	if err != nil {
		return nil, err
	}
	return &discordgo.WebhookEdit{
		Content: strptr(fmt.Sprintf("✅ `%s` updated", rec.Name)),
	}, nil
}

func (c *ManageCommand) delete(ctx *command.Context, args optionArgs) (*discordgo.WebhookEdit, error) {
	name := args.str("name")
	if err := ctx.Service.Delete(ctx.Ctx, ctx.Event.GuildID, name); err != nil {
		return nil, err
	}
	return &discordgo.WebhookEdit{
		Content: strptr(fmt.Sprintf("✅ `%s` deleted", name)),
	}, nil
}

func (c *ManageCommand) list(ctx *command.Context) (*discordgo.WebhookEdit, error) {
	records, err := ctx.Service.GetAll(ctx.Ctx, ctx.Event.GuildID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &discordgo.WebhookEdit{Content: strptr("No commands found")}, nil
	}
	return &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{listEmbed(records)},
	}, nil
}

func (c *ManageCommand) info(ctx *command.Context, args optionArgs) (*discordgo.WebhookEdit, error) {
	rec, err := ctx.Service.Resolve(ctx.Ctx, ctx.Event.GuildID, args.str("name"))
	if err != nil {
		return nil, err
	}

	msg, file := infoReply(rec)
	return &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{msg},
		Files:  []*discordgo.File{file},
	}, nil
}

// Autocomplete serves name suggestions for the update/delete/info
// subcommands.
func (c *ManageCommand) Autocomplete(ctx *command.Context) error {
	data := ctx.Event.ApplicationCommandData()

	prefix := ""
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Focused {
				prefix, _ = opt.Value.(string)
				break
			}
		}
	}

	suggestions, err := ctx.Service.Suggest(ctx.Ctx, ctx.Event.GuildID, prefix)
	if err != nil {
		log.Warn().Err(err).
			Str("guild_id", ctx.Event.GuildID).
			Msg("autocomplete lookup failed")
		suggestions = nil
	}

	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: autocompleteChoices(suggestions),
		},
	})
}

func (c *ManageCommand) edit(ctx *command.Context, reply *discordgo.WebhookEdit) error {
	_, err := ctx.Session.InteractionResponseEdit(ctx.Event.Interaction, reply)
	return err
}

// listEmbed renders one line per record: name, id, type, and description when
// present.
func listEmbed(records []custom.Record) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line := fmt.Sprintf("`%s` (%s, `%s`)", rec.Name, rec.Type, rec.ID)
		if rec.Description != "" {
			line += " - " + rec.Description
		}
		lines = append(lines, line)
	}
	return embed.NewEmbed().
		SetColor(embedColor).
		SetTitle("Custom Commands").
		SetDescription(strings.Join(lines, "\n")).
		MessageEmbed
}

// infoReply builds the info embed plus the template body attached as a file,
// so long templates stay readable and copyable.
func infoReply(rec *custom.Record) (*discordgo.MessageEmbed, *discordgo.File) {
	desc := "`" + rec.Name + "`"
	if rec.Description != "" {
		desc += " - " + rec.Description
	}

	msg := embed.NewEmbed().
		SetColor(embedColor).
		SetTitle("Custom Command").
		SetDescription(desc).
		AddField("Type", rec.Type.String()).
		MessageEmbed

	file := &discordgo.File{
		Name:        fmt.Sprintf("%s-%s.tmpl", rec.Name, rec.ID),
		ContentType: "text/plain",
		Reader:      strings.NewReader(rec.Content),
	}
	return msg, file
}

func autocompleteChoices(suggestions []custom.Choice) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(suggestions))
	for _, s := range suggestions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  s.Name,
			Value: s.Value,
		})
	}
	return choices
}

// optionArgs gives typed access to a subcommand's named options.
type optionArgs map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) optionArgs {
	args := make(optionArgs, len(opts))
	for _, opt := range opts {
		args[opt.Name] = opt
	}
	return args
}

func (a optionArgs) str(name string) string {
	v, _ := a.opt(name)
	return v
}

// opt reports whether the option was supplied at all, which is how update
// distinguishes "leave unchanged" from "set to empty".
func (a optionArgs) opt(name string) (string, bool) {
	o, ok := a[name]
	if !ok {
		return "", false
	}
	s, _ := o.Value.(string)
	return s, true
}

func (a optionArgs) int(name string) (int64, bool) {
	o, ok := a[name]
	if !ok {
		return 0, false
	}
	// Interaction payload numbers decode as float64.
	f, ok := o.Value.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func strptr(s string) *string { return &s }
