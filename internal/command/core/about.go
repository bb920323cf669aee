package core

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
	"github.com/TinkerStorm/hack-n-slash/internal/version"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string             { return "about" }
func (c *AboutCommand) Description() string      { return "About the bot" }
func (c *AboutCommand) UserPermissions() []int64 { return nil }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "me",
				Description: "What am I?",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "creator",
				Description: "What are you?",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "future",
				Description: "What is my future?",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

func (c *AboutCommand) Run(ctx *command.Context) error {
	data := ctx.Event.ApplicationCommandData()

	sub := ""
	if len(data.Options) > 0 {
		sub = data.Options[0].Name
	}

	var resp *discordgo.InteractionResponseData
	switch sub {
	case "me":
		resp = aboutMe()
	case "creator":
		resp = aboutCreator()
	case "future":
		resp = aboutFuture()
	default:
		resp = &discordgo.InteractionResponseData{Content: "I don't know what you mean."}
	}

	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
}

func aboutMe() *discordgo.InteractionResponseData {
	msg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle("What is " + version.AppName + "?").
		SetDescription(strings.Join([]string{
			version.AppDescription,
			"My responses are stored in a database, and can be edited and deleted by anyone with the `Manage Server` permission.",
		}, "\n"))

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{msg.MessageEmbed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				linkButton("GitHub", version.Repository),
				linkButton("Support Server", "https://discord.gg/Bb3JQQG"),
			}},
		},
	}
}

func aboutCreator() *discordgo.InteractionResponseData {
	msg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle("What is TinkerStorm?").
		SetURL("https://github.com/TinkerStorm").
		SetDescription(strings.Join([]string{
			"An organization dedicated to researching the decisions of communities and their players (and to develop some tools along the way).",
			"We drive our research and development based on the feedback of our peers and the obstacles we face.",
			"Feel free to join us in our discussions and our project endeavours.",
		}, "\n"))

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{msg.MessageEmbed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				linkButton("Discord", "https://discord.gg/Bb3JQQG"),
				linkButton("GitHub", "https://github.com/TinkerStorm"),
			}},
		},
	}
}

func aboutFuture() *discordgo.InteractionResponseData {
	msg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle("What is my future?").
		SetDescription(strings.Join([]string{
			"My future is very dependant on where Discord takes their API next...",
			"But, for now, I am here to stay.",
			"",
			"Some of my planned features:",
			"- Command Arguments and Subcommands",
			"- Message Components",
			"- Message Embeds",
			"- Custom Blocks",
			"- Cooldowns",
		}, "\n"))

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{msg.MessageEmbed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				linkButton("Feature Requests", version.Repository+"#feature-requests"),
			}},
		},
	}
}

func linkButton(label, url string) discordgo.Button {
	return discordgo.Button{
		Label: label,
		Style: discordgo.LinkButton,
		URL:   url,
	}
}
