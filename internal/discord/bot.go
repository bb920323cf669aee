// Package discord adapts the bot's domain to the Discord gateway: session
// lifecycle, interaction dispatch, command registration sync, and the
// registrar behind the custom-command service.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
	"github.com/TinkerStorm/hack-n-slash/internal/config"
	"github.com/TinkerStorm/hack-n-slash/internal/custom"
	"github.com/TinkerStorm/hack-n-slash/internal/store"
	"github.com/TinkerStorm/hack-n-slash/internal/template"
	"github.com/TinkerStorm/hack-n-slash/pkg/util"
)

// maxResponseLength is Discord's message content cap.
const maxResponseLength = 2000

// interactionTimeout bounds the work done for one interaction, inside
// Discord's 15-minute deferred-response window but far below it.
const interactionTimeout = 30 * time.Second

// syncWorkers caps concurrent guild syncs on startup.
const syncWorkers = 4

// Bot owns the gateway session and dispatches interactions to built-in
// commands and guild-defined custom commands.
type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	registry *command.Registry
	service  *custom.Service
	history  *custom.History
	engine   *template.Engine
	store    store.Store
}

// NewBot wires a bot over an unopened session.
func NewBot(
	session *discordgo.Session,
	cfg *config.Config,
	registry *command.Registry,
	service *custom.Service,
	history *custom.History,
	engine *template.Engine,
	st store.Store,
) *Bot {
	return &Bot{
		session:  session,
		cfg:      cfg,
		registry: registry,
		service:  service,
		history:  history,
		engine:   engine,
		store:    st,
	}
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds

	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing gateway session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("username", s.State.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("bot is running")

	if !b.cfg.SyncCommandsOnStart {
		log.Info().Msg("startup command sync skipped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	err := util.Parallel(ctx, r.Guilds, syncWorkers, func(ctx context.Context, g *discordgo.Guild) error {
		if err := b.syncGuild(ctx, g.ID); err != nil {
			log.Error().Err(err).Str("guild_id", g.ID).Msg("startup command sync failed")
		}
		// One broken guild must not stop the rest.
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("startup command sync aborted")
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Info().Str("guild_id", g.ID).Str("guild", g.Name).Msg("joined guild")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := b.syncGuild(ctx, g.ID); err != nil {
		log.Error().Err(err).Str("guild_id", g.ID).Msg("guild command sync failed")
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if cmd := b.registry.Get(data.Name); cmd != nil {
			b.runBuiltin(s, i, cmd)
			return
		}
		b.runCustom(s, i)
	}
}

func (b *Bot) commandContext(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) *command.Context {
	return &command.Context{
		Ctx:     ctx,
		Session: s,
		Event:   i,
		Service: b.service,
		History: b.history,
		Engine:  b.engine,
	}
}

func (b *Bot) runBuiltin(s *discordgo.Session, i *discordgo.InteractionCreate, cmd command.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	err := cmd.Run(b.commandContext(ctx, s, i))
	if err == nil {
		return
	}

	switch custom.KindOf(err) {
	case custom.KindValidation, custom.KindNotFound, custom.KindConflict:
		// Expected control flow; the user message carries the detail.
	default:
		log.Error().Err(err).
			Str("guild_id", i.GuildID).
			Str("command", cmd.Name()).
			Msg("command failed")
	}
	if e := ReplyError(s, i, custom.UserMessage(err)); e != nil {
		log.Warn().Err(e).Str("command", cmd.Name()).Msg("failed to deliver error reply")
	}
}

// runCustom resolves the invoked registration to its stored record, renders
// the template against the interaction, and replies with the result.
func (b *Bot) runCustom(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	data := i.ApplicationCommandData()

	if err := RespondDeferred(s, i); err != nil {
		log.Warn().Err(err).Str("command", data.Name).Msg("failed to acknowledge interaction")
		return
	}

	output, err := b.renderCustom(ctx, i)
	if err != nil {
		switch custom.KindOf(err) {
		case custom.KindValidation, custom.KindNotFound, custom.KindConflict, custom.KindTemplate:
		default:
			log.Error().Err(err).
				Str("guild_id", i.GuildID).
				Str("command_id", data.ID).
				Str("command", data.Name).
				Msg("custom command failed")
		}
		output = custom.UserMessage(err)
	}

	if e := EditResponse(s, i, output); e != nil {
		log.Warn().Err(e).Str("command", data.Name).Msg("failed to deliver response")
	}
}

func (b *Bot) renderCustom(ctx context.Context, i *discordgo.InteractionCreate) (string, error) {
	data := i.ApplicationCommandData()

	rec, err := b.service.GetOne(ctx, i.GuildID, data.ID)
	if custom.IsKind(err, custom.KindNotFound) {
		rec, err = b.service.FindByName(ctx, i.GuildID, data.Name)
	}
	if err != nil {
		return "", err
	}

	output, err := b.engine.Render(ctx, rec.Content, custom.BuildContext(i, rec))
	if err != nil {
		return "", custom.WrapErr(custom.KindTemplate, "render", err)
	}
	if len([]rune(output)) > maxResponseLength {
		output = string([]rune(output)[:maxResponseLength])
	}

	b.recordUsage(ctx, i, rec)
	return output, nil
}

func (b *Bot) recordUsage(ctx context.Context, i *discordgo.InteractionCreate, rec *custom.Record) {
	user := i.User
	if i.Member != nil {
		user = i.Member.User
	}
	if user == nil {
		return
	}

	usage := custom.UsageRecord{
		UserID:    user.ID,
		Username:  user.Username,
		ChannelID: i.ChannelID,
		Command:   rec.Name,
		When:      time.Now().UTC(),
	}
	if err := b.history.Append(ctx, i.GuildID, usage); err != nil {
		log.Warn().Err(err).
			Str("guild_id", i.GuildID).
			Str("command", rec.Name).
			Msg("failed to record command usage")
	}
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	cmd := b.registry.Get(data.Name)
	if cmd == nil {
		return
	}
	handler, ok := cmd.(command.AutocompleteHandler)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := handler.Autocomplete(b.commandContext(ctx, s, i)); err != nil {
		log.Warn().Err(err).
			Str("guild_id", i.GuildID).
			Str("command", data.Name).
			Msg("autocomplete failed")
	}
}
