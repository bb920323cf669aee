package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
	"github.com/TinkerStorm/hack-n-slash/internal/command/core"
	manage "github.com/TinkerStorm/hack-n-slash/internal/command/custom"
	"github.com/TinkerStorm/hack-n-slash/internal/config"
	"github.com/TinkerStorm/hack-n-slash/internal/custom"
	"github.com/TinkerStorm/hack-n-slash/internal/discord"
	"github.com/TinkerStorm/hack-n-slash/internal/logging"
	"github.com/TinkerStorm/hack-n-slash/internal/store"
	"github.com/TinkerStorm/hack-n-slash/internal/template"
	"github.com/TinkerStorm/hack-n-slash/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFile)

	log.Info().Str("app", version.AppName).Msg("starting bot")

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}

	registrar := discord.NewCommandRegistrar(session, cfg.DiscordToken)
	service := custom.NewService(st, registrar)
	history := custom.NewHistory(st)
	engine := template.NewEngine()

	registry := command.NewRegistry()
	registry.Register(command.Apply(&core.PingCommand{},
		command.WithCommandLogger()))
	registry.Register(command.Apply(&core.AboutCommand{},
		command.WithCommandLogger()))
	registry.Register(command.Apply(&manage.ManageCommand{},
		command.WithCommandLogger(),
		command.WithUserPermissionCheck(),
		command.WithGuildOnly()))

	bot := discord.NewBot(session, cfg, registry, service, history, engine, st)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bot exited with error")
	}
	log.Info().Msg("bot exited cleanly")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StorageBackend == config.StorageMemory {
		return store.NewMemory(), nil
	}
	return store.NewFile(cfg.StoragePath)
}
