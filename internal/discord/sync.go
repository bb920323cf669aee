package discord

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/command"
	"github.com/TinkerStorm/hack-n-slash/internal/store"
)

func hashCacheKey(guildID string) string {
	return "cmdhash:" + guildID
}

// syncGuild reconciles the guild's remote registrations with what the bot
// expects: built-in commands are pushed when their definition hash changed,
// remote commands backed by neither a built-in nor a stored record are
// removed, and stored records whose registration vanished are reregistered.
func (b *Bot) syncGuild(ctx context.Context, guildID string) error {
	appID := b.session.State.User.ID

	builtins := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range b.registry.GetAll() {
		sp, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		builtins[def.Name] = def
	}

	records, err := b.service.GetAll(ctx, guildID)
	if err != nil {
		return err
	}
	recordIDs := make(map[string]bool, len(records))
	for _, rec := range records {
		recordIDs[rec.ID] = true
	}

	existing, err := b.session.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}

	// Remote commands owned by nobody are leftovers from older deploys or
	// interrupted deletes.
	seen := make(map[string]bool, len(records))
	for _, remote := range existing {
		if recordIDs[remote.ID] {
			seen[remote.ID] = true
			continue
		}
		if _, ok := builtins[remote.Name]; ok {
			continue
		}
		log.Info().
			Str("guild_id", guildID).
			Str("command", remote.Name).
			Msg("removing orphaned remote command")
		if err := b.session.ApplicationCommandDelete(appID, guildID, remote.ID, discordgo.WithContext(ctx)); err != nil {
			log.Error().Err(err).
				Str("guild_id", guildID).
				Str("command", remote.Name).
				Msg("failed to remove orphaned remote command")
		}
	}

	// Records whose registration vanished are re-registered; Discord mints a
	// new ID, so the record moves with it.
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		log.Warn().
			Str("guild_id", guildID).
			Str("command_id", rec.ID).
			Str("command", rec.Name).
			Msg("stored command has no remote registration; reregistering")
		if _, err := b.service.Reregister(ctx, rec); err != nil {
			log.Error().Err(err).
				Str("guild_id", guildID).
				Str("command", rec.Name).
				Msg("failed to reregister stored command")
		}
	}

	return b.pushBuiltins(ctx, guildID, builtins)
}

// pushBuiltins registers built-in definitions whose hash differs from the
// cached hash of the last successful push.
func (b *Bot) pushBuiltins(ctx context.Context, guildID string, builtins map[string]*discordgo.ApplicationCommand) error {
	appID := b.session.State.User.ID
	cached := b.loadHashes(ctx, guildID)

	changed := 0
	for name, def := range builtins {
		hash := definitionHash(def)
		if cached[name] == hash {
			continue
		}
		// Create with an existing name acts as an upsert.
		if _, err := b.session.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx)); err != nil {
			log.Error().Err(err).
				Str("guild_id", guildID).
				Str("command", name).
				Msg("failed to register built-in command")
			continue
		}
		cached[name] = hash
		changed++
	}

	for name := range cached {
		if _, ok := builtins[name]; !ok {
			delete(cached, name)
		}
	}

	if changed > 0 {
		log.Info().
			Str("guild_id", guildID).
			Int("changed", changed).
			Msg("built-in commands updated")
	}
	b.saveHashes(ctx, guildID, cached)
	return nil
}

func (b *Bot) loadHashes(ctx context.Context, guildID string) map[string]string {
	hashes := make(map[string]string)
	raw, err := b.store.Get(ctx, hashCacheKey(guildID))
	if err == nil {
		_ = json.Unmarshal(raw, &hashes)
	} else if !store.IsNotFound(err) {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("failed to load command hash cache")
	}
	return hashes
}

func (b *Bot) saveHashes(ctx context.Context, guildID string, hashes map[string]string) {
	raw, err := json.Marshal(hashes)
	if err != nil {
		return
	}
	if err := b.store.Set(ctx, hashCacheKey(guildID), raw); err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("failed to save command hash cache")
	}
}
