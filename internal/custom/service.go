package custom

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/TinkerStorm/hack-n-slash/internal/store"
	"github.com/TinkerStorm/hack-n-slash/pkg/retrylimit"
)

// maxSuggestions matches Discord's autocomplete choice cap.
const maxSuggestions = 25

// RegistrationSpec is the subset of a record sent to the remote registration
// API. Content stays local; Discord only knows name, description and type.
type RegistrationSpec struct {
	Name        string
	Description string
	Type        CommandType
}

// Registration is the remote API's view of a registered command.
type Registration struct {
	ID      string
	GuildID string
	Name    string
	Type    CommandType
}

// Registrar is the remote command-registration collaborator. Implemented
// against the Discord REST API in internal/discord; tests swap in fakes.
type Registrar interface {
	CreateCommand(ctx context.Context, guildID string, spec RegistrationSpec) (*Registration, error)
	UpdateCommand(ctx context.Context, guildID, id string, spec RegistrationSpec) (*Registration, error)
	DeleteCommand(ctx context.Context, guildID, id string) error
}

// Service owns custom command records: CRUD over the store, mirrored against
// the remote registration API. Remote state is authoritative for existence:
// create and delete run the remote call first, so a local record never exists
// without its registration.
type Service struct {
	store     store.Store
	registrar Registrar
	retry     retrylimit.Config
}

// NewService returns a Service over the given store and registrar.
func NewService(st store.Store, reg Registrar) *Service {
	return &Service{
		store:     st,
		registrar: reg,
		retry:     retrylimit.DefaultConfig(),
	}
}

// GetOne returns the record with the given ID in the guild.
func (s *Service) GetOne(ctx context.Context, guildID, id string) (*Record, error) {
	raw, err := s.store.Get(ctx, recordKey(guildID, id))
	if store.IsNotFound(err) {
		return nil, Errf(KindNotFound, "get", "No command with ID `%s` here.", id)
	}
	if err != nil {
		return nil, WrapErr(KindStorage, "get", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, WrapErr(KindStorage, "get", err)
	}
	return &rec, nil
}

// GetAll returns every record in the guild, sorted by name for stable output.
func (s *Service) GetAll(ctx context.Context, guildID string) ([]Record, error) {
	keys, err := s.store.Keys(ctx, guildPrefix(guildID))
	if err != nil {
		return nil, WrapErr(KindStorage, "list", err)
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		raw, err := s.store.Get(ctx, key)
		if store.IsNotFound(err) {
			continue // deleted between Keys and Get; harmless race
		}
		if err != nil {
			return nil, WrapErr(KindStorage, "list", err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, WrapErr(KindStorage, "list", err)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// FindByName returns the guild's record with exactly the given name.
func (s *Service) FindByName(ctx context.Context, guildID, name string) (*Record, error) {
	records, err := s.GetAll(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Name == name {
			return &records[i], nil
		}
	}
	return nil, Errf(KindNotFound, "find", "No command named `%s` here.", name)
}

// Resolve finds a record by ID or, failing that, by name.
func (s *Service) Resolve(ctx context.Context, guildID, ref string) (*Record, error) {
	rec, err := s.GetOne(ctx, guildID, ref)
	if err == nil {
		return rec, nil
	}
	if !IsKind(err, KindNotFound) {
		return nil, err
	}
	return s.FindByName(ctx, guildID, ref)
}

// Create registers the command with Discord and persists the record under the
// returned ID. Nothing is written locally when registration fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if err := s.validateInput(in.Name, in.Type, in.Description, in.Content); err != nil {
		return nil, err
	}

	if existing, err := s.FindByName(ctx, in.GuildID, in.Name); err == nil {
		return nil, Errf(KindConflict, "create",
			"`%s` already exists as a %s command. Use update instead.", existing.Name, existing.Type)
	} else if !IsKind(err, KindNotFound) {
		return nil, err
	}

	reg, err := s.registrar.CreateCommand(ctx, in.GuildID, RegistrationSpec{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
	})
	if err != nil {
		return nil, s.remoteErr("create", err)
	}

	rec := &Record{
		ID:          reg.ID,
		GuildID:     in.GuildID,
		Name:        in.Name,
		Type:        in.Type,
		Content:     in.Content,
		Description: in.Description,
	}
	if err := s.persist(ctx, "create", rec); err != nil {
		return nil, err
	}

	log.Info().
		Str("guild_id", rec.GuildID).
		Str("command_id", rec.ID).
		Str("name", rec.Name).
		Msg("custom command created")
	return rec, nil
}

// Update merges the partial payload into the stored record, pushes the result
// to Discord, then persists. Name and type are immutable; the payload cannot
// change them.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Record, error) {
	rec, err := s.Resolve(ctx, in.GuildID, in.Ref)
	if err != nil {
		return nil, err
	}

	merged := *rec
	if in.Content != nil {
		merged.Content = *in.Content
	}
	if in.Description != nil {
		merged.Description = *in.Description
	}
	if err := s.validateInput(merged.Name, merged.Type, merged.Description, merged.Content); err != nil {
		return nil, err
	}

	if _, err := s.registrar.UpdateCommand(ctx, merged.GuildID, merged.ID, RegistrationSpec{
		Name:        merged.Name,
		Description: merged.Description,
		Type:        merged.Type,
	}); err != nil {
		return nil, s.remoteErr("update", err)
	}

	if err := s.persist(ctx, "update", &merged); err != nil {
		return nil, err
	}

	log.Info().
		Str("guild_id", merged.GuildID).
		Str("command_id", merged.ID).
		Str("name", merged.Name).
		Msg("custom command updated")
	return &merged, nil
}

// Delete deregisters the command from Discord, then removes the local record.
// When deregistration fails the record is kept so remote state is never
// orphaned.
func (s *Service) Delete(ctx context.Context, guildID, ref string) error {
	rec, err := s.Resolve(ctx, guildID, ref)
	if err != nil {
		return err
	}

	if err := s.registrar.DeleteCommand(ctx, guildID, rec.ID); err != nil {
		return s.remoteErr("delete", err)
	}

	if err := s.store.Delete(ctx, recordKey(guildID, rec.ID)); err != nil && !store.IsNotFound(err) {
		log.Warn().
			Str("guild_id", guildID).
			Str("command_id", rec.ID).
			Str("op", "delete").
			Err(err).
			Msg("local delete failed after remote deregistration; reconciliation needed")
		return WrapErr(KindStorage, "delete", err)
	}

	log.Info().
		Str("guild_id", guildID).
		Str("command_id", rec.ID).
		Str("name", rec.Name).
		Msg("custom command deleted")
	return nil
}

// Reregister restores the remote registration for a record whose remote half
// vanished. Discord assigns a fresh ID, so the record moves to a new key and
// the updated record is returned.
func (s *Service) Reregister(ctx context.Context, rec Record) (*Record, error) {
	reg, err := s.registrar.CreateCommand(ctx, rec.GuildID, RegistrationSpec{
		Name:        rec.Name,
		Description: rec.Description,
		Type:        rec.Type,
	})
	if err != nil {
		return nil, s.remoteErr("reregister", err)
	}

	oldID := rec.ID
	rec.ID = reg.ID
	if err := s.persist(ctx, "reregister", &rec); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, recordKey(rec.GuildID, oldID)); err != nil && !store.IsNotFound(err) {
		log.Warn().
			Str("guild_id", rec.GuildID).
			Str("command_id", oldID).
			Str("op", "reregister").
			Err(err).
			Msg("stale record left behind after reregistration; reconciliation needed")
	}

	log.Info().
		Str("guild_id", rec.GuildID).
		Str("command_id", rec.ID).
		Str("previous_id", oldID).
		Str("name", rec.Name).
		Msg("custom command reregistered")
	return &rec, nil
}

// Suggest returns autocomplete choices for guild commands whose name starts
// with prefix, case-insensitively. The choice value is the command name.
func (s *Service) Suggest(ctx context.Context, guildID, prefix string) ([]Choice, error) {
	records, err := s.GetAll(ctx, guildID)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(prefix)
	var choices []Choice
	for _, rec := range records {
		if !strings.HasPrefix(strings.ToLower(rec.Name), lowered) {
			continue
		}
		choices = append(choices, Choice{
			Name:  rec.Name + " (" + rec.Type.String() + ")",
			Value: rec.Name,
		})
		if len(choices) == maxSuggestions {
			break
		}
	}
	return choices, nil
}

func (s *Service) validateInput(name string, t CommandType, description, content string) error {
	if !t.Valid() {
		return Errf(KindValidation, "validate", "Unknown command type.")
	}
	if !ValidateName(t, name) {
		return Errf(KindValidation, "validate",
			"Invalid command name `%s`.\n> Chat commands match `^[a-z0-9-]{1,32}$`; mixed case and spaces are allowed for user and message commands.", name)
	}
	if t == TypeChatInput && description == "" {
		return Errf(KindValidation, "validate", "Chat commands require a description.")
	}
	if content == "" {
		return Errf(KindValidation, "validate", "Command content cannot be empty.")
	}
	return nil
}

// persist writes rec with bounded retry. The remote half has already
// succeeded by the time this runs, so a final failure means the two sides
// disagree; that gets a reconciliation warning, never a silent drop.
func (s *Service) persist(ctx context.Context, op string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return WrapErr(KindStorage, op, err)
	}

	key := recordKey(rec.GuildID, rec.ID)
	err = retrylimit.Retry(ctx, func() error {
		return s.store.Set(ctx, key, raw)
	}, nil, s.retry)
	if err != nil {
		log.Warn().
			Str("guild_id", rec.GuildID).
			Str("command_id", rec.ID).
			Str("op", op).
			Err(err).
			Msg("local write failed after remote success; reconciliation needed")
		return WrapErr(KindStorage, op, err)
	}
	return nil
}

func (s *Service) remoteErr(op string, err error) error {
	if IsKind(err, KindRemoteAPI) {
		return err
	}
	return WrapErr(KindRemoteAPI, op, err)
}
