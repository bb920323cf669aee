package custom

import (
	"context"
	"encoding/json"
	"time"

	"github.com/TinkerStorm/hack-n-slash/internal/store"
)

// historyLimit caps the per-guild usage history; older entries roll off.
const historyLimit = 20

// UsageRecord is one executed command, kept for the guild's recent history.
type UsageRecord struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ChannelID string    `json:"channel_id"`
	Command   string    `json:"command"`
	When      time.Time `json:"when"`
}

// History records recent command executions per guild.
type History struct {
	store store.Store
}

// NewHistory returns a History over the given store.
func NewHistory(st store.Store) *History {
	return &History{store: st}
}

func historyKey(guildID string) string {
	return "history:" + guildID
}

// Append adds rec to the guild's history, trimming to the newest
// historyLimit entries.
func (h *History) Append(ctx context.Context, guildID string, rec UsageRecord) error {
	records, err := h.Recent(ctx, guildID)
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return WrapErr(KindStorage, "history", err)
	}
	if err := h.store.Set(ctx, historyKey(guildID), raw); err != nil {
		return WrapErr(KindStorage, "history", err)
	}
	return nil
}

// Recent returns the guild's history, oldest first. A guild with no history
// yields an empty slice.
func (h *History) Recent(ctx context.Context, guildID string) ([]UsageRecord, error) {
	raw, err := h.store.Get(ctx, historyKey(guildID))
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapErr(KindStorage, "history", err)
	}

	var records []UsageRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, WrapErr(KindStorage, "history", err)
	}
	return records, nil
}
