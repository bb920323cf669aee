package custom

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinkerStorm/hack-n-slash/internal/store"
)

func TestHistoryAppendAndRecent(t *testing.T) {
	h := NewHistory(store.NewMemory())
	ctx := context.Background()

	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := h.Append(ctx, "g1", UsageRecord{
		UserID:    "u1",
		Username:  "alice",
		ChannelID: "c1",
		Command:   "greet",
		When:      when,
	})
	require.NoError(t, err)

	records, err := h.Recent(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Username)
	assert.True(t, records[0].When.Equal(when))
}

func TestHistoryEmptyGuild(t *testing.T) {
	h := NewHistory(store.NewMemory())

	records, err := h.Recent(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryTrimsToLimit(t *testing.T) {
	h := NewHistory(store.NewMemory())
	ctx := context.Background()

	for n := 0; n < 30; n++ {
		err := h.Append(ctx, "g1", UsageRecord{
			UserID:  "u1",
			Command: fmt.Sprintf("cmd-%02d", n),
			When:    time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	records, err := h.Recent(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, historyLimit)

	// Oldest entries rolled off; newest survives at the end.
	assert.Equal(t, "cmd-10", records[0].Command)
	assert.Equal(t, "cmd-29", records[len(records)-1].Command)
}

func TestHistoryGuildsIsolated(t *testing.T) {
	h := NewHistory(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "g1", UsageRecord{Command: "one"}))
	require.NoError(t, h.Append(ctx, "g2", UsageRecord{Command: "two"}))

	records, err := h.Recent(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "one", records[0].Command)
}
