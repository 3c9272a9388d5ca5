package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"draman-bot/model"
	moderation_db "draman-bot/utils/database/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const guild int64 = 42

func TestGenerateModerationStatsEmbed(t *testing.T) {
	ctx := context.Background()
	store, err := moderation_db.Open(ctx, filepath.Join(t.TempDir(), "stats.db"), 5*time.Second, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	now := time.Unix(1_700_000_000, 0)
	entries := []model.ModerationLogEntry{
		{GuildID: guild, ActorID: 7, TargetID: 1, ActionType: model.ActionWarn, Timestamp: now.Add(-time.Hour).Unix()},
		{GuildID: guild, ActorID: 7, TargetID: 2, ActionType: model.ActionKick, Timestamp: now.Add(-2 * time.Hour).Unix()},
		{GuildID: guild, ActorID: 8, TargetID: 1, ActionType: model.ActionMute, Timestamp: now.Add(-3 * time.Hour).Unix()},
		{GuildID: guild, ActorID: model.SystemActorID, TargetID: 1, ActionType: model.ActionMute, Timestamp: now.Add(-time.Hour).Unix()},
		// outside the window
		{GuildID: guild, ActorID: 8, TargetID: 3, ActionType: model.ActionBan, Timestamp: now.Add(-48 * time.Hour).Unix()},
		// other guild
		{GuildID: guild + 1, ActorID: 9, TargetID: 3, ActionType: model.ActionBan, Timestamp: now.Unix()},
	}
	for _, e := range entries {
		_, err := store.AppendLogEntry(ctx, e)
		require.NoError(t, err)
	}

	embed, err := GenerateModerationStatsEmbed(ctx, store, guild, 24*time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, "Statistiques de modération", embed.Title)
	assert.Contains(t, embed.Description, "**Total : 4**")
	assert.Contains(t, embed.Description, "1. <@7> : 2")
	assert.Contains(t, embed.Description, "2. <@8> : 1")
	assert.NotContains(t, embed.Description, "<@9>")
	assert.NotContains(t, embed.Description, "<@0>")
	assert.Equal(t, now.Format(time.RFC3339), embed.Timestamp)
}

func TestGenerateModerationStatsEmbed_Empty(t *testing.T) {
	ctx := context.Background()
	store, err := moderation_db.Open(ctx, filepath.Join(t.TempDir(), "stats.db"), 5*time.Second, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	embed, err := GenerateModerationStatsEmbed(ctx, store, guild, time.Hour, time.Now())
	require.NoError(t, err)
	assert.Contains(t, embed.Description, "Aucune action.")
}

type failingSource struct{}

func (failingSource) ActorActionStats(context.Context, int64, time.Time) ([]model.ActorStat, error) {
	return nil, errors.New("disk I/O error")
}

func (failingSource) CountActions(context.Context, int64, time.Time) (int, error) {
	return 0, nil
}

func TestGenerateModerationStatsEmbed_SourceError(t *testing.T) {
	_, err := GenerateModerationStatsEmbed(context.Background(), failingSource{}, guild, time.Hour, time.Now())
	assert.ErrorContains(t, err, "disk I/O error")
}
