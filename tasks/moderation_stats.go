package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"draman-bot/model"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"

	"github.com/bwmarrin/discordgo"
)

// StatsSource is the part of the store the report reads from.
type StatsSource interface {
	ActorActionStats(ctx context.Context, guildID int64, since time.Time) ([]model.ActorStat, error)
	CountActions(ctx context.Context, guildID int64, since time.Time) (int, error)
}

var _ StatsSource = (*moderation_db.Store)(nil)

const maxLeaderboardRows = 20

// GenerateModerationStatsEmbed summarizes the moderation log of the last period.
func GenerateModerationStatsEmbed(ctx context.Context, src StatsSource, guildID int64, period time.Duration, now time.Time) (*discordgo.MessageEmbed, error) {
	since := now.Add(-period)
	stats, err := src.ActorActionStats(ctx, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator stats for guild %d: %w", guildID, err)
	}

	total, err := src.CountActions(ctx, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count actions for guild %d: %w", guildID, err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Actions des dernières %s\n", utils.FormatDuration(period)))
	builder.WriteString(fmt.Sprintf("**Total : %d**\n\n", total))
	builder.WriteString("**Classement des modérateurs :**\n")

	if len(stats) == 0 {
		builder.WriteString("Aucune action.\n")
	}
	for i, stat := range stats {
		if i == maxLeaderboardRows {
			builder.WriteString(fmt.Sprintf("… et %d autres\n", len(stats)-maxLeaderboardRows))
			break
		}
		builder.WriteString(fmt.Sprintf("%d. %s : %d\n", i+1, model.MentionUser(stat.ActorID), stat.Count))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Statistiques de modération",
		Description: builder.String(),
		Timestamp:   now.Format(time.RFC3339),
		Color:       0x00ff00,
	}
	return embed, nil
}

// PostModerationStats sends a fresh report to channelID.
func PostModerationStats(ctx context.Context, s *discordgo.Session, src StatsSource, guildID int64, channelID string, period time.Duration) error {
	embed, err := GenerateModerationStatsEmbed(ctx, src, guildID, period, time.Now())
	if err != nil {
		return err
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send moderation stats to channel %s: %w", channelID, err)
	}
	return nil
}
