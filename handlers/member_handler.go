package handlers

import (
	"context"
	"strconv"

	"draman-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// handleMemberRemove releases the leashes the departed member was part of.
func handleMemberRemove(m *discordgo.GuildMemberRemove, b *bot.Bot) {
	if m.Member == nil || m.User == nil {
		return
	}
	guildID, err1 := strconv.ParseInt(m.GuildID, 10, 64)
	memberID, err2 := strconv.ParseInt(m.User.ID, 10, 64)
	if err1 != nil || err2 != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	released, err := b.Leashes.TargetDeparted(ctx, guildID, memberID)
	if err != nil {
		b.GetLogger().Errorw("failed to release leashes of departed member", "guild", guildID, "member", memberID, "error", err)
		return
	}
	if released > 0 {
		b.GetLogger().Infow("released leashes of departed member", "guild", guildID, "member", memberID, "released", released)
	}
}

// handleVoiceStateUpdate drags leashed members along when their controller
// joins or switches voice channels.
func handleVoiceStateUpdate(v *discordgo.VoiceStateUpdate, b *bot.Bot) {
	if v.VoiceState == nil || !joinedChannel(v) {
		return
	}
	guildID, err1 := strconv.ParseInt(v.GuildID, 10, 64)
	controllerID, err2 := strconv.ParseInt(v.UserID, 10, 64)
	if err1 != nil || err2 != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	moved, err := b.Leashes.FollowController(ctx, guildID, controllerID, v.ChannelID)
	if err != nil {
		b.GetLogger().Infow("could not move every leashed member", "guild", guildID, "controller", controllerID, "moved", moved, "error", err)
	}
}

func joinedChannel(v *discordgo.VoiceStateUpdate) bool {
	if v.ChannelID == "" {
		return false
	}
	return v.BeforeUpdate == nil || v.BeforeUpdate.ChannelID != v.ChannelID
}
