package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"draman-bot/model"
	"draman-bot/moderation"
	"draman-bot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ErrNotInVoice is returned by voice moves when the member is not connected.
var ErrNotInVoice = errors.New("member is not in a voice channel")

// Gateway carries out moderation actions through the Discord API.
type Gateway struct {
	session *discordgo.Session
	logger  *zap.SugaredLogger
}

var (
	_ moderation.Platform = (*Gateway)(nil)
	_ moderation.Resolver = (*Gateway)(nil)
)

func NewGateway(s *discordgo.Session, logger *zap.SugaredLogger) *Gateway {
	return &Gateway{session: s, logger: logger}
}

func (g *Gateway) ResolveMember(ctx context.Context, guildID int64, raw string) (*model.Member, error) {
	userID, err := utils.ParseUserID(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", moderation.ErrMemberNotFound, err)
	}
	gid, uid := utils.FormatID(guildID), utils.FormatID(userID)

	m, err := g.session.GuildMember(gid, uid, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknown(err) {
			return nil, fmt.Errorf("%w: %s", moderation.ErrMemberNotFound, uid)
		}
		return nil, fmt.Errorf("failed to fetch member %s: %w", uid, err)
	}

	roles, ownerID, err := g.guildRoles(ctx, gid)
	if err != nil {
		return nil, err
	}

	member := &model.Member{
		ID:            userID,
		Nickname:      m.Nick,
		Administrator: ownerID == uid,
		TimedOutUntil: m.CommunicationDisabledUntil,
	}
	if m.User != nil {
		member.Username = m.User.Username
		if m.User.GlobalName != "" {
			member.Username = m.User.GlobalName
		}
		member.Bot = m.User.Bot
	}
	for _, roleID := range m.Roles {
		role, ok := roles[roleID]
		if !ok {
			continue
		}
		member.Roles = append(member.Roles, role.Name)
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			member.Administrator = true
		}
	}
	return member, nil
}

// guildRoles prefers the state cache and falls back to the REST API.
func (g *Gateway) guildRoles(ctx context.Context, guildID string) (map[string]*discordgo.Role, string, error) {
	var (
		list    []*discordgo.Role
		ownerID string
	)
	if guild, err := g.session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		list, ownerID = guild.Roles, guild.OwnerID
	} else {
		guild, err := g.session.Guild(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
		}
		list, ownerID = guild.Roles, guild.OwnerID
	}

	roles := make(map[string]*discordgo.Role, len(list))
	for _, r := range list {
		roles[r.ID] = r
	}
	return roles, ownerID, nil
}

func (g *Gateway) ApplyMute(ctx context.Context, guildID, targetID int64, d time.Duration, reason string) error {
	until := time.Now().Add(d)
	return g.session.GuildMemberTimeout(utils.FormatID(guildID), utils.FormatID(targetID), &until,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (g *Gateway) ApplyKick(ctx context.Context, guildID, targetID int64, reason string) error {
	return g.session.GuildMemberDeleteWithReason(utils.FormatID(guildID), utils.FormatID(targetID), reason,
		discordgo.WithContext(ctx))
}

func (g *Gateway) ApplyBan(ctx context.Context, guildID, targetID int64, reason string) error {
	return g.session.GuildBanCreateWithReason(utils.FormatID(guildID), utils.FormatID(targetID), reason, 0,
		discordgo.WithContext(ctx))
}

func (g *Gateway) SetDisplayName(ctx context.Context, guildID, targetID int64, name string) error {
	return g.session.GuildMemberNickname(utils.FormatID(guildID), utils.FormatID(targetID), name,
		discordgo.WithContext(ctx))
}

// MoveVoice moves the member to the next voice channel of the guild.
func (g *Gateway) MoveVoice(ctx context.Context, guildID, targetID int64) error {
	gid, uid := utils.FormatID(guildID), utils.FormatID(targetID)

	vs, err := g.session.State.VoiceState(gid, uid)
	if err != nil || vs.ChannelID == "" {
		return ErrNotInVoice
	}

	channels, err := g.voiceChannels(ctx, gid)
	if err != nil {
		return err
	}
	next := nextChannel(channels, vs.ChannelID)
	if next == "" {
		return fmt.Errorf("guild %s has no other voice channel", gid)
	}
	return g.session.GuildMemberMove(gid, uid, &next, discordgo.WithContext(ctx))
}

func (g *Gateway) MoveVoiceTo(ctx context.Context, guildID, targetID int64, channelID string) error {
	gid, uid := utils.FormatID(guildID), utils.FormatID(targetID)
	if vs, err := g.session.State.VoiceState(gid, uid); err != nil || vs.ChannelID == "" {
		return ErrNotInVoice
	} else if vs.ChannelID == channelID {
		return nil
	}
	return g.session.GuildMemberMove(gid, uid, &channelID, discordgo.WithContext(ctx))
}

func (g *Gateway) voiceChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	var all []*discordgo.Channel
	if guild, err := g.session.State.Guild(guildID); err == nil && len(guild.Channels) > 0 {
		all = guild.Channels
	} else {
		all, err = g.session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list channels of guild %s: %w", guildID, err)
		}
	}

	var voice []*discordgo.Channel
	for _, c := range all {
		if c.Type == discordgo.ChannelTypeGuildVoice {
			voice = append(voice, c)
		}
	}
	sort.Slice(voice, func(i, j int) bool { return voice[i].Position < voice[j].Position })
	return voice, nil
}

// nextChannel returns the voice channel after current, wrapping around.
func nextChannel(channels []*discordgo.Channel, current string) string {
	if len(channels) < 2 {
		return ""
	}
	for i, c := range channels {
		if c.ID == current {
			return channels[(i+1)%len(channels)].ID
		}
	}
	return channels[0].ID
}

func isUnknown(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
		return true
	}
	return false
}
