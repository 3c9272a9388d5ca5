package moderation

import (
	"context"
	"fmt"
	"time"

	"draman-bot/model"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"
)

//go:generate mockgen -source=options.go -destination=mock_collaborators.go -package=moderation

// Timeouts shorter than MinMuteDuration are refused. MaxMuteDuration is the
// longest timeout the platform accepts.
const (
	MinMuteDuration = time.Minute
	MaxMuteDuration = 28 * 24 * time.Hour
)

const maxNicknameLength = 32

// Platform performs enforcement actions on the chat platform. Every method
// returns an error when the platform refused or could not be reached.
type Platform interface {
	ApplyMute(ctx context.Context, guildID, targetID int64, d time.Duration, reason string) error
	ApplyKick(ctx context.Context, guildID, targetID int64, reason string) error
	ApplyBan(ctx context.Context, guildID, targetID int64, reason string) error
	SetDisplayName(ctx context.Context, guildID, targetID int64, name string) error
	// MoveVoice bounces the target to another voice channel.
	MoveVoice(ctx context.Context, guildID, targetID int64) error
	// MoveVoiceTo pulls the target into a specific voice channel.
	MoveVoiceTo(ctx context.Context, guildID, targetID int64, channelID string) error
}

// Resolver turns a raw ID or mention into a member with live role data. It
// returns an error matching ErrMemberNotFound when the member is absent.
type Resolver interface {
	ResolveMember(ctx context.Context, guildID int64, raw string) (*model.Member, error)
}

// Options is the configuration the managers are built with.
type Options struct {
	Policy      model.PermissionPolicy
	MaxWarnings int
	Escalation  model.EscalationConfig
	Leash       model.LeashConfig
	Now         func() time.Time
}

func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		Policy:      cfg.PermissionPolicy(),
		MaxWarnings: cfg.MaxWarnings,
		Escalation:  cfg.Escalation,
		Leash:       cfg.Leash,
		Now:         time.Now,
	}
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) level(m *model.Member) model.PermissionLevel {
	return utils.PermissionLevel(m, o.Policy)
}

// checkTarget applies the rules every punitive or leash action shares.
func (o Options) checkTarget(actor, target *model.Member) error {
	if utils.IsProtected(target.ID, o.Policy) {
		return ErrProtectedTarget
	}
	if actor.ID == target.ID {
		return ErrSelfTarget
	}
	if target.Bot {
		return ErrBotTarget
	}
	if o.level(actor) <= o.level(target) {
		return ErrHierarchy
	}
	return nil
}

func targetKey(guildID, targetID int64) string {
	return fmt.Sprintf("%d:%d", guildID, targetID)
}

func actorKey(actorID int64) string {
	return fmt.Sprintf("actor:%d", actorID)
}

func logEntry(guildID, actorID, targetID int64, action model.ActionType, reason string, at time.Time) model.ModerationLogEntry {
	return model.ModerationLogEntry{
		GuildID:    guildID,
		ActorID:    actorID,
		TargetID:   targetID,
		ActionType: action,
		Reason:     reason,
		Timestamp:  at.Unix(),
	}
}

// appendLog refuses punitive entries against the protected identity.
func (o Options) appendLog(ctx context.Context, q *moderation_db.Queries, entry model.ModerationLogEntry) (int64, error) {
	if entry.ActionType.Punitive() && utils.IsProtected(entry.TargetID, o.Policy) {
		return 0, ErrProtectedTarget
	}
	return q.AppendLogEntry(ctx, entry)
}

func leashNickname(prefix, controller string) string {
	name := []rune(prefix + controller)
	if len(name) > maxNicknameLength {
		name = name[:maxNicknameLength]
	}
	return string(name)
}
