package model

import (
	"strconv"
	"time"
)

// PermissionLevel is the ordered rank of a member. It is computed from live role
// data on every call and never stored.
type PermissionLevel int

const (
	LevelNormal PermissionLevel = iota
	LevelModerator
	LevelAdmin
	LevelProtected
)

func (l PermissionLevel) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelModerator:
		return "moderator"
	case LevelAdmin:
		return "admin"
	case LevelProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// PermissionPolicy holds what the permission model needs from configuration.
type PermissionPolicy struct {
	ProtectedID    int64
	AdminRoles     []string
	ModeratorRoles []string
}

// Member is a resolved guild member as seen by the moderation core.
type Member struct {
	ID            int64
	Username      string
	Nickname      string
	Roles         []string // role names, not IDs
	Administrator bool
	Bot           bool
	TimedOutUntil *time.Time
}

// DisplayName returns the nickname when set, otherwise the username.
func (m *Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.Username
}

// Mention formats the member as a Discord mention.
func (m *Member) Mention() string {
	return MentionUser(m.ID)
}

// MentionUser formats a user ID as a Discord mention.
func MentionUser(id int64) string {
	return "<@" + strconv.FormatInt(id, 10) + ">"
}
