package model

import "time"

// EscalationAction is what happens automatically once a member collects
// MaxWarnings active warnings.
type EscalationAction string

const (
	EscalateNone EscalationAction = "none"
	EscalateMute EscalationAction = "mute"
	EscalateKick EscalationAction = "kick"
	EscalateBan  EscalationAction = "ban"
)

// Valid reports whether the action is one the bot knows how to perform.
func (a EscalationAction) Valid() bool {
	switch a {
	case EscalateNone, EscalateMute, EscalateKick, EscalateBan:
		return true
	}
	return false
}

// EscalationConfig configures the follow-on sanction for repeated warnings.
type EscalationConfig struct {
	Action   EscalationAction
	Duration time.Duration // mute only
}

// LeashConfig configures the leash controller.
type LeashConfig struct {
	MoveCooldown   time.Duration
	MaxMoves       int
	NicknamePrefix string
}

// Config 存储应用程序的配置
type Config struct {
	BotToken     string
	ProtectedID  int64 // the "boss" who can never be sanctioned
	MainGuildID  int64
	LogChannelID string

	DatabasePath string
	StoreTimeout time.Duration

	Development bool
	LogLevel    string

	ModeratorRoles []string
	AdminRoles     []string

	MaxWarnings int
	Escalation  EscalationConfig
	Leash       LeashConfig

	ReconcileInterval time.Duration
}

// PermissionPolicy extracts the permission model's inputs.
func (c *Config) PermissionPolicy() PermissionPolicy {
	return PermissionPolicy{
		ProtectedID:    c.ProtectedID,
		AdminRoles:     c.AdminRoles,
		ModeratorRoles: c.ModeratorRoles,
	}
}
