package model

// ActionType names the kind of moderation action recorded in the moderation log.
type ActionType string

const (
	ActionWarn    ActionType = "warn"
	ActionMute    ActionType = "mute"
	ActionKick    ActionType = "kick"
	ActionBan     ActionType = "ban"
	ActionClear   ActionType = "clear"
	ActionLeash   ActionType = "leash"
	ActionUnleash ActionType = "unleash"
	ActionMove    ActionType = "move"
)

// Punitive reports whether the action is a sanction against its target.
func (a ActionType) Punitive() bool {
	switch a {
	case ActionWarn, ActionMute, ActionKick, ActionBan, ActionLeash, ActionMove:
		return true
	}
	return false
}

// SystemActorID is recorded as actor_id for actions the bot takes on its own,
// such as warning escalations or releasing a leash when a member leaves.
const SystemActorID int64 = 0

// Warning represents a single warning in the database.
// The database table is named 'warnings'. Rows are never deleted; clearing a
// member's warnings flips active to false.
type Warning struct {
	ID        int64  `db:"id"` // Primary Key, Auto-increment
	GuildID   int64  `db:"guild_id"`
	TargetID  int64  `db:"target_id"`
	ActorID   int64  `db:"actor_id"`
	Reason    string `db:"reason"`
	Timestamp int64  `db:"timestamp"`
	Active    bool   `db:"active"`
}

// ModerationLogEntry is an append-only audit record, one per enacted action.
// The database table is named 'moderation_log'.
type ModerationLogEntry struct {
	ID         int64      `db:"id"`
	GuildID    int64      `db:"guild_id"`
	ActorID    int64      `db:"actor_id"`
	TargetID   int64      `db:"target_id"`
	ActionType ActionType `db:"action_type"`
	Reason     string     `db:"reason"`
	Timestamp  int64      `db:"timestamp"`
}

// LeashRelation pairs a controller with the member it keeps on a leash.
// At most one active relation exists per (guild_id, target_id).
type LeashRelation struct {
	ID               int64  `db:"id"`
	GuildID          int64  `db:"guild_id"`
	ControllerID     int64  `db:"controller_id"`
	TargetID         int64  `db:"target_id"`
	OriginalNickname string `db:"original_nickname"` // restored on release
	CreatedAt        int64  `db:"created_at"`
	LastMoveAt       int64  `db:"last_move_at"` // 0 until the first move
	Active           bool   `db:"active"`
}

// ActorStat is an aggregated row of moderation_log per actor.
type ActorStat struct {
	ActorID int64 `db:"actor_id"`
	Count   int   `db:"count"`
}
