package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"draman-bot/model"

	"github.com/jmoiron/sqlx"
)

// Queries holds every table operation. It runs either directly on the database
// or inside a transaction opened by Store.InTx.
type Queries struct {
	ext     sqlx.ExtContext
	timeout time.Duration
}

// CreateWarning inserts a warning and returns its ID.
func (q *Queries) CreateWarning(ctx context.Context, w model.Warning) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := `INSERT INTO warnings (guild_id, target_id, actor_id, reason, timestamp, active)
			  VALUES (:guild_id, :target_id, :actor_id, :reason, :timestamp, :active)`
	result, err := sqlx.NamedExecContext(ctx, q.ext, query, w)
	if err != nil {
		return 0, wrap("create warning", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, wrap("create warning", fmt.Errorf("failed to get last insert ID: %w", err))
	}
	return id, nil
}

// ListActiveWarnings returns the target's active warnings, oldest first.
func (q *Queries) ListActiveWarnings(ctx context.Context, guildID, targetID int64) ([]model.Warning, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	warnings := []model.Warning{}
	query := "SELECT * FROM warnings WHERE guild_id = ? AND target_id = ? AND active = 1 ORDER BY timestamp, id"
	if err := sqlx.SelectContext(ctx, q.ext, &warnings, query, guildID, targetID); err != nil {
		return nil, wrap("list active warnings", err)
	}
	return warnings, nil
}

// ListWarnings returns every warning the target ever received, cleared ones included.
func (q *Queries) ListWarnings(ctx context.Context, guildID, targetID int64) ([]model.Warning, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	warnings := []model.Warning{}
	query := "SELECT * FROM warnings WHERE guild_id = ? AND target_id = ? ORDER BY timestamp, id"
	if err := sqlx.SelectContext(ctx, q.ext, &warnings, query, guildID, targetID); err != nil {
		return nil, wrap("list warnings", err)
	}
	return warnings, nil
}

// CountActiveWarnings counts the target's active warnings.
func (q *Queries) CountActiveWarnings(ctx context.Context, guildID, targetID int64) (int, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	var count int
	query := "SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND target_id = ? AND active = 1"
	if err := sqlx.GetContext(ctx, q.ext, &count, query, guildID, targetID); err != nil {
		return 0, wrap("count active warnings", err)
	}
	return count, nil
}

// DeactivateWarnings marks all of the target's active warnings inactive and
// returns how many were changed.
func (q *Queries) DeactivateWarnings(ctx context.Context, guildID, targetID int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := "UPDATE warnings SET active = 0 WHERE guild_id = ? AND target_id = ? AND active = 1"
	result, err := q.ext.ExecContext(ctx, query, guildID, targetID)
	if err != nil {
		return 0, wrap("deactivate warnings", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrap("deactivate warnings", fmt.Errorf("failed to check rows affected: %w", err))
	}
	return n, nil
}

// AppendLogEntry adds an audit record and returns its ID.
func (q *Queries) AppendLogEntry(ctx context.Context, e model.ModerationLogEntry) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := `INSERT INTO moderation_log (guild_id, actor_id, target_id, action_type, reason, timestamp)
			  VALUES (:guild_id, :actor_id, :target_id, :action_type, :reason, :timestamp)`
	result, err := sqlx.NamedExecContext(ctx, q.ext, query, e)
	if err != nil {
		return 0, wrap("append log entry", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, wrap("append log entry", fmt.Errorf("failed to get last insert ID: %w", err))
	}
	return id, nil
}

// ListLogEntries returns the target's most recent log entries, newest first.
// A limit of zero or less returns all of them.
func (q *Queries) ListLogEntries(ctx context.Context, guildID, targetID int64, limit int) ([]model.ModerationLogEntry, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	entries := []model.ModerationLogEntry{}
	query := "SELECT * FROM moderation_log WHERE guild_id = ? AND target_id = ? ORDER BY timestamp DESC, id DESC"
	args := []interface{}{guildID, targetID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := sqlx.SelectContext(ctx, q.ext, &entries, query, args...); err != nil {
		return nil, wrap("list log entries", err)
	}
	return entries, nil
}

// GetActiveLeash returns the target's active relation, or nil when there is none.
func (q *Queries) GetActiveLeash(ctx context.Context, guildID, targetID int64) (*model.LeashRelation, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	var relation model.LeashRelation
	query := "SELECT * FROM leash_relations WHERE guild_id = ? AND target_id = ? AND active = 1"
	err := sqlx.GetContext(ctx, q.ext, &relation, query, guildID, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get active leash", err)
	}
	return &relation, nil
}

// CreateLeash inserts an active relation and returns its ID. It fails with
// ErrActiveLeashExists if the target is already leashed in the guild.
func (q *Queries) CreateLeash(ctx context.Context, l model.LeashRelation) (int64, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := `INSERT INTO leash_relations (guild_id, controller_id, target_id, original_nickname, created_at, last_move_at, active)
			  VALUES (:guild_id, :controller_id, :target_id, :original_nickname, :created_at, :last_move_at, 1)`
	result, err := sqlx.NamedExecContext(ctx, q.ext, query, l)
	if isUniqueViolation(err) {
		return 0, ErrActiveLeashExists
	}
	if err != nil {
		return 0, wrap("create leash", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, wrap("create leash", fmt.Errorf("failed to get last insert ID: %w", err))
	}
	return id, nil
}

// UpdateLeashMoveTime records when the relation's target was last moved.
func (q *Queries) UpdateLeashMoveTime(ctx context.Context, leashID int64, at time.Time) error {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := "UPDATE leash_relations SET last_move_at = ? WHERE id = ? AND active = 1"
	result, err := q.ext.ExecContext(ctx, query, at.Unix(), leashID)
	if err != nil {
		return wrap("update leash move time", err)
	}
	return expectOneRow("update leash move time", result, leashID)
}

// DeactivateLeash ends an active relation.
func (q *Queries) DeactivateLeash(ctx context.Context, leashID int64) error {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	query := "UPDATE leash_relations SET active = 0 WHERE id = ? AND active = 1"
	result, err := q.ext.ExecContext(ctx, query, leashID)
	if err != nil {
		return wrap("deactivate leash", err)
	}
	return expectOneRow("deactivate leash", result, leashID)
}

// ListActiveLeashes returns all active relations in a guild.
func (q *Queries) ListActiveLeashes(ctx context.Context, guildID int64) ([]model.LeashRelation, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	relations := []model.LeashRelation{}
	query := "SELECT * FROM leash_relations WHERE guild_id = ? AND active = 1 ORDER BY created_at, id"
	if err := sqlx.SelectContext(ctx, q.ext, &relations, query, guildID); err != nil {
		return nil, wrap("list active leashes", err)
	}
	return relations, nil
}

// ListActiveLeashesByController returns the active relations a controller holds.
func (q *Queries) ListActiveLeashesByController(ctx context.Context, guildID, controllerID int64) ([]model.LeashRelation, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	relations := []model.LeashRelation{}
	query := "SELECT * FROM leash_relations WHERE guild_id = ? AND controller_id = ? AND active = 1 ORDER BY created_at, id"
	if err := sqlx.SelectContext(ctx, q.ext, &relations, query, guildID, controllerID); err != nil {
		return nil, wrap("list leashes by controller", err)
	}
	return relations, nil
}

// ActorActionStats counts log entries per actor since the given time, busiest first.
// System-attributed entries are left out.
func (q *Queries) ActorActionStats(ctx context.Context, guildID int64, since time.Time) ([]model.ActorStat, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	stats := []model.ActorStat{}
	query := `SELECT actor_id, COUNT(*) AS count FROM moderation_log
			  WHERE guild_id = ? AND timestamp >= ? AND actor_id != ?
			  GROUP BY actor_id ORDER BY count DESC, actor_id`
	if err := sqlx.SelectContext(ctx, q.ext, &stats, query, guildID, since.Unix(), model.SystemActorID); err != nil {
		return nil, wrap("actor action stats", err)
	}
	return stats, nil
}

// CountActions counts all log entries in a guild since the given time.
func (q *Queries) CountActions(ctx context.Context, guildID int64, since time.Time) (int, error) {
	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	var count int
	query := "SELECT COUNT(*) FROM moderation_log WHERE guild_id = ? AND timestamp >= ?"
	if err := sqlx.GetContext(ctx, q.ext, &count, query, guildID, since.Unix()); err != nil {
		return 0, wrap("count actions", err)
	}
	return count, nil
}

func expectOneRow(op string, result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrap(op, fmt.Errorf("failed to check rows affected for id %d: %w", id, err))
	}
	if rowsAffected == 0 {
		return wrap(op, fmt.Errorf("no active leash found with id %d", id))
	}
	return nil
}
