package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"draman-bot/model"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type LeashResult struct {
	Relation model.LeashRelation
	Renamed  bool // false when the nickname could not be changed
}

type MoveResult struct {
	Relation  model.LeashRelation
	Requested int
	Completed int
}

// Leashes manages leash relations between a controller and a target.
type Leashes struct {
	store     *moderation_db.Store
	platform  Platform
	locks     *utils.KeyedMutex
	cooldowns *utils.Cooldowns
	opts      Options
	logger    *zap.SugaredLogger
}

func NewLeashes(store *moderation_db.Store, platform Platform, locks *utils.KeyedMutex, opts Options, logger *zap.SugaredLogger) *Leashes {
	return &Leashes{
		store:     store,
		platform:  platform,
		locks:     locks,
		cooldowns: utils.NewCooldowns(opts.Leash.MoveCooldown),
		opts:      opts,
		logger:    logger,
	}
}

func (l *Leashes) Leash(ctx context.Context, guildID int64, actor, target *model.Member) (*LeashResult, error) {
	if err := l.opts.checkTarget(actor, target); err != nil {
		return nil, err
	}

	now := l.opts.now()
	rel := model.LeashRelation{
		GuildID:          guildID,
		ControllerID:     actor.ID,
		TargetID:         target.ID,
		OriginalNickname: target.Nickname,
		CreatedAt:        now.Unix(),
		Active:           true,
	}

	unlock := l.locks.Lock(targetKey(guildID, target.ID))
	err := l.store.InTx(ctx, func(q *moderation_db.Queries) error {
		existing, err := q.GetActiveLeash(ctx, guildID, target.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyLeashed
		}
		rel.ID, err = q.CreateLeash(ctx, rel)
		if errors.Is(err, moderation_db.ErrActiveLeashExists) {
			return ErrAlreadyLeashed
		}
		if err != nil {
			return err
		}
		_, err = l.opts.appendLog(ctx, q, logEntry(guildID, actor.ID, target.ID, model.ActionLeash, "", now))
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	l.logger.Infow("Member leashed", "guild", guildID, "controller", actor.ID, "target", target.ID)

	res := &LeashResult{Relation: rel, Renamed: true}
	name := leashNickname(l.opts.Leash.NicknamePrefix, actor.DisplayName())
	if err := l.platform.SetDisplayName(ctx, guildID, target.ID, name); err != nil {
		res.Renamed = false
		l.logger.Warnw("Failed to rename leashed member", "guild", guildID, "target", target.ID, "error", err)
	}
	return res, nil
}

// Move drags the leashed target between voice channels count times. The
// cooldown applies to the actor across all of their targets.
func (l *Leashes) Move(ctx context.Context, guildID int64, actor *model.Member, targetID int64, count int) (*MoveResult, error) {
	if count < 1 || count > l.opts.Leash.MaxMoves {
		return nil, invalidArgument("le nombre de déplacements doit être compris entre 1 et %d", l.opts.Leash.MaxMoves)
	}

	unlock := l.locks.Lock(targetKey(guildID, targetID))
	// Read the clock under the lock so time spent waiting is not credited to
	// the cooldown.
	now := l.opts.now()

	rel, err := l.store.GetActiveLeash(ctx, guildID, targetID)
	if err != nil {
		unlock()
		return nil, err
	}
	if rel == nil {
		unlock()
		return nil, ErrNotLeashed
	}
	if rel.ControllerID != actor.ID && !utils.IsAtLeastAdmin(actor, l.opts.Policy) {
		unlock()
		return nil, ErrNoPermission
	}

	restore, remaining, ok := l.cooldowns.Acquire(actorKey(actor.ID), now)
	if !ok {
		unlock()
		return nil, &CooldownError{Remaining: remaining}
	}

	err = l.store.InTx(ctx, func(q *moderation_db.Queries) error {
		if err := q.UpdateLeashMoveTime(ctx, rel.ID, now); err != nil {
			return err
		}
		_, err := l.opts.appendLog(ctx, q, logEntry(guildID, actor.ID, targetID, model.ActionMove,
			fmt.Sprintf("%d moves", count), now))
		return err
	})
	unlock()
	if err != nil {
		restore()
		return nil, err
	}
	rel.LastMoveAt = now.Unix()

	res := &MoveResult{Relation: *rel, Requested: count}
	for res.Completed < count {
		if err := l.platform.MoveVoice(ctx, guildID, targetID); err != nil {
			l.logger.Warnw("Voice move sequence interrupted",
				"guild", guildID, "target", targetID, "completed", res.Completed, "requested", count, "error", err)
			return res, &PlatformActionError{Action: string(model.ActionMove), Completed: res.Completed, Err: err}
		}
		res.Completed++
	}

	l.logger.Infow("Leashed member moved", "guild", guildID, "actor", actor.ID, "target", targetID, "moves", count)
	return res, nil
}

func (l *Leashes) Unleash(ctx context.Context, guildID int64, actor *model.Member, targetID int64) (*model.LeashRelation, error) {
	unlock := l.locks.Lock(targetKey(guildID, targetID))

	var rel *model.LeashRelation
	err := l.store.InTx(ctx, func(q *moderation_db.Queries) error {
		var err error
		rel, err = q.GetActiveLeash(ctx, guildID, targetID)
		if err != nil {
			return err
		}
		if rel == nil {
			return ErrNotLeashed
		}
		if rel.ControllerID != actor.ID && !utils.IsAtLeastAdmin(actor, l.opts.Policy) {
			return ErrNoPermission
		}
		return l.release(ctx, q, rel, actor.ID, "")
	})
	unlock()
	if err != nil {
		return nil, err
	}

	l.logger.Infow("Member unleashed", "guild", guildID, "actor", actor.ID, "target", targetID)
	l.restoreNickname(ctx, rel)
	return rel, nil
}

func (l *Leashes) release(ctx context.Context, q *moderation_db.Queries, rel *model.LeashRelation, actorID int64, reason string) error {
	if err := q.DeactivateLeash(ctx, rel.ID); err != nil {
		return err
	}
	rel.Active = false
	_, err := l.opts.appendLog(ctx, q, logEntry(rel.GuildID, actorID, rel.TargetID, model.ActionUnleash, reason, l.opts.now()))
	return err
}

func (l *Leashes) restoreNickname(ctx context.Context, rel *model.LeashRelation) {
	if err := l.platform.SetDisplayName(ctx, rel.GuildID, rel.TargetID, rel.OriginalNickname); err != nil {
		l.logger.Warnw("Failed to restore nickname", "guild", rel.GuildID, "target", rel.TargetID, "error", err)
	}
}

// TargetDeparted releases every relation the departed member takes part in,
// both as target and as controller. The entries are attributed to the system.
// The member is gone, so the nickname is only restored for remaining targets.
func (l *Leashes) TargetDeparted(ctx context.Context, guildID, memberID int64) (released int, err error) {
	if ok, rerr := l.releaseSystem(ctx, guildID, memberID, "member left the guild"); rerr != nil {
		err = multierr.Append(err, rerr)
	} else if ok {
		released++
	}

	controlled, lerr := l.store.ListActiveLeashesByController(ctx, guildID, memberID)
	if lerr != nil {
		return released, multierr.Append(err, lerr)
	}
	for _, rel := range controlled {
		ok, rerr := l.releaseSystem(ctx, guildID, rel.TargetID, "controller left the guild")
		if rerr != nil {
			err = multierr.Append(err, rerr)
			continue
		}
		if ok {
			released++
			l.restoreNickname(ctx, &rel)
		}
	}

	if released > 0 {
		l.logger.Infow("Released leashes of departed member", "guild", guildID, "member", memberID, "released", released)
	}
	return released, err
}

func (l *Leashes) releaseSystem(ctx context.Context, guildID, targetID int64, reason string) (bool, error) {
	unlock := l.locks.Lock(targetKey(guildID, targetID))
	defer unlock()

	released := false
	err := l.store.InTx(ctx, func(q *moderation_db.Queries) error {
		rel, err := q.GetActiveLeash(ctx, guildID, targetID)
		if err != nil || rel == nil {
			return err
		}
		released = true
		return l.release(ctx, q, rel, model.SystemActorID, reason)
	})
	return released && err == nil, err
}

// FollowController pulls every target leashed by controllerID into the voice
// channel the controller just joined.
func (l *Leashes) FollowController(ctx context.Context, guildID, controllerID int64, channelID string) (moved int, err error) {
	if channelID == "" {
		return 0, nil
	}
	rels, err := l.store.ListActiveLeashesByController(ctx, guildID, controllerID)
	if err != nil {
		return 0, err
	}
	for _, rel := range rels {
		if merr := l.platform.MoveVoiceTo(ctx, guildID, rel.TargetID, channelID); merr != nil {
			err = multierr.Append(err, &PlatformActionError{Action: "follow", Err: merr})
			continue
		}
		moved++
	}
	return moved, err
}

// Status returns the target's active relation, or nil when it is not leashed.
func (l *Leashes) Status(ctx context.Context, guildID, targetID int64) (*model.LeashRelation, error) {
	return l.store.GetActiveLeash(ctx, guildID, targetID)
}

func (l *Leashes) Active(ctx context.Context, guildID int64) ([]model.LeashRelation, error) {
	return l.store.ListActiveLeashes(ctx, guildID)
}

// CooldownRemaining reports how long the actor still waits before moving again.
func (l *Leashes) CooldownRemaining(actorID int64) time.Duration {
	return l.cooldowns.Remaining(actorKey(actorID), l.opts.now())
}

// Reconcile releases relations whose target or controller is no longer a member
// of the guild, which happens when someone left while the bot was offline.
func (l *Leashes) Reconcile(ctx context.Context, guildID int64, resolver Resolver) (released int, err error) {
	rels, err := l.store.ListActiveLeashes(ctx, guildID)
	if err != nil {
		return 0, err
	}

	gone := make(map[int64]bool)
	present := func(id int64) (bool, error) {
		if g, ok := gone[id]; ok {
			return !g, nil
		}
		_, rerr := resolver.ResolveMember(ctx, guildID, utils.FormatID(id))
		if errors.Is(rerr, ErrMemberNotFound) {
			gone[id] = true
			return false, nil
		}
		if rerr != nil {
			return false, rerr
		}
		gone[id] = false
		return true, nil
	}

	for _, rel := range rels {
		for _, id := range []int64{rel.TargetID, rel.ControllerID} {
			ok, perr := present(id)
			if perr != nil {
				err = multierr.Append(err, perr)
				break
			}
			if ok {
				continue
			}
			n, derr := l.TargetDeparted(ctx, guildID, id)
			released += n
			err = multierr.Append(err, derr)
			break
		}
	}
	return released, err
}
