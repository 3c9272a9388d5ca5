package moderation

import (
	"context"
	"fmt"
	"time"

	"draman-bot/model"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Escalation describes the automatic action taken when a member reaches the
// warning threshold.
type Escalation struct {
	Action   model.EscalationAction
	Duration time.Duration
	Entry    *model.ModerationLogEntry // nil when the platform call failed
	Err      error
}

type WarnResult struct {
	Warning     model.Warning
	ActiveCount int
	Escalation  *Escalation // nil when the threshold was not reached
}

type SanctionResult struct {
	Action model.ActionType
	Entry  model.ModerationLogEntry
}

// Sanctions enforces warnings, mutes, kicks and bans.
type Sanctions struct {
	store    *moderation_db.Store
	platform Platform
	locks    *utils.KeyedMutex
	opts     Options
	logger   *zap.SugaredLogger

	// mutes holds the end of every timeout applied by this process, keyed by
	// target. The member snapshot can be stale by the time the lock is held.
	mutes *cache.Cache
}

func NewSanctions(store *moderation_db.Store, platform Platform, locks *utils.KeyedMutex, opts Options, logger *zap.SugaredLogger) *Sanctions {
	return &Sanctions{
		store:    store,
		platform: platform,
		locks:    locks,
		opts:     opts,
		logger:   logger,
		mutes:    cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (s *Sanctions) Warn(ctx context.Context, guildID int64, actor, target *model.Member, reason string) (*WarnResult, error) {
	if err := s.opts.checkTarget(actor, target); err != nil {
		return nil, err
	}

	now := s.opts.now()
	res := &WarnResult{
		Warning: model.Warning{
			GuildID:   guildID,
			TargetID:  target.ID,
			ActorID:   actor.ID,
			Reason:    reason,
			Timestamp: now.Unix(),
			Active:    true,
		},
	}

	unlock := s.locks.Lock(targetKey(guildID, target.ID))
	err := s.store.InTx(ctx, func(q *moderation_db.Queries) error {
		id, err := q.CreateWarning(ctx, res.Warning)
		if err != nil {
			return err
		}
		res.Warning.ID = id
		if _, err := s.opts.appendLog(ctx, q, logEntry(guildID, actor.ID, target.ID, model.ActionWarn, reason, now)); err != nil {
			return err
		}
		res.ActiveCount, err = q.CountActiveWarnings(ctx, guildID, target.ID)
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Warning issued",
		"guild", guildID, "actor", actor.ID, "target", target.ID, "active", res.ActiveCount)

	if s.opts.MaxWarnings > 0 && res.ActiveCount >= s.opts.MaxWarnings && s.opts.Escalation.Action != model.EscalateNone {
		res.Escalation = s.escalate(ctx, guildID, target.ID, res.ActiveCount)
	}
	return res, nil
}

func (s *Sanctions) escalate(ctx context.Context, guildID, targetID int64, count int) *Escalation {
	esc := &Escalation{Action: s.opts.Escalation.Action, Duration: s.opts.Escalation.Duration}
	reason := fmt.Sprintf("automatic escalation after %d warnings", count)

	var action model.ActionType
	switch esc.Action {
	case model.EscalateMute:
		action = model.ActionMute
		esc.Err = s.platform.ApplyMute(ctx, guildID, targetID, esc.Duration, reason)
		if esc.Err == nil {
			s.rememberMute(guildID, targetID, esc.Duration)
		}
	case model.EscalateKick:
		action = model.ActionKick
		esc.Err = s.platform.ApplyKick(ctx, guildID, targetID, reason)
	case model.EscalateBan:
		action = model.ActionBan
		esc.Err = s.platform.ApplyBan(ctx, guildID, targetID, reason)
	default:
		esc.Err = invalidArgument("action automatique inconnue %q", esc.Action)
		return esc
	}
	if esc.Err != nil {
		esc.Err = &PlatformActionError{Action: string(action), Err: esc.Err}
		s.logger.Warnw("Escalation failed", "guild", guildID, "target", targetID, "error", esc.Err)
		return esc
	}

	entry := logEntry(guildID, model.SystemActorID, targetID, action, reason, s.opts.now())
	id, err := s.opts.appendLog(ctx, s.store.Queries, entry)
	if err != nil {
		esc.Err = err
		s.logger.Errorw("Escalation applied but not logged", "guild", guildID, "target", targetID, "error", err)
		return esc
	}
	entry.ID = id
	esc.Entry = &entry

	s.logger.Infow("Escalation applied", "guild", guildID, "target", targetID, "action", action)
	return esc
}

// ClearWarnings deactivates every active warning of target and returns how many
// were cleared.
func (s *Sanctions) ClearWarnings(ctx context.Context, guildID int64, actor, target *model.Member) (int64, error) {
	if !utils.IsAtLeastModerator(actor, s.opts.Policy) {
		return 0, ErrNoPermission
	}

	unlock := s.locks.Lock(targetKey(guildID, target.ID))
	defer unlock()

	var cleared int64
	err := s.store.InTx(ctx, func(q *moderation_db.Queries) error {
		n, err := q.DeactivateWarnings(ctx, guildID, target.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotSanctioned
		}
		cleared = n
		_, err = s.opts.appendLog(ctx, q, logEntry(guildID, actor.ID, target.ID, model.ActionClear,
			fmt.Sprintf("cleared %d warnings", n), s.opts.now()))
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Infow("Warnings cleared", "guild", guildID, "actor", actor.ID, "target", target.ID, "count", cleared)
	return cleared, nil
}

func (s *Sanctions) Mute(ctx context.Context, guildID int64, actor, target *model.Member, d time.Duration, reason string) (*SanctionResult, error) {
	if err := s.opts.checkTarget(actor, target); err != nil {
		return nil, err
	}
	if d < MinMuteDuration || d > MaxMuteDuration {
		return nil, invalidArgument("la durée doit être comprise entre 1 minute et 28 jours")
	}
	return s.enforce(ctx, guildID, actor, target, model.ActionMute, reason, func() error {
		if s.mutedUntil(guildID, target).After(s.opts.now()) {
			return ErrAlreadySanctioned
		}
		return nil
	}, func() error {
		if err := s.platform.ApplyMute(ctx, guildID, target.ID, d, reason); err != nil {
			return err
		}
		s.rememberMute(guildID, target.ID, d)
		return nil
	})
}

func (s *Sanctions) Kick(ctx context.Context, guildID int64, actor, target *model.Member, reason string) (*SanctionResult, error) {
	if err := s.opts.checkTarget(actor, target); err != nil {
		return nil, err
	}
	return s.enforce(ctx, guildID, actor, target, model.ActionKick, reason, nil, func() error {
		return s.platform.ApplyKick(ctx, guildID, target.ID, reason)
	})
}

func (s *Sanctions) Ban(ctx context.Context, guildID int64, actor, target *model.Member, reason string) (*SanctionResult, error) {
	if err := s.opts.checkTarget(actor, target); err != nil {
		return nil, err
	}
	return s.enforce(ctx, guildID, actor, target, model.ActionBan, reason, nil, func() error {
		return s.platform.ApplyBan(ctx, guildID, target.ID, reason)
	})
}

// enforce holds the target lock while it runs check, then the platform action,
// and records the action only once the platform confirmed it.
func (s *Sanctions) enforce(ctx context.Context, guildID int64, actor, target *model.Member, action model.ActionType, reason string, check, apply func() error) (*SanctionResult, error) {
	unlock := s.locks.Lock(targetKey(guildID, target.ID))
	defer unlock()

	if check != nil {
		if err := check(); err != nil {
			return nil, err
		}
	}

	if err := apply(); err != nil {
		s.logger.Warnw("Platform action failed",
			"guild", guildID, "actor", actor.ID, "target", target.ID, "action", action, "error", err)
		return nil, &PlatformActionError{Action: string(action), Err: err}
	}

	entry := logEntry(guildID, actor.ID, target.ID, action, reason, s.opts.now())
	id, err := s.opts.appendLog(ctx, s.store.Queries, entry)
	if err != nil {
		s.logger.Errorw("Platform action applied but not logged",
			"guild", guildID, "target", target.ID, "action", action, "error", err)
		return nil, err
	}
	entry.ID = id

	s.logger.Infow("Sanction applied", "guild", guildID, "actor", actor.ID, "target", target.ID, "action", action)
	return &SanctionResult{Action: action, Entry: entry}, nil
}

// mutedUntil returns the latest known end of target's timeout, from either the
// member snapshot or a timeout applied since.
func (s *Sanctions) mutedUntil(guildID int64, target *model.Member) time.Time {
	var until time.Time
	if target.TimedOutUntil != nil {
		until = *target.TimedOutUntil
	}
	if v, ok := s.mutes.Get(targetKey(guildID, target.ID)); ok && v.(time.Time).After(until) {
		until = v.(time.Time)
	}
	return until
}

func (s *Sanctions) rememberMute(guildID, targetID int64, d time.Duration) {
	s.mutes.Set(targetKey(guildID, targetID), s.opts.now().Add(d), d)
}

func (s *Sanctions) ActiveWarnings(ctx context.Context, guildID, targetID int64) ([]model.Warning, error) {
	return s.store.ListActiveWarnings(ctx, guildID, targetID)
}

// WarningHistory includes cleared warnings.
func (s *Sanctions) WarningHistory(ctx context.Context, guildID, targetID int64) ([]model.Warning, error) {
	return s.store.ListWarnings(ctx, guildID, targetID)
}

func (s *Sanctions) History(ctx context.Context, guildID, targetID int64, limit int) ([]model.ModerationLogEntry, error) {
	return s.store.ListLogEntries(ctx, guildID, targetID, limit)
}
