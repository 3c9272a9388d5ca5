package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"draman-bot/model"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedTarget_NoMutation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, actor := range []*model.Member{admin, mod, normal} {
		_, err := e.sanctions.Warn(ctx, testGuild, actor, boss, "nope")
		assert.ErrorIs(t, err, ErrProtectedTarget)

		_, err = e.sanctions.Mute(ctx, testGuild, actor, boss, time.Hour, "nope")
		assert.ErrorIs(t, err, ErrProtectedTarget)

		_, err = e.sanctions.Kick(ctx, testGuild, actor, boss, "nope")
		assert.ErrorIs(t, err, ErrProtectedTarget)

		_, err = e.sanctions.Ban(ctx, testGuild, actor, boss, "nope")
		assert.ErrorIs(t, err, ErrProtectedTarget)

		_, err = e.leashes.Leash(ctx, testGuild, actor, boss)
		assert.ErrorIs(t, err, ErrProtectedTarget)
	}

	assert.Empty(t, e.activeWarnings(t, boss.ID))
	assert.Empty(t, e.logEntries(t, boss.ID))
	rel, err := e.leashes.Status(ctx, testGuild, boss.ID)
	require.NoError(t, err)
	assert.Nil(t, rel)
}

func TestWarn_Validation(t *testing.T) {
	tests := []struct {
		name   string
		actor  *model.Member
		target *model.Member
		want   error
	}{
		{name: "self", actor: mod, target: mod, want: ErrSelfTarget},
		{name: "bot", actor: mod, target: botUser, want: ErrBotTarget},
		{name: "normal on moderator", actor: normal, target: mod, want: ErrHierarchy},
		{name: "normal on normal", actor: normal, target: normal2, want: ErrHierarchy},
		{name: "moderator on moderator", actor: mod, target: mod2, want: ErrHierarchy},
		{name: "moderator on admin", actor: mod, target: admin, want: ErrHierarchy},
		{name: "protected is checked before self", actor: boss, target: boss, want: ErrProtectedTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.sanctions.Warn(context.Background(), testGuild, tt.actor, tt.target, "reason")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, e.activeWarnings(t, tt.target.ID))
			assert.Empty(t, e.logEntries(t, tt.target.ID))
		})
	}
}

func TestWarn_BossCanWarnAdmin(t *testing.T) {
	e := newEnv(t)
	res, err := e.sanctions.Warn(context.Background(), testGuild, boss, admin, "behave")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ActiveCount)
	assert.Nil(t, res.Escalation)
}

func TestWarn_EscalatesAtThreshold(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.platform.EXPECT().
		ApplyMute(gomock.Any(), testGuild, normal.ID, time.Hour, gomock.Any()).
		Return(nil).
		Times(1)

	var last *WarnResult
	for i := 1; i <= 3; i++ {
		res, err := e.sanctions.Warn(ctx, testGuild, mod, normal, "spam")
		require.NoError(t, err)
		assert.Equal(t, i, res.ActiveCount)
		if i < 3 {
			assert.Nil(t, res.Escalation)
		}
		last = res
	}

	require.NotNil(t, last.Escalation)
	require.NoError(t, last.Escalation.Err)
	require.NotNil(t, last.Escalation.Entry)
	assert.Equal(t, model.SystemActorID, last.Escalation.Entry.ActorID)
	assert.Equal(t, model.ActionMute, last.Escalation.Entry.ActionType)

	assert.Len(t, e.activeWarnings(t, normal.ID), 3)

	entries := e.logEntries(t, normal.ID)
	require.Len(t, entries, 4)
	assert.Equal(t, model.ActionMute, entries[0].ActionType, "newest first")
	assert.Equal(t, model.SystemActorID, entries[0].ActorID)
	for _, entry := range entries[1:] {
		assert.Equal(t, model.ActionWarn, entry.ActionType)
		assert.Equal(t, mod.ID, entry.ActorID)
	}
}

func TestWarn_EscalationFailureKeepsWarning(t *testing.T) {
	e := newEnv(t, func(o *Options) {
		o.MaxWarnings = 1
		o.Escalation = model.EscalationConfig{Action: model.EscalateKick}
	})

	e.platform.EXPECT().ApplyKick(gomock.Any(), testGuild, normal.ID, gomock.Any()).Return(errors.New("missing permissions"))

	res, err := e.sanctions.Warn(context.Background(), testGuild, mod, normal, "spam")
	require.NoError(t, err)
	require.NotNil(t, res.Escalation)

	var pe *PlatformActionError
	require.ErrorAs(t, res.Escalation.Err, &pe)
	assert.Equal(t, "kick", pe.Action)
	assert.Nil(t, res.Escalation.Entry)

	assert.Len(t, e.activeWarnings(t, normal.ID), 1)
	entries := e.logEntries(t, normal.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionWarn, entries[0].ActionType)
}

func TestWarn_EscalationDisabled(t *testing.T) {
	e := newEnv(t, func(o *Options) {
		o.MaxWarnings = 1
		o.Escalation = model.EscalationConfig{Action: model.EscalateNone}
	})

	res, err := e.sanctions.Warn(context.Background(), testGuild, mod, normal, "spam")
	require.NoError(t, err)
	assert.Nil(t, res.Escalation)
}

func TestClearWarnings(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.Escalation.Action = model.EscalateNone })
	ctx := context.Background()

	_, err := e.sanctions.ClearWarnings(ctx, testGuild, mod, normal)
	assert.ErrorIs(t, err, ErrNotSanctioned)
	assert.Empty(t, e.logEntries(t, normal.ID), "a failed clear is not logged")

	for i := 0; i < 2; i++ {
		_, err := e.sanctions.Warn(ctx, testGuild, mod, normal, "spam")
		require.NoError(t, err)
	}

	_, err = e.sanctions.ClearWarnings(ctx, testGuild, normal2, normal)
	assert.ErrorIs(t, err, ErrNoPermission)

	n, err := e.sanctions.ClearWarnings(ctx, testGuild, mod, normal)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	active, err := e.sanctions.ActiveWarnings(ctx, testGuild, normal.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err := e.sanctions.WarningHistory(ctx, testGuild, normal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, w := range history {
		assert.False(t, w.Active)
	}

	entries := e.logEntries(t, normal.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, model.ActionClear, entries[0].ActionType)

	_, err = e.sanctions.ClearWarnings(ctx, testGuild, mod, normal)
	assert.ErrorIs(t, err, ErrNotSanctioned)
	assert.Len(t, e.logEntries(t, normal.ID), 3)
}

func TestMute(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.sanctions.Mute(ctx, testGuild, mod, normal, 0, "spam")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = e.sanctions.Mute(ctx, testGuild, mod, normal, 30*time.Second, "spam")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = e.sanctions.Mute(ctx, testGuild, mod, normal, MaxMuteDuration+time.Minute, "spam")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	until := e.clock.Now().Add(time.Minute)
	timedOut := *normal
	timedOut.TimedOutUntil = &until
	_, err = e.sanctions.Mute(ctx, testGuild, mod, &timedOut, time.Hour, "spam")
	assert.ErrorIs(t, err, ErrAlreadySanctioned)

	e.platform.EXPECT().ApplyMute(gomock.Any(), testGuild, normal.ID, 10*time.Minute, "spam").Return(nil)
	res, err := e.sanctions.Mute(ctx, testGuild, mod, normal, 10*time.Minute, "spam")
	require.NoError(t, err)
	assert.Equal(t, model.ActionMute, res.Action)
	assert.NotZero(t, res.Entry.ID)

	entries := e.logEntries(t, normal.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, mod.ID, entries[0].ActorID)
}

func TestMute_RepeatRefusedUntilTimeoutEnds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.platform.EXPECT().ApplyMute(gomock.Any(), testGuild, normal.ID, 10*time.Minute, gomock.Any()).Return(nil).Times(2)

	_, err := e.sanctions.Mute(ctx, testGuild, mod, normal, 10*time.Minute, "spam")
	require.NoError(t, err)

	// The snapshot still shows no timeout.
	_, err = e.sanctions.Mute(ctx, testGuild, admin, normal, 10*time.Minute, "spam")
	assert.ErrorIs(t, err, ErrAlreadySanctioned)

	e.clock.Advance(10 * time.Minute)
	_, err = e.sanctions.Mute(ctx, testGuild, admin, normal, 10*time.Minute, "spam")
	require.NoError(t, err)
	assert.Len(t, e.logEntries(t, normal.ID), 2)
}

func TestMute_ConcurrentOnlyOneApplied(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.platform.EXPECT().ApplyMute(gomock.Any(), testGuild, normal.ID, time.Hour, gomock.Any()).Return(nil).Times(1)

	actors := []*model.Member{admin, mod, mod2}
	errs := make([]error, len(actors))
	var wg sync.WaitGroup
	for i, actor := range actors {
		wg.Add(1)
		go func(i int, actor *model.Member) {
			defer wg.Done()
			_, errs[i] = e.sanctions.Mute(ctx, testGuild, actor, normal, time.Hour, "spam")
		}(i, actor)
	}
	wg.Wait()

	applied := 0
	for _, err := range errs {
		if err == nil {
			applied++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadySanctioned)
	}
	assert.Equal(t, 1, applied)
	assert.Len(t, e.logEntries(t, normal.ID), 1)
}

func TestKickBan_PlatformFailureWritesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	boom := errors.New("403 forbidden")

	e.platform.EXPECT().ApplyKick(gomock.Any(), testGuild, normal.ID, "bye").Return(boom)
	_, err := e.sanctions.Kick(ctx, testGuild, admin, normal, "bye")
	var pe *PlatformActionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kick", pe.Action)
	assert.ErrorIs(t, err, boom)

	e.platform.EXPECT().ApplyBan(gomock.Any(), testGuild, normal.ID, "bye").Return(boom)
	_, err = e.sanctions.Ban(ctx, testGuild, admin, normal, "bye")
	assert.Equal(t, KindPlatformAction, KindOf(err))

	assert.Empty(t, e.logEntries(t, normal.ID))

	e.platform.EXPECT().ApplyBan(gomock.Any(), testGuild, normal.ID, "bye").Return(nil)
	res, err := e.sanctions.Ban(ctx, testGuild, admin, normal, "bye")
	require.NoError(t, err)
	assert.Equal(t, model.ActionBan, res.Action)
	assert.Len(t, e.logEntries(t, normal.ID), 1)
}

func TestHistory(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.Escalation.Action = model.EscalateNone })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.sanctions.Warn(ctx, testGuild, mod, normal, "spam")
		require.NoError(t, err)
		e.clock.Advance(time.Minute)
	}

	entries, err := e.sanctions.History(ctx, testGuild, normal.ID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Greater(t, entries[0].Timestamp, entries[1].Timestamp)
}

func TestAppendLog_ProtectedNeverPunished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := e.clock.Now()

	for _, action := range []model.ActionType{model.ActionWarn, model.ActionMute, model.ActionBan, model.ActionMove} {
		_, err := e.opts.appendLog(ctx, e.store.Queries, logEntry(testGuild, admin.ID, boss.ID, action, "", now))
		assert.ErrorIs(t, err, ErrProtectedTarget, string(action))
	}
	assert.Empty(t, e.logEntries(t, boss.ID))

	_, err := e.opts.appendLog(ctx, e.store.Queries, logEntry(testGuild, model.SystemActorID, boss.ID, model.ActionUnleash, "", now))
	require.NoError(t, err)
	assert.Len(t, e.logEntries(t, boss.ID), 1)
}
