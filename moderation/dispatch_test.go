package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"draman-bot/model"
	"draman-bot/utils"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDispatcher(e *env) *Dispatcher {
	return NewDispatcher(e.resolver, e.sanctions, e.leashes, zap.NewNop().Sugar())
}

// knows makes the resolver answer for the given members, by ID or mention.
func (e *env) knows(members ...*model.Member) {
	e.resolver.EXPECT().ResolveMember(gomock.Any(), testGuild, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, raw string) (*model.Member, error) {
			id, err := utils.ParseUserID(raw)
			if err != nil {
				return nil, ErrMemberNotFound
			}
			for _, m := range members {
				if m.ID == id {
					return m, nil
				}
			}
			return nil, ErrMemberNotFound
		}).AnyTimes()
}

func TestDispatch_UnknownCommand(t *testing.T) {
	e := newEnv(t)
	res := newDispatcher(e).Dispatch(context.Background(), Invocation{Command: "hug", GuildID: testGuild, ActorID: mod.ID})
	assert.False(t, res.OK)
	assert.Equal(t, KindUnknownCommand, res.Kind)
	assert.NotEmpty(t, res.RequestID)
}

func TestDispatch_Warn(t *testing.T) {
	e := newEnv(t)
	e.knows(mod, normal)
	d := newDispatcher(e)

	res := d.Dispatch(context.Background(), Invocation{
		Command: "warn",
		GuildID: testGuild,
		ActorID: mod.ID,
		Args:    map[string]string{ArgUser: "<@5>", ArgReason: "spam"},
	})
	require.True(t, res.OK, res.Message)
	assert.Equal(t, KindNone, res.Kind)
	assert.Contains(t, res.Message, "<@5>")

	warn, ok := res.Data.(*WarnResult)
	require.True(t, ok)
	assert.Equal(t, "spam", warn.Warning.Reason)

	res = d.Dispatch(context.Background(), Invocation{
		Command: "warnings",
		GuildID: testGuild,
		ActorID: mod.ID,
		Args:    map[string]string{ArgUser: "5"},
	})
	require.True(t, res.OK)
	assert.Len(t, res.Data, 1)
}

func TestDispatch_Rejections(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		want ErrorKind
	}{
		{
			name: "hierarchy",
			inv:  Invocation{Command: "warn", ActorID: normal.ID, Args: map[string]string{ArgUser: "3"}},
			want: KindHierarchy,
		},
		{
			name: "protected",
			inv:  Invocation{Command: "ban", ActorID: admin.ID, Args: map[string]string{ArgUser: "<@1>"}},
			want: KindProtectedTarget,
		},
		{
			name: "unknown target",
			inv:  Invocation{Command: "kick", ActorID: admin.ID, Args: map[string]string{ArgUser: "<@999>"}},
			want: KindMemberNotFound,
		},
		{
			name: "missing target",
			inv:  Invocation{Command: "leash", ActorID: mod.ID},
			want: KindInvalidArgument,
		},
		{
			name: "bad duration",
			inv:  Invocation{Command: "mute", ActorID: mod.ID, Args: map[string]string{ArgUser: "5", ArgDuration: "soon"}},
			want: KindInvalidArgument,
		},
		{
			name: "history needs moderator",
			inv:  Invocation{Command: "history", ActorID: normal.ID, Args: map[string]string{ArgUser: "6"}},
			want: KindNoPermission,
		},
		{
			name: "other member's warnings",
			inv:  Invocation{Command: "warnings", ActorID: normal.ID, Args: map[string]string{ArgUser: "6"}},
			want: KindNoPermission,
		},
		{
			name: "unleash when free",
			inv:  Invocation{Command: "unleash", ActorID: mod.ID, Args: map[string]string{ArgUser: "5"}},
			want: KindNotLeashed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.knows(boss, admin, mod, normal, normal2)
			tt.inv.GuildID = testGuild

			res := newDispatcher(e).Dispatch(context.Background(), tt.inv)
			assert.False(t, res.OK)
			assert.Equal(t, tt.want, res.Kind)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestDispatch_InvalidArgumentMessage(t *testing.T) {
	e := newEnv(t)
	e.knows(mod, normal)
	d := newDispatcher(e)
	ctx := context.Background()

	res := d.Dispatch(ctx, Invocation{
		Command: "mute", GuildID: testGuild, ActorID: mod.ID,
		Args: map[string]string{ArgUser: "5", ArgDuration: "soon"},
	})
	assert.Equal(t, KindInvalidArgument, res.Kind)
	assert.Equal(t, "❌ durée invalide, par exemple 10, 30m, 2h ou 1d12h", res.Message)

	res = d.Dispatch(ctx, Invocation{
		Command: "history", GuildID: testGuild, ActorID: mod.ID,
		Args: map[string]string{ArgUser: "5", ArgLimit: "500"},
	})
	assert.Equal(t, KindInvalidArgument, res.Kind)
	assert.Equal(t, "❌ la limite doit être comprise entre 1 et 50", res.Message)
	assert.NotContains(t, res.Message, "invalid argument")
}

func TestDispatch_UnknownActor(t *testing.T) {
	e := newEnv(t)
	e.knows(normal)

	res := newDispatcher(e).Dispatch(context.Background(), Invocation{
		Command: "warn", GuildID: testGuild, ActorID: 42, Args: map[string]string{ArgUser: "5"},
	})
	assert.Equal(t, KindMemberNotFound, res.Kind)
}

func TestDispatch_LeashAndWakeup(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.Leash.MaxMoves = 3 })
	e.knows(mod, normal)
	d := newDispatcher(e)
	ctx := context.Background()

	e.platform.EXPECT().SetDisplayName(gomock.Any(), testGuild, normal.ID, gomock.Any()).Return(nil)
	res := d.Dispatch(ctx, Invocation{Command: "leash", GuildID: testGuild, ActorID: mod.ID, Args: map[string]string{ArgUser: "5"}})
	require.True(t, res.OK, res.Message)

	e.platform.EXPECT().MoveVoice(gomock.Any(), testGuild, normal.ID).Return(nil).Times(3)
	res = d.Dispatch(ctx, Invocation{Command: "wakeup", GuildID: testGuild, ActorID: mod.ID, Args: map[string]string{ArgUser: "5"}})
	require.True(t, res.OK, res.Message)
	moved, ok := res.Data.(*MoveResult)
	require.True(t, ok)
	assert.Equal(t, 3, moved.Completed, "count defaults to the maximum")

	e.clock.Advance(time.Second)
	res = d.Dispatch(ctx, Invocation{Command: "move", GuildID: testGuild, ActorID: mod.ID, Args: map[string]string{ArgUser: "5", ArgCount: "1"}})
	assert.Equal(t, KindCooldown, res.Kind)
	assert.Contains(t, res.Message, "4s")

	e.clock.Advance(4 * time.Second)
	e.platform.EXPECT().MoveVoice(gomock.Any(), testGuild, normal.ID).Return(errors.New("left voice"))
	res = d.Dispatch(ctx, Invocation{Command: "move", GuildID: testGuild, ActorID: mod.ID, Args: map[string]string{ArgUser: "5", ArgCount: "2"}})
	assert.False(t, res.OK)
	assert.Equal(t, KindPlatformAction, res.Kind)
	assert.Contains(t, res.Message, "0/2")

	res = d.Dispatch(ctx, Invocation{Command: "leashstatus", GuildID: testGuild, ActorID: mod.ID, Args: map[string]string{ArgUser: "5"}})
	require.True(t, res.OK)
	rel, ok := res.Data.(*model.LeashRelation)
	require.True(t, ok)
	assert.Equal(t, mod.ID, rel.ControllerID)
}
