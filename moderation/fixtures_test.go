package moderation

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"draman-bot/model"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGuild int64 = 900

var (
	boss    = &model.Member{ID: 1, Username: "boss"}
	admin   = &model.Member{ID: 2, Username: "admin", Administrator: true}
	mod     = &model.Member{ID: 3, Username: "mod", Roles: []string{"Moderator"}}
	mod2    = &model.Member{ID: 4, Username: "mod2", Roles: []string{"Mod"}}
	normal  = &model.Member{ID: 5, Username: "normal", Nickname: "Normie"}
	normal2 = &model.Member{ID: 6, Username: "normal2"}
	botUser = &model.Member{ID: 7, Username: "robot", Bot: true}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	store     *moderation_db.Store
	platform  *MockPlatform
	resolver  *MockResolver
	clock     *fakeClock
	locks     *utils.KeyedMutex
	opts      Options
	sanctions *Sanctions
	leashes   *Leashes
}

func testOptions(clock *fakeClock) Options {
	return Options{
		Policy: model.PermissionPolicy{
			ProtectedID:    boss.ID,
			AdminRoles:     []string{"Administrateur", "Administrator", "Admin", "Owner"},
			ModeratorRoles: []string{"Modérateur", "Moderator", "Mod"},
		},
		MaxWarnings: 3,
		Escalation:  model.EscalationConfig{Action: model.EscalateMute, Duration: time.Hour},
		Leash: model.LeashConfig{
			MoveCooldown:   5 * time.Second,
			MaxMoves:       15,
			NicknamePrefix: "🐕‍🦺 de ",
		},
		Now: clock.Now,
	}
}

func newEnv(t *testing.T, tweak ...func(*Options)) *env {
	t.Helper()

	logger := zap.NewNop().Sugar()
	store, err := moderation_db.Open(context.Background(), filepath.Join(t.TempDir(), "moderation.db"), 5*time.Second, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	opts := testOptions(clock)
	for _, fn := range tweak {
		fn(&opts)
	}

	e := &env{
		store:    store,
		platform: NewMockPlatform(ctrl),
		resolver: NewMockResolver(ctrl),
		clock:    clock,
		opts:     opts,
	}
	e.locks = utils.NewKeyedMutex()
	e.sanctions = NewSanctions(store, e.platform, e.locks, opts, logger)
	e.leashes = NewLeashes(store, e.platform, e.locks, opts, logger)
	return e
}

func (e *env) logEntries(t *testing.T, targetID int64) []model.ModerationLogEntry {
	t.Helper()
	entries, err := e.store.ListLogEntries(context.Background(), testGuild, targetID, 100)
	require.NoError(t, err)
	return entries
}

func (e *env) activeWarnings(t *testing.T, targetID int64) []model.Warning {
	t.Helper()
	list, err := e.store.ListActiveWarnings(context.Background(), testGuild, targetID)
	require.NoError(t, err)
	return list
}
