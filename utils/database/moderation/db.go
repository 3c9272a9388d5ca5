package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrActiveLeashExists is returned by CreateLeash when the target already has an
// active relation in the guild.
var ErrActiveLeashExists = errors.New("active leash already exists for target")

// StorageError wraps every failure coming out of the database layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || errors.Is(err, ErrActiveLeashExists) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id INTEGER NOT NULL,
		target_id INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1
	);`,
	`CREATE INDEX IF NOT EXISTS idx_warnings_target ON warnings (guild_id, target_id, active);`,
	`CREATE TABLE IF NOT EXISTS moderation_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		target_id INTEGER NOT NULL,
		action_type TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_moderation_log_target ON moderation_log (guild_id, target_id);`,
	`CREATE INDEX IF NOT EXISTS idx_moderation_log_time ON moderation_log (guild_id, timestamp);`,
	`CREATE TABLE IF NOT EXISTS leash_relations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id INTEGER NOT NULL,
		controller_id INTEGER NOT NULL,
		target_id INTEGER NOT NULL,
		original_nickname TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		last_move_at INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_leash_active_target ON leash_relations (guild_id, target_id) WHERE active = 1;`,
	`CREATE INDEX IF NOT EXISTS idx_leash_controller ON leash_relations (guild_id, controller_id, active);`,
}

// Store is the durable home of warnings, the moderation log and leash relations.
type Store struct {
	*Queries
	db     *sqlx.DB
	logger *zap.SugaredLogger
}

// Open connects to the sqlite database at path and ensures the schema exists.
// Every later operation is bounded by timeout. The connection is closed again if
// initialization fails.
func Open(ctx context.Context, path string, timeout time.Duration, logger *zap.SugaredLogger) (_ *Store, err error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_txlock=immediate", path, timeout.Milliseconds())
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	defer func() {
		if err != nil {
			if cerr := db.Close(); cerr != nil {
				logger.Warnw("failed to close database after init failure", "error", cerr)
			}
		}
	}()

	// sqlite allows a single writer; one connection keeps transactions from
	// tripping over each other and makes every read see the last commit.
	db.SetMaxOpenConns(1)

	initCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	if err = db.PingContext(initCtx); err != nil {
		return nil, &StorageError{Op: "ping", Err: err}
	}
	for _, stmt := range schema {
		if _, err = db.ExecContext(initCtx, stmt); err != nil {
			return nil, &StorageError{Op: "migrate", Err: fmt.Errorf("failed to execute %q: %w", stmt, err)}
		}
	}

	logger.Infow("moderation database ready", "path", path)
	return &Store{
		Queries: &Queries{ext: db, timeout: timeout},
		db:      db,
		logger:  logger,
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a single transaction. Anything fn returns aborts the
// transaction and is passed through unchanged.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "begin", Err: err}
	}

	if err := fn(&Queries{ext: tx, timeout: s.timeout}); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, context.DeadlineExceeded) {
			s.logger.Warnw("transaction rollback failed", "error", rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
