package moderation

import (
	"errors"
	"fmt"
	"time"

	moderation_db "draman-bot/utils/database/moderation"
	"draman-bot/utils"
)

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }

// Validation errors. Nothing is written when one of these is returned.
var (
	ErrSelfTarget      = errors.New("cannot target yourself")
	ErrProtectedTarget = errors.New("target is protected")
	ErrHierarchy       = errors.New("target's permission level is not below the actor's")
	ErrBotTarget       = errors.New("cannot target a bot account")
	ErrNoPermission    = errors.New("actor lacks permission for this action")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMemberNotFound  = errors.New("member not found")
)

// State-conflict errors.
var (
	ErrAlreadySanctioned = errors.New("target is already sanctioned")
	ErrNotSanctioned     = errors.New("target is not sanctioned")
	// ErrAlreadyLeashed also matches ErrAlreadySanctioned.
	ErrAlreadyLeashed error = &kindError{msg: "target is already leashed", parent: ErrAlreadySanctioned}
	// ErrNotLeashed also matches ErrNotSanctioned.
	ErrNotLeashed error = &kindError{msg: "target is not leashed", parent: ErrNotSanctioned}
	ErrCooldown         = errors.New("action is cooling down")
)

// CooldownError carries the time left before the actor may move again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooling down, %s remaining", utils.FormatDuration(e.Remaining))
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldown }

// PlatformActionError reports a failed enforcement call to the chat platform.
type PlatformActionError struct {
	Action    string
	Completed int // steps that succeeded before the failure, for multi-step actions
	Err       error
}

func (e *PlatformActionError) Error() string {
	if e.Completed > 0 {
		return fmt.Sprintf("platform %s failed after %d steps: %v", e.Action, e.Completed, e.Err)
	}
	return fmt.Sprintf("platform %s failed: %v", e.Action, e.Err)
}

func (e *PlatformActionError) Unwrap() error { return e.Err }

// StorageError is the store's error type, re-exported for callers of this package.
type StorageError = moderation_db.StorageError

// ArgumentError rejects a malformed command argument. Message is shown to the
// user as is, Err keeps the parser's error for the logs.
type ArgumentError struct {
	Message string
	Err     error
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid argument: %s: %v", e.Message, e.Err)
	}
	return "invalid argument: " + e.Message
}

func (e *ArgumentError) Unwrap() error { return e.Err }

func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(format string, args ...interface{}) error {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

func wrapInvalidArgument(err error, message string) error {
	return &ArgumentError{Message: message, Err: err}
}
