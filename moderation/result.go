package moderation

import (
	"errors"
)

// ErrorKind is the stable name of an error category reported to collaborators.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindSelfTarget        ErrorKind = "self_target"
	KindProtectedTarget   ErrorKind = "protected_target"
	KindHierarchy         ErrorKind = "hierarchy"
	KindBotTarget         ErrorKind = "bot_target"
	KindNoPermission      ErrorKind = "no_permission"
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindMemberNotFound    ErrorKind = "member_not_found"
	KindAlreadySanctioned ErrorKind = "already_sanctioned"
	KindNotSanctioned     ErrorKind = "not_sanctioned"
	KindAlreadyLeashed    ErrorKind = "already_leashed"
	KindNotLeashed        ErrorKind = "not_leashed"
	KindCooldown          ErrorKind = "cooldown"
	KindStorage           ErrorKind = "storage"
	KindPlatformAction    ErrorKind = "platform_action"
	KindUnknownCommand    ErrorKind = "unknown_command"
	KindInternal          ErrorKind = "internal"
)

// ErrUnknownCommand is returned by the dispatcher for a command it does not serve.
var ErrUnknownCommand = errors.New("unknown command")

// The leash errors wrap the generic state errors and must be matched first.
var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrAlreadyLeashed, KindAlreadyLeashed},
	{ErrNotLeashed, KindNotLeashed},
	{ErrSelfTarget, KindSelfTarget},
	{ErrProtectedTarget, KindProtectedTarget},
	{ErrHierarchy, KindHierarchy},
	{ErrBotTarget, KindBotTarget},
	{ErrNoPermission, KindNoPermission},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrMemberNotFound, KindMemberNotFound},
	{ErrAlreadySanctioned, KindAlreadySanctioned},
	{ErrNotSanctioned, KindNotSanctioned},
	{ErrCooldown, KindCooldown},
	{ErrUnknownCommand, KindUnknownCommand},
}

// KindOf classifies err. A nil error has KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	var pe *PlatformActionError
	if errors.As(err, &pe) {
		return KindPlatformAction
	}
	var se *StorageError
	if errors.As(err, &se) {
		return KindStorage
	}
	return KindInternal
}

// Validation reports whether the kind was rejected before anything was written.
func (k ErrorKind) Validation() bool {
	switch k {
	case KindSelfTarget, KindProtectedTarget, KindHierarchy, KindBotTarget,
		KindNoPermission, KindInvalidArgument, KindMemberNotFound, KindUnknownCommand:
		return true
	}
	return false
}

// Infrastructure reports whether the kind is a storage or platform failure,
// whose details are kept out of user-facing messages.
func (k ErrorKind) Infrastructure() bool {
	return k == KindStorage || k == KindPlatformAction || k == KindInternal
}

// Invocation is a decoded command coming from the gateway.
type Invocation struct {
	Command string
	GuildID int64
	ActorID int64
	Args    map[string]string
}

// Result is what the dispatcher hands back for rendering.
type Result struct {
	OK        bool
	Kind      ErrorKind
	Message   string
	Data      interface{}
	RequestID string
}
