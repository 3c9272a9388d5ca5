package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"draman-bot/model"
	"draman-bot/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Arguments understood by the dispatcher.
const (
	ArgUser     = "user"
	ArgReason   = "reason"
	ArgDuration = "duration"
	ArgCount    = "count"
	ArgLimit    = "limit"
)

const defaultHistoryLimit = 10

// 用户可见的错误消息
var kindMessages = map[ErrorKind]string{
	KindSelfTarget:        "❌ Vous ne pouvez pas effectuer cette action sur vous-même.",
	KindProtectedTarget:   "🛡️ Le boss ultime est protégé et ne peut pas être sanctionné.",
	KindHierarchy:         "❌ Vous ne pouvez pas effectuer cette action sur cet utilisateur (hiérarchie).",
	KindBotTarget:         "❌ Je ne peux pas effectuer cette action sur un autre bot.",
	KindNoPermission:      "❌ Vous n'avez pas la permission d'utiliser cette commande.",
	KindInvalidArgument:   "❌ Argument invalide.",
	KindMemberNotFound:    "❌ Utilisateur non trouvé.",
	KindAlreadySanctioned: "⚠️ Cet utilisateur est déjà sanctionné.",
	KindNotSanctioned:     "⚠️ Cet utilisateur n'est pas sanctionné.",
	KindAlreadyLeashed:    "⚠️ Cet utilisateur est déjà en laisse.",
	KindNotLeashed:        "⚠️ Cet utilisateur n'est pas en laisse.",
	KindStorage:           "❌ Erreur de base de données. Veuillez réessayer.",
	KindPlatformAction:    "❌ Je n'ai pas les permissions nécessaires pour effectuer cette action.",
	KindUnknownCommand:    "❌ Commande inconnue.",
	KindInternal:          "❌ Erreur inattendue.",
}

type commandFunc func(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error)

// Dispatcher routes decoded invocations to the sanction and leash managers and
// turns their outcome into a Result.
type Dispatcher struct {
	resolver  Resolver
	sanctions *Sanctions
	leashes   *Leashes
	logger    *zap.SugaredLogger
	commands  map[string]commandFunc
}

func NewDispatcher(resolver Resolver, sanctions *Sanctions, leashes *Leashes, logger *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		resolver:  resolver,
		sanctions: sanctions,
		leashes:   leashes,
		logger:    logger,
	}
	d.commands = map[string]commandFunc{
		"warn":        d.warn,
		"clearwarns":  d.clearWarnings,
		"warnings":    d.warnings,
		"mute":        d.mute,
		"kick":        d.kick,
		"ban":         d.ban,
		"leash":       d.leash,
		"unleash":     d.unleash,
		"move":        d.move,
		"wakeup":      d.move,
		"leashstatus": d.leashStatus,
		"history":     d.history,
	}
	return d
}

// Commands lists the command names the dispatcher serves.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	return names
}

func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) Result {
	res := Result{RequestID: uuid.NewString()}
	logger := d.logger.With("request_id", res.RequestID, "command", inv.Command, "guild", inv.GuildID, "actor", inv.ActorID)

	fn, ok := d.commands[inv.Command]
	if !ok {
		return d.fail(logger, res, ErrUnknownCommand)
	}

	actor, err := d.resolver.ResolveMember(ctx, inv.GuildID, utils.FormatID(inv.ActorID))
	if err != nil {
		return d.fail(logger, res, err)
	}

	msg, data, err := fn(ctx, inv, actor)
	res.Data = data
	if err != nil {
		res = d.fail(logger, res, err)
		if msg != "" {
			res.Message = msg + "\n" + res.Message
		}
		return res
	}

	logger.Debugw("Command succeeded")
	res.OK = true
	res.Message = msg
	return res
}

func (d *Dispatcher) fail(logger *zap.SugaredLogger, res Result, err error) Result {
	res.Kind = KindOf(err)
	res.Message = kindMessages[res.Kind]

	switch {
	case res.Kind == KindCooldown:
		var ce *CooldownError
		if errors.As(err, &ce) {
			res.Message = fmt.Sprintf("⏳ Attendez encore %s avant de recommencer.", utils.FormatDuration(ce.Remaining))
		}
	case res.Kind == KindInvalidArgument:
		var ae *ArgumentError
		if errors.As(err, &ae) {
			res.Message = "❌ " + ae.Message
		}
	}

	if res.Kind.Infrastructure() {
		logger.Errorw("Command failed", "kind", res.Kind, "error", err)
	} else {
		logger.Infow("Command rejected", "kind", res.Kind, "error", err)
	}
	return res
}

func (d *Dispatcher) target(ctx context.Context, inv Invocation) (*model.Member, error) {
	raw := strings.TrimSpace(inv.Args[ArgUser])
	if raw == "" {
		return nil, invalidArgument("aucun membre indiqué")
	}
	return d.resolver.ResolveMember(ctx, inv.GuildID, raw)
}

// targetID accepts members that already left the guild.
func targetID(inv Invocation) (int64, error) {
	id, err := utils.ParseUserID(inv.Args[ArgUser])
	if err != nil {
		return 0, wrapInvalidArgument(err, "membre invalide, utilisez une mention ou un identifiant")
	}
	return id, nil
}

func reason(inv Invocation) string {
	if r := strings.TrimSpace(inv.Args[ArgReason]); r != "" {
		return r
	}
	return "Aucune raison spécifiée"
}

func intArg(inv Invocation, name string, def int) (int, error) {
	raw := strings.TrimSpace(inv.Args[name])
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidArgument("l'option %s doit être un nombre", name)
	}
	return n, nil
}

func (d *Dispatcher) warn(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	res, err := d.sanctions.Warn(ctx, inv.GuildID, actor, target, reason(inv))
	if err != nil {
		return "", nil, err
	}

	msg := fmt.Sprintf("⚠️ %s a reçu un avertissement (%d actif(s)). Raison : %s",
		target.Mention(), res.ActiveCount, res.Warning.Reason)
	if esc := res.Escalation; esc != nil {
		if esc.Err != nil {
			msg += fmt.Sprintf("\n❌ Sanction automatique (%s) impossible.", esc.Action)
		} else {
			msg += fmt.Sprintf("\n🔨 Sanction automatique appliquée : %s.", esc.Action)
		}
	}
	return msg, res, nil
}

func (d *Dispatcher) clearWarnings(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	n, err := d.sanctions.ClearWarnings(ctx, inv.GuildID, actor, target)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("✅ %d avertissement(s) de %s supprimé(s).", n, target.Mention()), n, nil
}

func (d *Dispatcher) warnings(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	id, err := targetID(inv)
	if err != nil {
		return "", nil, err
	}
	if id != actor.ID && !utils.IsAtLeastModerator(actor, d.sanctions.opts.Policy) {
		return "", nil, ErrNoPermission
	}
	list, err := d.sanctions.ActiveWarnings(ctx, inv.GuildID, id)
	if err != nil {
		return "", nil, err
	}
	if len(list) == 0 {
		return fmt.Sprintf("✅ %s n'a aucun avertissement actif.", model.MentionUser(id)), list, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 %d avertissement(s) actif(s) pour %s :", len(list), model.MentionUser(id))
	for i, w := range list {
		fmt.Fprintf(&b, "\n%d. <t:%d:d> par %s : %s", i+1, w.Timestamp, model.MentionUser(w.ActorID), w.Reason)
	}
	return b.String(), list, nil
}

func (d *Dispatcher) mute(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	dur, err := utils.ParseDuration(inv.Args[ArgDuration])
	if err != nil {
		return "", nil, wrapInvalidArgument(err, "durée invalide, par exemple 10, 30m, 2h ou 1d12h")
	}
	res, err := d.sanctions.Mute(ctx, inv.GuildID, actor, target, dur, reason(inv))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("🔇 %s est réduit au silence pour %s.", target.Mention(), utils.FormatDuration(dur)), res, nil
}

func (d *Dispatcher) kick(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	res, err := d.sanctions.Kick(ctx, inv.GuildID, actor, target, reason(inv))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("👢 %s a été expulsé.", target.DisplayName()), res, nil
}

func (d *Dispatcher) ban(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	res, err := d.sanctions.Ban(ctx, inv.GuildID, actor, target, reason(inv))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("🔨 %s a été banni.", target.DisplayName()), res, nil
}

func (d *Dispatcher) leash(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	target, err := d.target(ctx, inv)
	if err != nil {
		return "", nil, err
	}
	res, err := d.leashes.Leash(ctx, inv.GuildID, actor, target)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("🐕‍🦺 %s est maintenant en laisse de %s.", target.Mention(), actor.Mention()), res, nil
}

func (d *Dispatcher) unleash(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	id, err := targetID(inv)
	if err != nil {
		return "", nil, err
	}
	rel, err := d.leashes.Unleash(ctx, inv.GuildID, actor, id)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("🔓 %s est libéré de sa laisse.", model.MentionUser(id)), rel, nil
}

func (d *Dispatcher) move(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	id, err := targetID(inv)
	if err != nil {
		return "", nil, err
	}
	count, err := intArg(inv, ArgCount, d.leashes.opts.Leash.MaxMoves)
	if err != nil {
		return "", nil, err
	}
	res, err := d.leashes.Move(ctx, inv.GuildID, actor, id, count)
	if res == nil {
		return "", nil, err
	}
	msg := fmt.Sprintf("🔄 %s déplacé %d/%d fois.", model.MentionUser(id), res.Completed, res.Requested)
	return msg, res, err
}

func (d *Dispatcher) leashStatus(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	id, err := targetID(inv)
	if err != nil {
		return "", nil, err
	}
	rel, err := d.leashes.Status(ctx, inv.GuildID, id)
	if err != nil {
		return "", nil, err
	}
	if rel == nil {
		return fmt.Sprintf("🆓 %s n'est pas en laisse.", model.MentionUser(id)), nil, nil
	}
	msg := fmt.Sprintf("🐕‍🦺 %s est en laisse de %s depuis <t:%d:R>.",
		model.MentionUser(id), model.MentionUser(rel.ControllerID), rel.CreatedAt)
	if rem := d.leashes.CooldownRemaining(actor.ID); rem > 0 {
		msg += fmt.Sprintf("\n⏳ Prochain déplacement possible dans %s.", utils.FormatDuration(rem))
	}
	return msg, rel, nil
}

func (d *Dispatcher) history(ctx context.Context, inv Invocation, actor *model.Member) (string, interface{}, error) {
	if !utils.IsAtLeastModerator(actor, d.sanctions.opts.Policy) {
		return "", nil, ErrNoPermission
	}
	id, err := targetID(inv)
	if err != nil {
		return "", nil, err
	}
	limit, err := intArg(inv, ArgLimit, defaultHistoryLimit)
	if err != nil {
		return "", nil, err
	}
	if limit < 1 || limit > 50 {
		return "", nil, invalidArgument("la limite doit être comprise entre 1 et 50")
	}
	entries, err := d.sanctions.History(ctx, inv.GuildID, id, limit)
	if err != nil {
		return "", nil, err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("📭 Aucun historique pour %s.", model.MentionUser(id)), entries, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 Historique de %s :", model.MentionUser(id))
	for _, e := range entries {
		by := model.MentionUser(e.ActorID)
		if e.ActorID == model.SystemActorID {
			by = "système"
		}
		fmt.Fprintf(&b, "\n<t:%d:f> **%s** par %s", e.Timestamp, e.ActionType, by)
		if e.Reason != "" {
			fmt.Fprintf(&b, " : %s", e.Reason)
		}
	}
	return b.String(), entries, nil
}
