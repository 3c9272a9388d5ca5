package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"draman-bot/bot"
	"draman-bot/model"
	"draman-bot/moderation"
	"draman-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	commandTimeout   = 30 * time.Second
	maxMessageLength = 2000
)

// Commands whose work may outlast the three second answer window.
var slowCommands = map[string]bool{
	"move":   true,
	"wakeup": true,
}

type auditedCommand struct {
	module string
	action model.ActionType
}

// Commands that change state and are reported to the log channel.
var auditedCommands = map[string]auditedCommand{
	"warn":       {"Modération", model.ActionWarn},
	"clearwarns": {"Modération", model.ActionClear},
	"mute":       {"Modération", model.ActionMute},
	"kick":       {"Modération", model.ActionKick},
	"ban":        {"Modération", model.ActionBan},
	"leash":      {"Laisse", model.ActionLeash},
	"unleash":    {"Laisse", model.ActionUnleash},
	"move":       {"Laisse", model.ActionMove},
	"wakeup":     {"Laisse", model.ActionMove},
}

func moderationCommands(b *bot.Bot) (map[string]commandHandler, error) {
	if b.Dispatcher == nil {
		return nil, errors.New("moderation core is not initialized")
	}
	handlers := make(map[string]commandHandler)
	for _, name := range b.Dispatcher.Commands() {
		handlers[name] = func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			handleModerationCommand(s, i, b)
		}
	}
	return handlers, nil
}

func handleModerationCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	logger := b.GetLogger()

	inv, err := invocationFromInteraction(i)
	if err != nil {
		if err := utils.SendErrorResponse(s, i, "❌ "+err.Error()); err != nil {
			logger.Warnw("Error sending error response", "error", err)
		}
		return
	}

	deferred := slowCommands[inv.Command]
	if deferred {
		if err := utils.DeferResponse(s, i, false); err != nil {
			logger.Warnw("Error deferring response", "command", inv.Command, "error", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	res := b.Dispatcher.Dispatch(ctx, inv)

	content := truncate(res.Message, maxMessageLength)
	switch {
	case deferred:
		err = utils.SendFollowUp(s, i.Interaction, content)
	case res.OK:
		err = utils.SendPublicResponse(s, i, content)
	default:
		err = utils.SendErrorResponse(s, i, content)
	}
	if err != nil {
		logger.Warnw("Error sending response", "request_id", res.RequestID, "error", err)
	}

	if res.OK {
		notifyTarget(s, b, i.GuildID, res)
	}
	audit(s, b, inv, res)
}

// invocationFromInteraction turns slash command options into dispatcher arguments.
func invocationFromInteraction(i *discordgo.InteractionCreate) (moderation.Invocation, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return moderation.Invocation{}, errors.New("Cette commande ne fonctionne que sur un serveur.")
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return moderation.Invocation{}, fmt.Errorf("identifiant de serveur invalide %q", i.GuildID)
	}
	actorID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return moderation.Invocation{}, fmt.Errorf("identifiant d'utilisateur invalide %q", i.Member.User.ID)
	}

	data := i.ApplicationCommandData()
	inv := moderation.Invocation{
		Command: data.Name,
		GuildID: guildID,
		ActorID: actorID,
		Args:    make(map[string]string, len(data.Options)),
	}
	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			inv.Args[opt.Name] = strconv.FormatInt(opt.IntValue(), 10)
		case discordgo.ApplicationCommandOptionString:
			inv.Args[opt.Name] = opt.StringValue()
		default:
			inv.Args[opt.Name] = fmt.Sprint(opt.Value)
		}
	}
	return inv, nil
}

func notifyTarget(s *discordgo.Session, b *bot.Bot, guildID string, res moderation.Result) {
	guildName := guildID
	if g, err := s.State.Guild(guildID); err == nil {
		guildName = g.Name
	}
	targetID, msg, ok := sanctionNotice(res.Data, guildName)
	if !ok {
		return
	}
	if err := utils.SendPrivateMessage(s, utils.FormatID(targetID), msg); err != nil {
		// Members may close their DMs or share no server with the bot anymore.
		b.GetLogger().Debugw("could not notify sanctioned member", "request_id", res.RequestID, "error", err)
	}
}

// sanctionNotice builds the direct message sent to a sanctioned member.
func sanctionNotice(data interface{}, guildName string) (int64, string, bool) {
	switch r := data.(type) {
	case *moderation.WarnResult:
		return r.Warning.TargetID, fmt.Sprintf("⚠️ Vous avez reçu un avertissement sur **%s**.\nRaison : %s", guildName, r.Warning.Reason), true
	case *moderation.SanctionResult:
		var what string
		switch r.Action {
		case model.ActionMute:
			what = "été réduit au silence"
		case model.ActionKick:
			what = "été expulsé"
		case model.ActionBan:
			what = "été banni"
		default:
			return 0, "", false
		}
		return r.Entry.TargetID, fmt.Sprintf("🔨 Vous avez %s de **%s**.\nRaison : %s", what, guildName, r.Entry.Reason), true
	}
	return 0, "", false
}

func audit(s *discordgo.Session, b *bot.Bot, inv moderation.Invocation, res moderation.Result) {
	level, module, ok := auditLevel(inv.Command, res)
	if !ok {
		return
	}
	extra := fmt.Sprintf("%s\nPar %s · requête %s", res.Message, utils.FormatID(inv.ActorID), res.RequestID)

	var err error
	channelID := b.GetConfig().LogChannelID
	switch level {
	case utils.Error:
		err = utils.LogError(s, channelID, module, inv.Command, extra)
	case utils.Warn:
		err = utils.LogWarn(s, channelID, module, inv.Command, extra)
	default:
		err = utils.LogInfo(s, channelID, module, inv.Command, extra)
	}
	if err != nil {
		b.GetLogger().Warnw("failed to post audit log", "request_id", res.RequestID, "error", err)
	}
}

// auditLevel decides whether an outcome goes to the log channel. Rejections
// are only answered to the actor. Sanctions are logged as warnings.
func auditLevel(command string, res moderation.Result) (utils.LogLevel, string, bool) {
	cmd, ok := auditedCommands[command]
	switch {
	case res.OK && ok && cmd.action.Punitive():
		return utils.Warn, cmd.module, true
	case res.OK && ok:
		return utils.Info, cmd.module, true
	case res.Kind.Infrastructure():
		if !ok {
			cmd.module = "Système"
		}
		return utils.Error, cmd.module, true
	}
	return "", "", false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
