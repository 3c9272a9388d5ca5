package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"draman-bot/bot"
	"draman-bot/moderation"
	"draman-bot/tasks"
	"draman-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const defaultStatsHours = 24

func statsCommands(b *bot.Bot) (map[string]commandHandler, error) {
	if b.Store == nil {
		return nil, errors.New("moderation store is not open")
	}
	return map[string]commandHandler{
		"modstats": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			handleModStats(s, i, b)
		},
	}, nil
}

func handleModStats(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	logger := b.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	inv, ok := moderatorInvocation(ctx, s, i, b)
	if !ok {
		return
	}

	embed, err := tasks.GenerateModerationStatsEmbed(ctx, b.Store, inv.GuildID, statsPeriod(inv), time.Now())
	if err != nil {
		logger.Errorw("failed to build moderation stats", "guild", inv.GuildID, "error", err)
		if err := utils.SendErrorResponse(s, i, "❌ Erreur de base de données. Veuillez réessayer."); err != nil {
			logger.Warnw("Error sending error response", "error", err)
		}
		return
	}
	if err := utils.SendEmbedResponse(s, i, embed, false); err != nil {
		logger.Warnw("Error sending moderation stats", "error", err)
	}
}

// moderatorInvocation decodes the interaction and checks the actor is at least a
// moderator of its guild. On failure it answers the interaction itself.
func moderatorInvocation(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) (moderation.Invocation, bool) {
	logger := b.GetLogger()
	inv, err := invocationFromInteraction(i)
	if err != nil {
		if err := utils.SendErrorResponse(s, i, "❌ "+err.Error()); err != nil {
			logger.Warnw("Error sending error response", "error", err)
		}
		return inv, false
	}

	actor, err := b.Gateway.ResolveMember(ctx, inv.GuildID, utils.FormatID(inv.ActorID))
	if err != nil || !utils.IsAtLeastModerator(actor, b.GetConfig().PermissionPolicy()) {
		if err := utils.SendErrorResponse(s, i, "❌ Vous n'avez pas la permission d'utiliser cette commande."); err != nil {
			logger.Warnw("Error sending error response", "error", err)
		}
		return inv, false
	}
	return inv, true
}

func statsPeriod(inv moderation.Invocation) time.Duration {
	hours, err := strconv.Atoi(inv.Args["hours"])
	if err != nil || hours < 1 {
		hours = defaultStatsHours
	}
	return time.Duration(hours) * time.Hour
}
