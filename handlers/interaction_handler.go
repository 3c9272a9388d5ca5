package handlers

import (
	"draman-bot/bot"
	"draman-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.CommandHandlers[name]
	if !ok {
		b.GetLogger().Warnw("no handler for command", "command", name)
		if err := utils.SendErrorResponse(s, i, "❌ Commande inconnue."); err != nil {
			b.GetLogger().Warnw("Error sending error response", "error", err)
		}
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.GetLogger().Errorw("command handler panicked", "command", name, "panic", r)
		}
	}()
	h(s, i)
}
