package commands

import (
	"draman-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Warn,
		defs.ClearWarns,
		defs.Warnings,
		defs.Mute,
		defs.Kick,
		defs.Ban,
		defs.History,
		defs.Leash,
		defs.Unleash,
		defs.Move,
		defs.Wakeup,
		defs.LeashStatus,
		defs.SystemInfo,
		defs.ModStats,
	}
}
