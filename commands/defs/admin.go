package defs

import "github.com/bwmarrin/discordgo"

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Display bot and system status information",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "infos-systeme",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Afficher l'état du bot et du système",
	},
}

var ModStats = &discordgo.ApplicationCommand{
	Name:        "modstats",
	Description: "Moderator leaderboard for a recent period",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "stats-moderation",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Classement des modérateurs sur une période récente",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "hours",
			Description: "Length of the period in hours (24 by default)",
			DescriptionLocalizations: map[discordgo.Locale]string{
				discordgo.French: "Durée de la période en heures (24 par défaut)",
			},
			MinValue: &minOne,
			MaxValue: 24 * 30,
		},
	},
}
