package defs

import "github.com/bwmarrin/discordgo"

// Commands carry no DefaultMemberPermissions. Access follows the configured
// role names, which are checked when the command runs.

func userOption(description, french string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		DescriptionLocalizations: map[discordgo.Locale]string{
			discordgo.French: french,
		},
		Required: true,
	}
}

var reasonOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "reason",
	Description: "Reason of the sanction",
	DescriptionLocalizations: map[discordgo.Locale]string{
		discordgo.French: "Raison de la sanction",
	},
	MaxLength: 512,
}

var Warn = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "avertir",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Donner un avertissement à un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to warn", "Membre à avertir"),
		reasonOption,
	},
}

var ClearWarns = &discordgo.ApplicationCommand{
	Name:        "clearwarns",
	Description: "Clear the active warnings of a member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "effacer-avertissements",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Effacer les avertissements actifs d'un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member whose warnings are cleared", "Membre dont les avertissements sont effacés"),
	},
}

var Warnings = &discordgo.ApplicationCommand{
	Name:        "warnings",
	Description: "List the active warnings of a member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "avertissements",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Voir les avertissements actifs d'un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to look up", "Membre à consulter"),
	},
}

var Mute = &discordgo.ApplicationCommand{
	Name:        "mute",
	Description: "Time out a member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "rendre-muet",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Exclure temporairement un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to mute", "Membre à rendre muet"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Duration such as 10m, 2h or 1d (at most 28d)",
			DescriptionLocalizations: map[discordgo.Locale]string{
				discordgo.French: "Durée, par exemple 10m, 2h ou 1d (28d maximum)",
			},
			Required: true,
		},
		reasonOption,
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:        "kick",
	Description: "Kick a member from the server",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "expulser",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Expulser un membre du serveur",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to kick", "Membre à expulser"),
		reasonOption,
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Ban a member from the server",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "bannir",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Bannir un membre du serveur",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to ban", "Membre à bannir"),
		reasonOption,
	},
}

var History = &discordgo.ApplicationCommand{
	Name:        "history",
	Description: "Show the moderation history of a member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "historique",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Afficher l'historique de modération d'un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to look up", "Membre à consulter"),
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: "Number of entries (10 by default)",
			DescriptionLocalizations: map[discordgo.Locale]string{
				discordgo.French: "Nombre d'entrées (10 par défaut)",
			},
			MinValue: &minOne,
			MaxValue: 50,
		},
	},
}

var minOne = float64(1)
