package defs

import "github.com/bwmarrin/discordgo"

var Leash = &discordgo.ApplicationCommand{
	Name:        "leash",
	Description: "Put a member on your leash",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "laisse",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Mettre un membre en laisse",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to leash", "Membre à mettre en laisse"),
	},
}

var Unleash = &discordgo.ApplicationCommand{
	Name:        "unleash",
	Description: "Release a leashed member",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "liberer",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Libérer un membre de sa laisse",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to release", "Membre à libérer"),
	},
}

// moveCommand builds move and its wakeup alias.
func moveCommand(name, french, description, frenchDescription string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		NameLocalizations: &map[discordgo.Locale]string{
			discordgo.French: french,
		},
		DescriptionLocalizations: &map[discordgo.Locale]string{
			discordgo.French: frenchDescription,
		},
		Options: []*discordgo.ApplicationCommandOption{
			userOption("Leashed member", "Membre en laisse"),
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "Number of moves",
				DescriptionLocalizations: map[discordgo.Locale]string{
					discordgo.French: "Nombre de déplacements",
				},
				MinValue: &minOne,
			},
		},
	}
}

var (
	Move   = moveCommand("move", "deplacer", "Move a leashed member between voice channels", "Déplacer un membre en laisse entre les salons vocaux")
	Wakeup = moveCommand("wakeup", "reveiller", "Wake a leashed member up by moving them around", "Réveiller un membre en laisse en le déplaçant")
)

var LeashStatus = &discordgo.ApplicationCommand{
	Name:        "leashstatus",
	Description: "Show who holds a member's leash",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "statut-laisse",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.French: "Voir qui tient la laisse d'un membre",
	},
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to look up", "Membre à consulter"),
	},
}
