package handlers

import (
	"fmt"

	"draman-bot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/multierr"
)

type commandHandler = func(s *discordgo.Session, i *discordgo.InteractionCreate)

// component is a group of slash commands that is set up as a unit. A component
// that fails to initialize is skipped and the others still load.
type component struct {
	name string
	init func(b *bot.Bot) (map[string]commandHandler, error)
}

var components = []component{
	{name: "moderation", init: moderationCommands},
	{name: "system", init: systemCommands},
	{name: "stats", init: statsCommands},
}

// Register loads every component into the bot and subscribes to gateway events.
// The returned error lists the components that failed; the bot is usable
// without them.
func Register(b *bot.Bot) error {
	errs := loadComponents(b, components)
	addHandlers(b)
	return errs
}

func loadComponents(b *bot.Bot, list []component) (errs error) {
	logger := b.GetLogger()
	for _, c := range list {
		handlers, err := c.init(b)
		if err != nil {
			logger.Warnw("component failed to load", "component", c.name, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("component %s: %w", c.name, err))
			continue
		}
		for name, h := range handlers {
			if _, dup := b.CommandHandlers[name]; dup {
				errs = multierr.Append(errs, fmt.Errorf("component %s: command %s is already registered", c.name, name))
				continue
			}
			b.CommandHandlers[name] = h
		}
		logger.Infow("component loaded", "component", c.name, "commands", len(handlers))
	}
	return errs
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.GetLogger().Infow("Logged in", "user", s.State.User.Username, "guilds", len(r.Guilds))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		handleMemberRemove(m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		handleVoiceStateUpdate(v, b)
	})
}
