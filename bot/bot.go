package bot

import (
	"sync/atomic"
	"time"

	"draman-bot/commands"
	"draman-bot/model"
	"draman-bot/moderation"
	"draman-bot/utils"
	moderation_db "draman-bot/utils/database/moderation"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	logger             *zap.SugaredLogger
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Store      *moderation_db.Store
	Gateway    *Gateway
	Sanctions  *moderation.Sanctions
	Leashes    *moderation.Leashes
	Dispatcher *moderation.Dispatcher

	StartedAt time.Time
	scheduler *Scheduler
}

var _ model.Bot = (*Bot)(nil)

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetLogger() *zap.SugaredLogger {
	return b.logger
}

func (b *Bot) GetStore() *moderation_db.Store {
	return b.Store
}

// New wires the moderation core to a Discord session. The session is not
// opened until Run.
func New(cfg *model.Config, store *moderation_db.Store, logger *zap.SugaredLogger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildVoiceStates
	// Voice moves and role lookups read from the state cache.
	dg.StateEnabled = true

	gateway := NewGateway(dg, logger.Named("gateway"))
	opts := moderation.OptionsFromConfig(cfg)
	// Sanctions and leashes share one lock set so a member is never
	// mutated by both at once.
	locks := utils.NewKeyedMutex()

	sanctions := moderation.NewSanctions(store, gateway, locks, opts, logger.Named("sanctions"))
	leashes := moderation.NewLeashes(store, gateway, locks, opts, logger.Named("leash"))

	b := &Bot{
		Session:         dg,
		logger:          logger,
		CommandHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
		Store:           store,
		Gateway:         gateway,
		Sanctions:       sanctions,
		Leashes:         leashes,
		Dispatcher:      moderation.NewDispatcher(gateway, sanctions, leashes, logger.Named("dispatch")),
		StartedAt:       time.Now(),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// Close stops background work and the gateway connection. The store belongs to
// the caller.
func (b *Bot) Close() error {
	b.logger.Info("Gracefully shutting down.")
	b.scheduler.Stop()
	return multierr.Append(b.UnregisterCommands(), b.Session.Close())
}

// RefreshCommands overwrites the guild's slash commands with the current set.
func (b *Bot) RefreshCommands() error {
	guildID := utils.FormatID(b.GetConfig().MainGuildID)
	cmds := commands.GenerateCommands()

	b.logger.Infow("registering commands", "guild", guildID, "count", len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}
	b.RegisteredCommands = registered
	return nil
}

// UnregisterCommands removes every command registered by RefreshCommands.
func (b *Bot) UnregisterCommands() error {
	if b.Session.State == nil || b.Session.State.User == nil {
		return nil
	}
	guildID := utils.FormatID(b.GetConfig().MainGuildID)

	var err error
	for _, cmd := range b.RegisteredCommands {
		err = multierr.Append(err, b.Session.ApplicationCommandDelete(b.Session.State.User.ID, guildID, cmd.ID))
	}
	b.RegisteredCommands = nil
	return err
}
