package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"draman-bot/utils"
)

// Run connects to Discord, registers the slash commands and blocks until the
// process is interrupted.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			b.logger.Warnw("shutdown incomplete", "error", err)
		}
	}()

	if err := b.RefreshCommands(); err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	// Members may have left while the bot was offline.
	guildID := b.GetConfig().MainGuildID
	if released, err := b.Leashes.Reconcile(context.Background(), guildID, b.Gateway); err != nil {
		b.logger.Warnw("startup reconciliation incomplete", "released", released, "error", err)
	} else if released > 0 {
		b.logger.Infow("released stale leashes", "released", released)
	}

	b.scheduler.Start()

	b.logger.Infow("Bot is now running. Press CTRL-C to exit.", "user", b.Session.State.User.Username)
	if err := utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "Système", "Démarrage", "Le bot a démarré avec succès."); err != nil {
		b.logger.Warnw("failed to post startup log", "error", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
