package bot

import (
	"context"
	"sync"
	"time"

	"draman-bot/model"
	"draman-bot/moderation"
	"draman-bot/tasks"
	moderation_db "draman-bot/utils/database/moderation"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	model.Bot
	GetStore() *moderation_db.Store
	Reconciler() (*moderation.Leashes, moderation.Resolver)
}

func (b *Bot) Reconciler() (*moderation.Leashes, moderation.Resolver) {
	return b.Leashes, b.Gateway
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot      BotProvider
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	runHours []int
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:      bot,
		done:     make(chan struct{}),
		runHours: []int{21}, // 9 PM
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.startReconciler()
	go s.startDailyTasks()
}

// Stop terminates all scheduled tasks gracefully. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.bot.GetLogger().Info("Stopping scheduler...")
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Scheduler) startReconciler() {
	defer s.wg.Done()
	interval := s.bot.GetConfig().ReconcileInterval
	if interval <= 0 {
		s.bot.GetLogger().Info("Leash reconciliation is disabled.")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reconcile()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) reconcile() {
	leashes, resolver := s.bot.Reconciler()
	released, err := leashes.Reconcile(context.Background(), s.bot.GetConfig().MainGuildID, resolver)
	if err != nil {
		s.bot.GetLogger().Warnw("leash reconciliation incomplete", "released", released, "error", err)
		return
	}
	if released > 0 {
		s.bot.GetLogger().Infow("released stale leashes", "released", released)
	}
}

func (s *Scheduler) startDailyTasks() {
	defer s.wg.Done()

	for {
		now := time.Now()
		next := nextRun(now, s.runHours)

		s.bot.GetLogger().Debugw("next daily task scheduled", "at", next)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.runDailyReport()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the first of runHours strictly after now, rolling over to
// the next day.
func nextRun(now time.Time, runHours []int) time.Time {
	for _, h := range runHours {
		t := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, now.Location())
		if now.Before(t) {
			return t
		}
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), runHours[0], 0, 0, 0, now.Location())
}

func (s *Scheduler) runDailyReport() {
	cfg := s.bot.GetConfig()
	if cfg.LogChannelID == "" {
		return
	}
	s.bot.GetLogger().Info("Running daily moderation report...")
	if err := tasks.PostModerationStats(context.Background(), s.bot.GetSession(), s.bot.GetStore(),
		cfg.MainGuildID, cfg.LogChannelID, 24*time.Hour); err != nil {
		s.bot.GetLogger().Warnw("daily moderation report failed", "error", err)
	}
}
