package handlers

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"draman-bot/bot"
	"draman-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func systemCommands(b *bot.Bot) (map[string]commandHandler, error) {
	return map[string]commandHandler{
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}, nil
}

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inv, ok := moderatorInvocation(ctx, s, i, b)
	if !ok {
		return
	}

	// Host metrics are best effort; a missing value shows as n/a.
	cpuCount, _ := cpu.CountsWithContext(ctx, true)
	cpuUsage := "n/a"
	if percent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percent[0])
	}
	memory := "n/a"
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	osVersion, kernel := "n/a", "n/a"
	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		osVersion = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	dbSize := "n/a"
	if fi, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		dbSize = fmt.Sprintf("%.2f MB", float64(fi.Size())/1024/1024)
	}

	leashes := "n/a"
	if active, err := b.Leashes.Active(ctx, inv.GuildID); err == nil {
		leashes = fmt.Sprintf("%d", len(active))
	} else {
		b.GetLogger().Warnw("failed to count active leashes", "error", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Informations système",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 Système", Value: osVersion, Inline: true},
			{Name: "🔧 Noyau", Value: kernel, Inline: true},
			{Name: "🐹 Version de Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 Processeurs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 Utilisation CPU", Value: cpuUsage, Inline: true},
			{Name: "🧠 Mémoire", Value: memory, Inline: true},
			{Name: "🗃️ Base de données", Value: dbSize, Inline: true},
			{Name: "⏱️ Latence WebSocket", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "⏳ En ligne depuis", Value: utils.FormatDuration(time.Since(b.StartedAt)), Inline: true},
			{Name: "🐕‍🦺 Laisses actives", Value: leashes, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Surveillance système・aujourd'hui %s", time.Now().Format("15:04")),
		},
	}

	if err := utils.SendEmbedResponse(s, i, embed, true); err != nil {
		b.GetLogger().Warnw("Error sending system info", "error", err)
	}
}
