package utils

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

var levelColors = map[LogLevel]string{
	Info:  "#2ECC71", // Green
	Warn:  "#E67E22", // Orange
	Error: "#E74C3C", // Red
}

// maxFieldLength is Discord's limit for an embed field value.
const maxFieldLength = 1024

// BuildLogEmbed renders an audit line for the log channel.
func BuildLogEmbed(level LogLevel, module, operation, extraInfo string) *discordgo.MessageEmbed {
	color, ok := levelColors[level]
	if !ok {
		color = "#3498DB" // Blue
	}
	return &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: ParseHexColor(color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: fieldValue(module)},
			{Name: "Opération", Value: fieldValue(operation)},
			{Name: "Détails", Value: fieldValue(extraInfo)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func fieldValue(s string) string {
	if s == "" {
		return "-"
	}
	if r := []rune(s); len(r) > maxFieldLength {
		return string(r[:maxFieldLength-1]) + "…"
	}
	return s
}

// sendLog is a no-op when no log channel is configured.
func sendLog(s *discordgo.Session, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	_, err := s.ChannelMessageSendEmbed(channelID, BuildLogEmbed(level, module, operation, extraInfo))
	return err
}

func LogInfo(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Info, module, operation, extraInfo)
}

func LogWarn(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Warn, module, operation, extraInfo)
}

func LogError(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Error, module, operation, extraInfo)
}
