package model

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetLogger() *zap.SugaredLogger
}
