package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"draman-bot/bot"
	"draman-bot/config"
	"draman-bot/handlers"
	"draman-bot/model"
	moderation_db "draman-bot/utils/database/moderation"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	unsugared, err := createLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := unsugared.Sugar()
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("bot stopped", "error", err)
	}
}

func run(cfg *model.Config, logger *zap.SugaredLogger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), os.ModePerm); err != nil {
		return err
	}
	store, err := moderation_db.Open(context.Background(), cfg.DatabasePath, cfg.StoreTimeout, logger.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	}()

	b, err := bot.New(cfg, store, logger)
	if err != nil {
		return err
	}

	if err := handlers.Register(b); err != nil {
		logger.Warnw("starting with missing components", "error", err)
	}

	return b.Run()
}

func createLogger(cfg *model.Config) (logger *zap.Logger, err error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
