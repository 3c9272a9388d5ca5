package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"draman-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const (
	tokenFlag              = "discord-token"
	protectedIDFlag        = "boss-ultimate-id"
	mainGuildIDFlag        = "main-guild-id"
	logChannelIDFlag       = "log-channel-id"
	databasePathFlag       = "database-path"
	storeTimeoutFlag       = "store-timeout"
	developmentFlag        = "development"
	logLevelFlag           = "log-level"
	moderatorRolesFlag     = "moderator-roles"
	adminRolesFlag         = "admin-roles"
	maxWarningsFlag        = "max-warnings"
	escalationActionFlag   = "escalation-action"
	escalationDurationFlag = "escalation-duration"
	wakeupMovesFlag        = "wakeup-moves"
	leashCooldownFlag      = "leash-cooldown"
	nicknamePrefixFlag     = "dog-nickname-prefix"
	reconcileIntervalFlag  = "reconcile-interval"
)

const maxMuteDuration = 28 * 24 * time.Hour

var defaults = map[string]interface{}{
	databasePathFlag:       "data/bot_database.db",
	storeTimeoutFlag:       "5s",
	developmentFlag:        false,
	logLevelFlag:           "info",
	moderatorRolesFlag:     "Modérateur,Moderator,Mod,Administrateur,Administrator,Admin",
	adminRolesFlag:         "Administrateur,Administrator,Admin,Owner",
	maxWarningsFlag:        3,
	escalationActionFlag:   string(model.EscalateMute),
	escalationDurationFlag: "1h",
	wakeupMovesFlag:        15,
	leashCooldownFlag:      "5",
	nicknamePrefixFlag:     "🐕‍🦺 de ",
	reconcileIntervalFlag:  "30m",
}

// Load reads the configuration from the optional .env file, environment
// variables and command-line flags, in increasing order of precedence. Every
// invalid setting is reported in the returned error.
func Load(args []string) (*model.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return load(args)
}

func load(args []string) (*model.Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	fs := pflag.NewFlagSet("draman-bot", pflag.ContinueOnError)
	fs.String(tokenFlag, "", "Discord bot token")
	fs.Int64(protectedIDFlag, 0, "User ID that can never be sanctioned")
	fs.Int64(mainGuildIDFlag, 0, "Guild the bot serves")
	fs.String(logChannelIDFlag, "", "Channel receiving audit embeds")
	fs.String(databasePathFlag, v.GetString(databasePathFlag), "SQLite database path")
	fs.String(storeTimeoutFlag, v.GetString(storeTimeoutFlag), "Timeout of a single database operation")
	fs.Bool(developmentFlag, v.GetBool(developmentFlag), "Development mode")
	fs.String(logLevelFlag, v.GetString(logLevelFlag), "Log level")
	fs.String(moderatorRolesFlag, v.GetString(moderatorRolesFlag), "Comma separated moderator role names")
	fs.String(adminRolesFlag, v.GetString(adminRolesFlag), "Comma separated admin role names")
	fs.Int(maxWarningsFlag, v.GetInt(maxWarningsFlag), "Active warnings that trigger an escalation")
	fs.String(escalationActionFlag, v.GetString(escalationActionFlag), "Escalation action: none, mute, kick or ban")
	fs.String(escalationDurationFlag, v.GetString(escalationDurationFlag), "Mute duration used by the escalation")
	fs.Int(wakeupMovesFlag, v.GetInt(wakeupMovesFlag), "Maximum voice moves per invocation")
	fs.String(leashCooldownFlag, v.GetString(leashCooldownFlag), "Cooldown between moves of one controller (seconds or duration)")
	fs.String(nicknamePrefixFlag, v.GetString(nicknamePrefixFlag), "Nickname prefix of leashed members")
	fs.String(reconcileIntervalFlag, v.GetString(reconcileIntervalFlag), "Interval of the leash reconciliation, 0 disables it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		err = multierr.Append(err, v.BindEnv(f.Name))
	})
	if err != nil {
		return nil, err
	}

	cfg := &model.Config{
		BotToken:       v.GetString(tokenFlag),
		LogChannelID:   v.GetString(logChannelIDFlag),
		DatabasePath:   v.GetString(databasePathFlag),
		Development:    v.GetBool(developmentFlag),
		LogLevel:       v.GetString(logLevelFlag),
		ModeratorRoles: splitList(v.GetString(moderatorRolesFlag)),
		AdminRoles:     splitList(v.GetString(adminRolesFlag)),
		MaxWarnings:    v.GetInt(maxWarningsFlag),
		Escalation: model.EscalationConfig{
			Action: model.EscalationAction(strings.ToLower(v.GetString(escalationActionFlag))),
		},
		Leash: model.LeashConfig{
			MaxMoves:       v.GetInt(wakeupMovesFlag),
			NicknamePrefix: v.GetString(nicknamePrefixFlag),
		},
	}

	cfg.ProtectedID, err = requiredID(v, protectedIDFlag)
	errs := err
	cfg.MainGuildID, err = requiredID(v, mainGuildIDFlag)
	errs = multierr.Append(errs, err)
	cfg.StoreTimeout, err = duration(v, storeTimeoutFlag)
	errs = multierr.Append(errs, err)
	cfg.Escalation.Duration, err = duration(v, escalationDurationFlag)
	errs = multierr.Append(errs, err)
	cfg.Leash.MoveCooldown, err = duration(v, leashCooldownFlag)
	errs = multierr.Append(errs, err)
	cfg.ReconcileInterval, err = duration(v, reconcileIntervalFlag)
	errs = multierr.Append(errs, err)

	errs = multierr.Append(errs, Validate(cfg))
	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on how they were parsed.
func Validate(cfg *model.Config) (err error) {
	if cfg.BotToken == "" {
		err = multierr.Append(err, errors.New("DISCORD_TOKEN is required"))
	}
	if cfg.DatabasePath == "" {
		err = multierr.Append(err, errors.New("DATABASE_PATH must not be empty"))
	}
	if cfg.StoreTimeout <= 0 {
		err = multierr.Append(err, errors.New("STORE_TIMEOUT must be positive"))
	}
	if _, lerr := zapcore.ParseLevel(cfg.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("LOG_LEVEL: %w", lerr))
	}
	if cfg.MaxWarnings < 1 {
		err = multierr.Append(err, errors.New("MAX_WARNINGS must be at least 1"))
	}
	if !cfg.Escalation.Action.Valid() {
		err = multierr.Append(err, fmt.Errorf("ESCALATION_ACTION %q is not one of none, mute, kick, ban", cfg.Escalation.Action))
	}
	if cfg.Escalation.Action == model.EscalateMute && (cfg.Escalation.Duration <= 0 || cfg.Escalation.Duration > maxMuteDuration) {
		err = multierr.Append(err, errors.New("ESCALATION_DURATION must be between 1s and 28 days"))
	}
	if cfg.Leash.MaxMoves < 1 {
		err = multierr.Append(err, errors.New("WAKEUP_MOVES must be at least 1"))
	}
	if cfg.Leash.MoveCooldown < 0 {
		err = multierr.Append(err, errors.New("LEASH_COOLDOWN must not be negative"))
	}
	if cfg.ReconcileInterval < 0 {
		err = multierr.Append(err, errors.New("RECONCILE_INTERVAL must not be negative"))
	}
	return err
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func requiredID(v *viper.Viper, key string) (int64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" || raw == "0" {
		return 0, fmt.Errorf("%s is required", envName(key))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a Discord ID, got %q", envName(key), raw)
	}
	return id, nil
}

// duration accepts Go durations ("90s", "1h") and bare integers, read as seconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envName(key), err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
