// Package config provides configuration loading and validation for the
// hours reminder service: defaults, config.yaml, and HOURSBOT_* environment
// variables, validated before anything is constructed from it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the full configuration surface of the service.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Harvest   HarvestConfig   `mapstructure:"harvest"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Report    ReportConfig    `mapstructure:"report"`
	Channels  ChannelsConfig  `mapstructure:"channels"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// TaskConfig enables one named scheduled task with its cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// HarvestConfig carries the pass-through credentials for the time-tracking
// backend.
type HarvestConfig struct {
	BaseURL   string `mapstructure:"base_url"   validate:"omitempty,url"`
	Token     string `mapstructure:"token"      validate:"required"`
	AccountID string `mapstructure:"account_id" validate:"required"`
}

type SlackConfig struct {
	// Token is the Web API token used for the member directory listing.
	Token string `mapstructure:"token" validate:"required"`
}

type TelegramConfig struct {
	// Token is only required when a telegram channel is configured; see
	// Config.Validate.
	Token string `mapstructure:"token"`
}

// ReportConfig holds the compliance-policy knobs.
type ReportConfig struct {
	BaselineHours     float64 `mapstructure:"baseline_hours"     validate:"gt=0"`
	MissingThreshold  float64 `mapstructure:"missing_threshold"  validate:"gte=0"`
	ReducedRole       string  `mapstructure:"reduced_role"       validate:"required"`
	ReducedMultiplier float64 `mapstructure:"reduced_multiplier" validate:"gt=0,lte=1"`
	ExecutiveRole     string  `mapstructure:"executive_role"     validate:"required"`
}

// Channel types.
const (
	ChannelSlackWebhook = "slack_webhook"
	ChannelTelegram     = "telegram"
)

// ChannelConfig is one delivery destination for an audience.
type ChannelConfig struct {
	Type       string `mapstructure:"type"        validate:"required,oneof=slack_webhook telegram"`
	WebhookURL string `mapstructure:"webhook_url" validate:"required_if=Type slack_webhook,omitempty,url"`
	ChatID     int64  `mapstructure:"chat_id"     validate:"required_if=Type telegram"`
}

// ChannelsConfig lists zero or more destinations per audience. An empty list
// means that audience is simply not notified.
type ChannelsConfig struct {
	General   []ChannelConfig `mapstructure:"general"   validate:"dive"`
	Executive []ChannelConfig `mapstructure:"executive" validate:"dive"`
}

// Load reads configuration from defaults, ./config.yaml (optional), and
// HOURSBOT_* environment variables, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HOURSBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing config file is fine; env vars and defaults carry it.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks struct tags plus the cross-field rules the tags cannot
// express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Telegram.Token == "" && c.hasTelegramChannel() {
		return errors.New("telegram.token is required when a telegram channel is configured")
	}
	return nil
}

func (c *Config) hasTelegramChannel() bool {
	for _, ch := range append(append([]ChannelConfig{}, c.Channels.General...), c.Channels.Executive...) {
		if ch.Type == ChannelTelegram {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("server.addr", ":8080")

	// Weekday mornings only; the window resolver rejects weekend runs
	// outright, this default just keeps the trigger from firing then.
	v.SetDefault("scheduler.tasks.hours_reminder.enabled", true)
	v.SetDefault("scheduler.tasks.hours_reminder.schedule", "0 8 * * 1-5")

	v.SetDefault("report.baseline_hours", 40.0)
	v.SetDefault("report.missing_threshold", 4.0)
	v.SetDefault("report.reduced_role", "Flexible")
	v.SetDefault("report.reduced_multiplier", 0.8)
	v.SetDefault("report.executive_role", "Exec")
}
