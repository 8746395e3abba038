package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Scoring provider names accepted in the llm section.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderKeyword   = "keyword"
	ProviderNone      = "none"
)

// Config holds high-level settings required across the application.
type Config struct {
	Topic         string             `yaml:"topic"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	Digest        DigestConfig       `yaml:"digest"`
	LLM           LLMConfig          `yaml:"llm"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Server        ServerConfig       `yaml:"server"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LogConfig          `yaml:"logging"`
}

// FeedConfig describes a single RSS source.
type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

// IsEnabled treats feeds without an explicit flag as enabled.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// DigestConfig groups digest generation settings.
type DigestConfig struct {
	OutputDir          string  `yaml:"outputDir"`
	MaxArticles        int     `yaml:"maxArticles"`
	MaxEntriesPerFeed  int     `yaml:"maxEntriesPerFeed"`
	RelevanceThreshold float64 `yaml:"relevanceThreshold"`
}

// LLMConfig defines how to contact the scoring provider.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// SchedulerConfig defines when recurring digest runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ArchiveConfig points at the digest archive index database.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digest messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LogConfig controls log level and optional file output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads the YAML configuration file, applies environment overrides and
// defaults, and validates the result. Configuration errors are fatal to the
// pipeline; everything downstream assumes already-validated values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()
	cfg.bindTimezone()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns a runnable configuration without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnvOverrides()
	cfg.setDefaults()
	cfg.bindTimezone()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if c.LLM.APIKey != "" {
		return
	}
	switch c.LLM.Provider {
	case ProviderAnthropic:
		c.LLM.APIKey = os.Getenv(anthropicAPIKeyEnv)
	default:
		c.LLM.APIKey = os.Getenv(openAIAPIKeyEnv)
	}
}

func (c *Config) setDefaults() {
	if c.Topic == "" {
		c.Topic = "AI and machine learning"
	}
	if c.Digest.OutputDir == "" {
		c.Digest.OutputDir = "./digests"
	}
	if c.Digest.MaxArticles == 0 {
		c.Digest.MaxArticles = 20
	}
	if c.Digest.MaxEntriesPerFeed == 0 {
		c.Digest.MaxEntriesPerFeed = 50
	}
	if c.Digest.RelevanceThreshold == 0 {
		c.Digest.RelevanceThreshold = 0.3
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderAnthropic:
			c.LLM.Model = "claude-3-5-haiku-latest"
		default:
			c.LLM.Model = "gpt-4o-mini"
		}
	}
	if c.LLM.Endpoint == "" {
		switch c.LLM.Provider {
		case ProviderAnthropic:
			c.LLM.Endpoint = "https://api.anthropic.com/v1/messages"
		default:
			c.LLM.Endpoint = "https://api.openai.com/v1/chat/completions"
		}
	}
	if c.Scheduler.CronExpression == "" {
		c.Scheduler.CronExpression = "0 6 * * *"
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = defaultTimezone
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Archive.Path == "" {
		c.Archive.Path = filepath.Join(c.Digest.OutputDir, "digests.db")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
}

func (c *Config) bindTimezone() {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		loc, _ = time.LoadLocation(defaultTimezone)
		c.Scheduler.Timezone = defaultTimezone
	}
	c.Scheduler.location = loc
}

func (c *Config) validate() error {
	if c.Digest.RelevanceThreshold < 0 || c.Digest.RelevanceThreshold > 1 {
		return fmt.Errorf("relevance threshold %v outside [0,1]", c.Digest.RelevanceThreshold)
	}
	if c.Digest.MaxArticles < 0 {
		return fmt.Errorf("maxArticles must not be negative")
	}
	if c.Digest.MaxEntriesPerFeed < 0 {
		return fmt.Errorf("maxEntriesPerFeed must not be negative")
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderKeyword, ProviderNone:
	default:
		return fmt.Errorf("unknown scoring provider %q", c.LLM.Provider)
	}
	return nil
}
