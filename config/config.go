package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceHTTP     = "http"
	SourceDatabase = "database"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Source     SourceConfig     `yaml:"source"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Chat       ChatConfig       `yaml:"chat"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RequestIPHeader string   `yaml:"request_ip_header"`
	TrustedProxies  []string `yaml:"trusted_proxies"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
}

// SourceConfig describes where vehicles, invoices and expenses are read from.
type SourceConfig struct {
	Kind           string            `yaml:"kind"`
	BaseURL        string            `yaml:"base_url"`
	VehiclesPath   string            `yaml:"vehicles_path"`
	InvoicesPath   string            `yaml:"invoices_path"`
	ExpensesPath   string            `yaml:"expenses_path"`
	Headers        map[string]string `yaml:"headers"`
	Token          string            `yaml:"token"`
	HTTPProxy      string            `yaml:"http_proxy"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Timeout        time.Duration     `yaml:"-"`
}

// ResolverConfig tunes the rule-based resolver.
type ResolverConfig struct {
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
	HistoryTurns    int           `yaml:"history_turns"`
	SessionIdleMins int           `yaml:"session_idle_minutes"`
}

// ChatConfig points at the remote chat model used when no rule applies.
type ChatConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Token          string        `yaml:"token"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Enabled reports whether a database is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.DSN != ""
}

// ReminderConfig controls departure/arrival push reminders.
type ReminderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
	Timezone        string        `yaml:"timezone"`
}

// LogConfig selects the log level and output format (json or text).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Secrets may come from the environment instead of the yaml file.
func (cfg *Config) applyEnv() {
	if v := os.Getenv("ASSISTANT_SOURCE_TOKEN"); v != "" {
		cfg.Source.Token = v
	}
	if v := os.Getenv("ASSISTANT_CHAT_TOKEN"); v != "" {
		cfg.Chat.Token = v
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 1
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 10
	}

	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceHTTP
	}
	if cfg.Source.VehiclesPath == "" {
		cfg.Source.VehiclesPath = "/armada"
	}
	if cfg.Source.InvoicesPath == "" {
		cfg.Source.InvoicesPath = "/invoices"
	}
	if cfg.Source.ExpensesPath == "" {
		cfg.Source.ExpensesPath = "/expenses"
	}
	if cfg.Source.TimeoutSeconds <= 0 {
		cfg.Source.TimeoutSeconds = 15
	}
	cfg.Source.Timeout = time.Duration(cfg.Source.TimeoutSeconds) * time.Second

	if cfg.Resolver.CacheTTLSeconds <= 0 {
		cfg.Resolver.CacheTTLSeconds = 30
	}
	cfg.Resolver.CacheTTL = time.Duration(cfg.Resolver.CacheTTLSeconds) * time.Second
	if cfg.Resolver.HistoryTurns <= 0 {
		cfg.Resolver.HistoryTurns = 8
	}
	if cfg.Resolver.SessionIdleMins <= 0 {
		cfg.Resolver.SessionIdleMins = 30
	}

	if cfg.Chat.TimeoutSeconds <= 0 {
		cfg.Chat.TimeoutSeconds = 60
	}
	cfg.Chat.Timeout = time.Duration(cfg.Chat.TimeoutSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Reminder.IntervalSeconds <= 0 {
		cfg.Reminder.IntervalSeconds = 300
	}
	cfg.Reminder.Interval = time.Duration(cfg.Reminder.IntervalSeconds) * time.Second
	if cfg.Reminder.Timezone == "" {
		cfg.Reminder.Timezone = "Asia/Jakarta"
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
