package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/k1networth/servicedesk-cli/internal/shared/env"
)

type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsAddr string `yaml:"metrics_addr"`
	Seed        bool   `yaml:"seed"`

	Tickets TicketsConfig     `yaml:"tickets"`
	Users   map[string]string `yaml:"users"`
}

type TicketsConfig struct {
	Statuses      []string `yaml:"statuses"`
	InitialStatus string   `yaml:"initial_status"`
	DateRetries   int      `yaml:"date_retries"`
}

func Default() Config {
	return Config{
		AppEnv:   "dev",
		LogLevel: "warn",
		Tickets: TicketsConfig{
			Statuses:      []string{"open", "in-progress", "resolved", "closed"},
			InitialStatus: "open",
			DateRetries:   3,
		},
		Users: map[string]string{"admin": "admin123"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order. A .env file in the working directory is
// loaded first; variables already set win over it. An empty path falls
// back to SERVICEDESK_CONFIG.
func Load(path string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = env.String("SERVICEDESK_CONFIG", "")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.AppEnv = env.String("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = env.String("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = env.String("LOG_FILE", cfg.LogFile)
	cfg.MetricsAddr = env.String("METRICS_ADDR", cfg.MetricsAddr)
	cfg.Seed = env.Bool("TICKET_SEED", cfg.Seed)
	cfg.Tickets.Statuses = env.StringsCSV("TICKET_STATUSES", cfg.Tickets.Statuses)
	cfg.Tickets.InitialStatus = env.String("TICKET_INITIAL_STATUS", cfg.Tickets.InitialStatus)
	cfg.Tickets.DateRetries = env.Int("TICKET_DATE_RETRIES", cfg.Tickets.DateRetries)

	if pairs := env.StringsCSV("SERVICEDESK_USERS", nil); len(pairs) > 0 {
		users, err := parseUsers(pairs)
		if err != nil {
			return Config{}, err
		}
		cfg.Users = users
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	// date_retries: 0 must reach Validate rather than fall back to the default.
	var set struct {
		Tickets struct {
			DateRetries *int `yaml:"date_retries"`
		} `yaml:"tickets"`
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.merge(fileCfg)
	if set.Tickets.DateRetries != nil {
		c.Tickets.DateRetries = *set.Tickets.DateRetries
	}
	return nil
}

// merge overlays the non-zero fields of o.
func (c *Config) merge(o Config) {
	if o.AppEnv != "" {
		c.AppEnv = o.AppEnv
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
	if o.Seed {
		c.Seed = true
	}
	if len(o.Tickets.Statuses) > 0 {
		c.Tickets.Statuses = o.Tickets.Statuses
	}
	if o.Tickets.InitialStatus != "" {
		c.Tickets.InitialStatus = o.Tickets.InitialStatus
	}
	if len(o.Users) > 0 {
		c.Users = o.Users
	}
}

// parseUsers reads "name:secret" pairs.
func parseUsers(pairs []string) (map[string]string, error) {
	users := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, secret, ok := strings.Cut(p, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || secret == "" {
			return nil, fmt.Errorf("SERVICEDESK_USERS: expected name:secret, got %q", p)
		}
		users[name] = secret
	}
	return users, nil
}

func (c Config) Validate() error {
	if len(c.Tickets.Statuses) == 0 {
		return errors.New("tickets.statuses must not be empty")
	}

	initial := strings.ToLower(strings.TrimSpace(c.Tickets.InitialStatus))
	found := false
	for _, s := range c.Tickets.Statuses {
		if strings.ToLower(strings.TrimSpace(s)) == initial {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("tickets.initial_status %q is not one of tickets.statuses", c.Tickets.InitialStatus)
	}

	if c.Tickets.DateRetries < 1 {
		return fmt.Errorf("tickets.date_retries must be at least 1, got %d", c.Tickets.DateRetries)
	}
	if len(c.Users) == 0 {
		return errors.New("users must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
