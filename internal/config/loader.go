package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/example/schedule-conflicts/internal/logging"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCHEDULER_"

// Config captures the settings of the scheduler service and CLI.
type Config struct {
	HTTPPort        int           `koanf:"http_port"`
	SQLitePath      string        `koanf:"sqlite_path"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// TimeSlots replaces department time blocks on every grid when non-empty.
	// It can only be set from a config file.
	TimeSlots []TimeSlotConfig `koanf:"time_slots"`
}

// TimeSlotConfig is one configured grid row in HH:MM form.
type TimeSlotConfig struct {
	Start string `koanf:"start"`
	End   string `koanf:"end"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		HTTPPort:        8080,
		SQLitePath:      "schedule-conflicts.db",
		LogLevel:        "info",
		LogFormat:       "json",
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads an optional YAML or JSON file at path, applies SCHEDULER_*
// environment overrides and validates the result.
//
// Validation problems are reported with localized messages listing every
// offending key.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return Config{}, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("設定値を読み込めません: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps SCHEDULER_HTTP_PORT to http_port. Structured keys stay file-only.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key == "time_slots" {
		return ""
	}
	return key
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, "http_port")
	}
	if strings.TrimSpace(c.SQLitePath) == "" {
		missing = append(missing, "sqlite_path")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid = append(invalid, "log_level")
	}
	if format := strings.ToLower(c.LogFormat); format != "json" && format != "text" {
		invalid = append(invalid, "log_format")
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, "shutdown_timeout")
	}
	if _, err := c.Slots(); err != nil {
		invalid = append(invalid, "time_slots")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("必須の設定値がありません: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("設定値が不正です: %s", strings.Join(invalid, ", ")))
	}
	return errors.Join(errs...)
}

// Slots parses the configured time slots. It returns nil when none are set.
func (c Config) Slots() ([]scheduler.TimeSlot, error) {
	if len(c.TimeSlots) == 0 {
		return nil, nil
	}
	slots := make([]scheduler.TimeSlot, 0, len(c.TimeSlots))
	for i, raw := range c.TimeSlots {
		slot, err := scheduler.ParseTimeSlot(raw.Start, raw.End)
		if err != nil {
			return nil, fmt.Errorf("time_slots[%d]: %w", i, err)
		}
		slots = append(slots, slot)
	}
	if err := scheduler.ValidateTimeSlots(slots); err != nil {
		return nil, err
	}
	return slots, nil
}
