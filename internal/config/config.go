// Package config loads gantt settings from defaults, an optional YAML or TOML
// file and GANTT_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the gantt CLI.
type Config struct {
	DBPath   string `yaml:"db" toml:"db"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogFile receives JSON logs; empty disables logging.
	LogFile string `yaml:"log_file" toml:"log_file"`
	// Actor is the acting user's ID or email.
	Actor          string        `yaml:"actor" toml:"actor"`
	PixelsPerDay   float64       `yaml:"pixels_per_day" toml:"pixels_per_day"`
	RequestTimeout time.Duration `yaml:"-" toml:"-"`
	TimeoutMs      int           `yaml:"timeout_ms" toml:"timeout_ms"`
	// ChartWidth of zero means the terminal width.
	ChartWidth int `yaml:"chart_width" toml:"chart_width"`

	// Source is the config file that was read, if any.
	Source string `yaml:"-" toml:"-"`
}

const (
	DefaultPixelsPerDay = 40
	DefaultTimeoutMs    = 5000
	DefaultLogLevel     = "info"
)

// Default returns the built-in settings rooted at home.
func Default(home string) Config {
	return Config{
		DBPath:         filepath.Join(home, ".gantt", "gantt.db"),
		LogLevel:       DefaultLogLevel,
		PixelsPerDay:   DefaultPixelsPerDay,
		TimeoutMs:      DefaultTimeoutMs,
		RequestTimeout: DefaultTimeoutMs * time.Millisecond,
	}
}

// Load resolves the configuration. path selects the config file; when empty,
// GANTT_CONFIG and then ~/.gantt/config.{yaml,yml,toml} are tried. A missing
// default file is not an error; a missing explicit one is.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Default(home)

	explicit := path != ""
	if !explicit {
		if v := os.Getenv("GANTT_CONFIG"); v != "" {
			path, explicit = v, true
		}
	}
	if !explicit {
		path = findDefaultFile(filepath.Join(home, ".gantt"))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if !explicit && os.IsNotExist(err) {
				err = nil
			} else {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)
	cfg.RequestTimeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

func findDefaultFile(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	cfg.Source = path
	return nil
}

// applyEnv overlays GANTT_* variables. Unparseable numbers are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GANTT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GANTT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GANTT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("GANTT_ACTOR"); v != "" {
		cfg.Actor = v
	}
	if v := os.Getenv("GANTT_PIXELS_PER_DAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.PixelsPerDay = f
		}
	}
	if v := os.Getenv("GANTT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
		}
	}
}

// Validate rejects settings the CLI cannot run with.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db path is empty")
	}
	if c.PixelsPerDay <= 0 {
		problems = append(problems, fmt.Sprintf("pixels_per_day must be positive, got %v", c.PixelsPerDay))
	}
	if c.TimeoutMs <= 0 {
		problems = append(problems, fmt.Sprintf("timeout_ms must be positive, got %d", c.TimeoutMs))
	}
	if c.ChartWidth < 0 {
		problems = append(problems, fmt.Sprintf("chart_width cannot be negative, got %d", c.ChartWidth))
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
