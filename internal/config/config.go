// Package config loads recpost configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	DBPath    string          `yaml:"db_path" env:"RECPOST_DB"`
	Log       LogConfig       `yaml:"log"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Capture   CaptureConfig   `yaml:"capture"`
	Models    ModelsConfig    `yaml:"models"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	// File, when set, also writes logs to a size-rotated file.
	File string `yaml:"file" env:"LOG_FILE"`
}

// GeminiConfig configures the hosted Gemini provider. The key is only
// checked when a generation call is made.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"  env:"GEMINI_API_KEY,API_KEY"`
	BaseURL string        `yaml:"base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com"`
	Timeout time.Duration `yaml:"timeout"  env:"RECPOST_HTTP_TIMEOUT" env-default:"60s"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	BaseURL   string `yaml:"base_url"   env:"ANTHROPIC_BASE_URL"`
	MaxTokens int64  `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"4096"`
}

type CaptureConfig struct {
	// Device is a file, FIFO or device node to read audio from; "-" is stdin.
	Device string `yaml:"device" env:"RECPOST_DEVICE" env-default:"-"`
	// Formats lists the MIME types the device can produce.
	Formats []string `yaml:"formats" env:"RECPOST_DEVICE_FORMATS" env-default:"audio/webm"`
	// TranscriptFeed is an NDJSON transcript event source; empty disables live transcription.
	TranscriptFeed string `yaml:"transcript_feed" env:"RECPOST_TRANSCRIPT_FEED"`
}

type ModelsConfig struct {
	DownloadTick time.Duration `yaml:"download_tick" env:"RECPOST_DOWNLOAD_TICK" env-default:"500ms"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path if given, else $RECPOST_CONFIG, else ~/.recpost/config.yaml
// when it exists.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv("RECPOST_CONFIG")
		explicitPath = path != ""
	}
	if !explicitPath {
		path = filepath.Join(homeDir(), "config.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(homeDir(), "recpost.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini.timeout must be positive")
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("anthropic.max_tokens must be positive")
	}
	if c.Models.DownloadTick <= 0 {
		return fmt.Errorf("models.download_tick must be positive")
	}
	return nil
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recpost")
}
