package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
	"github.com/thywilljoshua/pdf-labeller/internal/extract"
	"github.com/thywilljoshua/pdf-labeller/internal/label"
)

var ErrInvalidConfig = errors.New("pdflabel: invalid configuration")

// Config is the full runtime configuration. Values are layered: defaults,
// then TOML files in order, then environment variables, then CLI flags.
type Config struct {
	Chat       ChatConfig       `toml:"chat"`
	Transcript TranscriptConfig `toml:"transcript"`
	Extract    ExtractConfig    `toml:"extract"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ChatConfig struct {
	Provider    string  `toml:"provider" validate:"oneof=ollama gemini noop off"`
	Model       string  `toml:"model"`    // empty means the first model the backend lists
	BaseURL     string  `toml:"base_url" validate:"omitempty,url"`
	APIKey      string  `toml:"api_key"`
	Temperature float64 `toml:"temperature" validate:"gte=0,lte=2"`
	Timeout     string  `toml:"timeout"` // e.g. "90s"; empty or "0" waits indefinitely
}

type TranscriptConfig struct {
	Path string `toml:"path"` // empty disables the transcript
}

type ExtractConfig struct {
	TextMode   string  `toml:"text_mode" validate:"oneof=plain layout"`
	SkipImages bool    `toml:"skip_images"`
	TabGap     float64 `toml:"tab_gap" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

func Default() *Config {
	return &Config{
		Chat: ChatConfig{
			Provider:    "ollama",
			BaseURL:     ai.DefaultOllamaURL,
			Temperature: label.DefaultTemperature,
		},
		Transcript: TranscriptConfig{Path: label.DefaultTranscript},
		Extract: ExtractConfig{
			TextMode: string(extract.TextPlain),
			TabGap:   1.5,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// LoadFromFiles reads each TOML file over the defaults, later files winning,
// then applies environment overrides. The result is not yet validated so
// flag overrides can still be applied.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := Default()
	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDFLABEL_PROVIDER"); v != "" {
		cfg.Chat.Provider = v
	}
	if v := os.Getenv("PDFLABEL_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Chat.BaseURL = normalizeHost(v)
	}
	if v := os.Getenv("PDFLABEL_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" && cfg.Chat.APIKey == "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("PDFLABEL_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chat.Temperature = f
		}
	}
	if v := os.Getenv("PDFLABEL_TIMEOUT"); v != "" {
		cfg.Chat.Timeout = v
	}
	if v, ok := os.LookupEnv("PDFLABEL_TRANSCRIPT"); ok {
		cfg.Transcript.Path = v
	}
	if v := os.Getenv("PDFLABEL_TEXT_MODE"); v != "" {
		cfg.Extract.TextMode = v
	}
	if v := os.Getenv("PDFLABEL_SKIP_IMAGES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Extract.SkipImages = b
		}
	}
	if v := os.Getenv("PDFLABEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PDFLABEL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
}

// normalizeHost turns OLLAMA_HOST values like "0.0.0.0:11434" into a URL.
func normalizeHost(h string) string {
	if strings.Contains(h, "://") {
		return h
	}
	return "http://" + h
}

// Validate checks field constraints and that the timeout parses.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Chat.TimeoutDuration(); err != nil {
		return fmt.Errorf("%w: chat.timeout: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c ChatConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" || c.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", c.Timeout)
	}
	return d, nil
}

// AI returns the provider settings. Call after Validate.
func (c *Config) AI() ai.Config {
	timeout, _ := c.Chat.TimeoutDuration()
	return ai.Config{
		Provider: c.Chat.Provider,
		BaseURL:  c.Chat.BaseURL,
		APIKey:   c.Chat.APIKey,
		Timeout:  timeout,
	}
}

func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		TextMode:   extract.TextMode(c.Extract.TextMode),
		SkipImages: c.Extract.SkipImages,
		TabGap:     c.Extract.TabGap,
	}
}

func (c *Config) Session() label.SessionConfig {
	return label.SessionConfig{
		Model:       c.Chat.Model,
		Transcript:  c.Transcript.Path,
		Temperature: ai.Float(c.Chat.Temperature),
		Extract:     c.ExtractOptions(),
	}
}
