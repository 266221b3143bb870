package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/praxislaw/docket/internal/llm"
)

const (
	EnvClassifierEnabled     = "DOCKET_CLASSIFIER_ENABLED"
	EnvClassifierBaseURL     = "DOCKET_CLASSIFIER_BASE_URL"
	EnvClassifierAPIKey      = "DOCKET_CLASSIFIER_API_KEY"
	EnvClassifierModel       = "DOCKET_CLASSIFIER_MODEL"
	EnvClassifierMaxTokens   = "DOCKET_CLASSIFIER_MAX_TOKENS"
	EnvClassifierTemperature = "DOCKET_CLASSIFIER_TEMPERATURE"
	EnvClassifierTimeout     = "DOCKET_CLASSIFIER_TIMEOUT"
)

// ClassifierConfig holds the generative-model settings for the semantic
// classification fallback. When disabled, classification runs on
// deterministic signals only.
type ClassifierConfig struct {
	Enabled     bool    `toml:"enabled"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// Options maps the config onto llm.Options.
func (c *ClassifierConfig) Options() llm.Options {
	timeout, _ := time.ParseDuration(c.Timeout)
	return llm.Options{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: float32(c.Temperature),
		Timeout:     timeout,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ClassifierConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 512
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvClassifierBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvClassifierAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvClassifierModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvClassifierMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv(EnvClassifierTemperature); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *ClassifierConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return fmt.Errorf("classifier enabled but api_key is empty")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2]")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
