package config_test

import (
	"testing"
	"time"

	"github.com/praxislaw/docket/internal/config"
)

func TestServerConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg config.ServerConfig
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.Addr() != "0.0.0.0:8080" {
			t.Errorf("Addr() = %s, want 0.0.0.0:8080", cfg.Addr())
		}
		if cfg.ReadTimeoutDuration() != time.Minute {
			t.Errorf("ReadTimeoutDuration() = %v, want 1m", cfg.ReadTimeoutDuration())
		}
		if cfg.WriteTimeoutDuration() != 5*time.Minute {
			t.Errorf("WriteTimeoutDuration() = %v, want 5m", cfg.WriteTimeoutDuration())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("DOCKET_SERVER_HOST", "127.0.0.1")
		t.Setenv("DOCKET_SERVER_PORT", "9090")

		var cfg config.ServerConfig
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.Addr() != "127.0.0.1:9090" {
			t.Errorf("Addr() = %s, want 127.0.0.1:9090", cfg.Addr())
		}
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		cfg := config.ServerConfig{Port: 70000}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error for port 70000")
		}
	})

	t.Run("invalid timeout rejected", func(t *testing.T) {
		cfg := config.ServerConfig{ReadTimeout: "soon"}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error for unparseable timeout")
		}
	})
}

func TestServerConfigMerge(t *testing.T) {
	base := config.ServerConfig{Host: "0.0.0.0", Port: 8080, ReadTimeout: "1m"}
	overlay := config.ServerConfig{Port: 9000}

	base.Merge(&overlay)

	if base.Port != 9000 {
		t.Errorf("Port = %d, want 9000", base.Port)
	}
	if base.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0 preserved", base.Host)
	}
	if base.ReadTimeout != "1m" {
		t.Errorf("ReadTimeout = %s, want 1m preserved", base.ReadTimeout)
	}
}

func TestEngineConfigFinalize(t *testing.T) {
	t.Run("defaults fill zero fields", func(t *testing.T) {
		var cfg config.EngineConfig
		if err := cfg.Finalize(); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		engine := cfg.EngineConfig()
		if engine.AutoAssignThreshold != 0.85 {
			t.Errorf("AutoAssignThreshold = %v, want 0.85", engine.AutoAssignThreshold)
		}
		if engine.ReviewThreshold != 0.50 {
			t.Errorf("ReviewThreshold = %v, want 0.50", engine.ReviewThreshold)
		}
		if engine.GlobalSourceReferenceWeight != 0.95 {
			t.Errorf("GlobalSourceReferenceWeight = %v, want 0.95", engine.GlobalSourceReferenceWeight)
		}
		if engine.BatchConcurrency != 4 {
			t.Errorf("BatchConcurrency = %v, want 4", engine.BatchConcurrency)
		}
	})

	t.Run("thresholds must be ordered", func(t *testing.T) {
		cfg := config.EngineConfig{
			AutoAssignThreshold: 0.4,
			ReviewThreshold:     0.6,
		}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error when auto threshold below review threshold")
		}
	})

	t.Run("weights bounded", func(t *testing.T) {
		cfg := config.EngineConfig{ActorWeight: 1.5}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error for weight above 1")
		}
	})
}

func TestClassifierConfigOptions(t *testing.T) {
	cfg := config.ClassifierConfig{
		Enabled:     true,
		BaseURL:     "http://localhost:11434/v1",
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		MaxTokens:   256,
		Temperature: 0.2,
		Timeout:     "45s",
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	opts := cfg.Options()
	if opts.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %s", opts.BaseURL)
	}
	if opts.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s", opts.Model)
	}
	if opts.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", opts.MaxTokens)
	}
	if opts.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", opts.Timeout)
	}
}

func TestClassifierConfigValidation(t *testing.T) {
	t.Run("disabled skips validation", func(t *testing.T) {
		var cfg config.ClassifierConfig
		if err := cfg.Finalize(); err != nil {
			t.Errorf("Finalize() error = %v, want nil when disabled", err)
		}
	})

	t.Run("enabled requires api key", func(t *testing.T) {
		cfg := config.ClassifierConfig{Enabled: true}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error for missing api_key")
		}
	})
}

func TestAuthConfigValidation(t *testing.T) {
	t.Run("disabled skips validation", func(t *testing.T) {
		var cfg config.AuthConfig
		if err := cfg.Finalize(); err != nil {
			t.Errorf("Finalize() error = %v, want nil when disabled", err)
		}
		if cfg.FirmClaim != "firm_id" {
			t.Errorf("FirmClaim = %s, want firm_id default", cfg.FirmClaim)
		}
	})

	t.Run("enabled requires issuer", func(t *testing.T) {
		cfg := config.AuthConfig{Enabled: true, ClientID: "docket"}
		if err := cfg.Finalize(); err == nil {
			t.Error("Finalize() = nil, want error for missing issuer")
		}
	})
}
