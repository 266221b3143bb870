package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/praxislaw/docket/internal/classify"
)

const (
	EnvEngineAutoAssignThreshold = "DOCKET_ENGINE_AUTO_ASSIGN_THRESHOLD"
	EnvEngineReviewThreshold     = "DOCKET_ENGINE_REVIEW_THRESHOLD"
	EnvEngineBatchConcurrency    = "DOCKET_ENGINE_BATCH_CONCURRENCY"
)

// EngineConfig holds classification scoring weights and decision thresholds.
// Zero-valued fields fall back to the engine defaults.
type EngineConfig struct {
	AutoAssignThreshold         float64 `toml:"auto_assign_threshold"`
	ReviewThreshold             float64 `toml:"review_threshold"`
	ReferenceWeight             float64 `toml:"reference_weight"`
	GlobalSourceReferenceWeight float64 `toml:"global_source_reference_weight"`
	ActorWeight                 float64 `toml:"actor_weight"`
	KeywordWeightCap            float64 `toml:"keyword_weight_cap"`
	SubjectPatternWeight        float64 `toml:"subject_pattern_weight"`
	SemanticWeight              float64 `toml:"semantic_weight"`
	BatchConcurrency            int     `toml:"batch_concurrency"`
}

// EngineConfig maps the config onto classify.Config.
func (c *EngineConfig) EngineConfig() classify.Config {
	return classify.Config{
		AutoAssignThreshold:         c.AutoAssignThreshold,
		ReviewThreshold:             c.ReviewThreshold,
		ReferenceWeight:             c.ReferenceWeight,
		GlobalSourceReferenceWeight: c.GlobalSourceReferenceWeight,
		ActorWeight:                 c.ActorWeight,
		KeywordWeightCap:            c.KeywordWeightCap,
		SubjectPatternWeight:        c.SubjectPatternWeight,
		SemanticWeight:              c.SemanticWeight,
		BatchConcurrency:            c.BatchConcurrency,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.AutoAssignThreshold != 0 {
		c.AutoAssignThreshold = overlay.AutoAssignThreshold
	}
	if overlay.ReviewThreshold != 0 {
		c.ReviewThreshold = overlay.ReviewThreshold
	}
	if overlay.ReferenceWeight != 0 {
		c.ReferenceWeight = overlay.ReferenceWeight
	}
	if overlay.GlobalSourceReferenceWeight != 0 {
		c.GlobalSourceReferenceWeight = overlay.GlobalSourceReferenceWeight
	}
	if overlay.ActorWeight != 0 {
		c.ActorWeight = overlay.ActorWeight
	}
	if overlay.KeywordWeightCap != 0 {
		c.KeywordWeightCap = overlay.KeywordWeightCap
	}
	if overlay.SubjectPatternWeight != 0 {
		c.SubjectPatternWeight = overlay.SubjectPatternWeight
	}
	if overlay.SemanticWeight != 0 {
		c.SemanticWeight = overlay.SemanticWeight
	}
	if overlay.BatchConcurrency != 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
}

func (c *EngineConfig) loadDefaults() {
	defaults := classify.DefaultConfig()
	if c.AutoAssignThreshold == 0 {
		c.AutoAssignThreshold = defaults.AutoAssignThreshold
	}
	if c.ReviewThreshold == 0 {
		c.ReviewThreshold = defaults.ReviewThreshold
	}
	if c.ReferenceWeight == 0 {
		c.ReferenceWeight = defaults.ReferenceWeight
	}
	if c.GlobalSourceReferenceWeight == 0 {
		c.GlobalSourceReferenceWeight = defaults.GlobalSourceReferenceWeight
	}
	if c.ActorWeight == 0 {
		c.ActorWeight = defaults.ActorWeight
	}
	if c.KeywordWeightCap == 0 {
		c.KeywordWeightCap = defaults.KeywordWeightCap
	}
	if c.SubjectPatternWeight == 0 {
		c.SubjectPatternWeight = defaults.SubjectPatternWeight
	}
	if c.SemanticWeight == 0 {
		c.SemanticWeight = defaults.SemanticWeight
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = defaults.BatchConcurrency
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineAutoAssignThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AutoAssignThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineReviewThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ReviewThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineBatchConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchConcurrency = n
		}
	}
}

func (c *EngineConfig) validate() error {
	if c.ReviewThreshold <= 0 || c.ReviewThreshold >= 1 {
		return fmt.Errorf("review_threshold must be in (0, 1)")
	}
	if c.AutoAssignThreshold <= c.ReviewThreshold || c.AutoAssignThreshold > 1 {
		return fmt.Errorf("auto_assign_threshold must be in (review_threshold, 1]")
	}
	for name, w := range map[string]float64{
		"reference_weight":               c.ReferenceWeight,
		"global_source_reference_weight": c.GlobalSourceReferenceWeight,
		"actor_weight":                   c.ActorWeight,
		"keyword_weight_cap":             c.KeywordWeightCap,
		"subject_pattern_weight":         c.SubjectPatternWeight,
		"semantic_weight":                c.SemanticWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0, 1]", name)
		}
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive")
	}
	return nil
}
