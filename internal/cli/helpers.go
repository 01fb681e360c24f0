package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/tripletcheck/internal/cache"
	"github.com/ppiankov/tripletcheck/internal/config"
	"github.com/ppiankov/tripletcheck/internal/worker"
	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/pipeline"
)

// loadConfig builds the effective configuration: defaults overlaid with
// config file and environment settings. Command flags are applied on top
// by each command.
func loadConfig() config.Config {
	cfg := config.DefaultConfig()

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetInt("llm.max_retries"); v > 0 {
		cfg.LLM.MaxRetries = v
	}

	if v := viper.GetString("pipeline.triplet_strategy"); v != "" {
		cfg.Pipeline.GeneratorStrategy = v
	}
	if v := viper.GetString("pipeline.check_strategy"); v != "" {
		cfg.Pipeline.CheckerStrategy = v
	}
	if v := viper.GetInt("pipeline.num_shot"); v > 0 {
		cfg.Pipeline.NumShot = v
	}
	if v := viper.GetString("pipeline.exemplars"); v != "" {
		cfg.Pipeline.ExemplarsPath = v
	}
	if viper.IsSet("pipeline.system_retry") {
		cfg.Pipeline.SystemRetry = viper.GetInt("pipeline.system_retry")
	}

	if v := viper.GetFloat64("rate_limit.requests_per_second"); v > 0 {
		cfg.RateLimit.RequestsPerSecond = v
	}
	if v := viper.GetInt("rate_limit.burst"); v > 0 {
		cfg.RateLimit.BurstSize = v
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}

	cfg.Output.Verbose = verbose
	cfg.Pipeline.LogPrompts = logPrompts

	return cfg
}

// resolveCredentials fills in API keys from the environment
func resolveCredentials(cfg *llm.Config) error {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return nil
}

// buildValidator assembles the validation pipeline: provider with retry
// and rate limiting, decomposition cache, and the validator itself.
func buildValidator(cfg config.Config, logger *slog.Logger) (*pipeline.Validator, error) {
	if err := resolveCredentials(&cfg.LLM); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
		provider = worker.NewLimitedProvider(provider, limiter)
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if tc := buildCache(cfg); tc != nil {
		opts = append(opts, pipeline.WithCache(tc))
	}

	cfg.Pipeline.Model = cfg.LLM.Model
	return pipeline.New(cfg.Pipeline, provider, opts...)
}

// buildCache builds the layered decomposition cache, or nil when disabled
func buildCache(cfg config.Config) *cache.TripletCache {
	if !cfg.Cache.Enabled {
		return nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		dir = filepath.Join(home, ".tripletcheck", "cache")
	}

	backend := cache.NewLayeredCache(
		cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute),
		cache.NewDiskCache(dir, cfg.Cache.TTL),
	)

	// Decompositions depend on who produced them, so scope the cache to
	// the provider, model and strategy in play
	scope := fmt.Sprintf("%s/%s/%s", cfg.LLM.Provider, cfg.LLM.Model, cfg.Pipeline.GeneratorStrategy)
	return cache.NewTripletCache(backend, scope, cfg.Cache.TTL)
}
