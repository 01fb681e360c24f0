// Package config assembles application-level configuration for the CLI:
// completion backend, pipeline tuning, batch concurrency, rate limiting,
// caching and output.
package config

import (
	"runtime"
	"time"

	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/pipeline"
)

// Config is the complete application configuration
type Config struct {
	LLM         llm.Config
	Pipeline    pipeline.Config
	Concurrency ConcurrencyConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Output      OutputConfig
}

// ConcurrencyConfig controls batch processing. Per-validation reference
// decomposition concurrency is tuned separately in Pipeline.MaxConcurrent.
type ConcurrencyConfig struct {
	Workers int // concurrent batch records
}

// RateLimitConfig bounds the completion call rate per provider
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// CacheConfig controls the reference decomposition cache
type CacheConfig struct {
	Enabled   bool
	Dir       string        // disk cache directory; empty means <config dir>/cache
	TTL       time.Duration // disk entry lifetime
	MemoryTTL time.Duration // in-process entry lifetime
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool
	IncludeFooter bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		LLM:      llm.DefaultConfig(),
		Pipeline: pipeline.DefaultConfig(),
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       7 * 24 * time.Hour,
			MemoryTTL: 30 * time.Minute,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
