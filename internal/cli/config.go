package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tripletcheck/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tripletcheck configuration",
	Long: `Manage tripletcheck configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TRIPLETCHECK_*)
3. Config file (~/.tripletcheck/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		// Durations are rendered as strings so the output doubles as a
		// valid config file
		view := map[string]interface{}{
			"llm": map[string]interface{}{
				"provider":    cfg.LLM.Provider,
				"model":       cfg.LLM.Model,
				"base_url":    cfg.LLM.BaseURL,
				"max_retries": cfg.LLM.MaxRetries,
			},
			"pipeline": map[string]interface{}{
				"triplet_strategy": cfg.Pipeline.GeneratorStrategy,
				"check_strategy":   cfg.Pipeline.CheckerStrategy,
				"num_shot":         cfg.Pipeline.NumShot,
				"system_retry":     cfg.Pipeline.SystemRetry,
				"exemplars":        cfg.Pipeline.ExemplarsPath,
			},
			"rate_limit": map[string]interface{}{
				"requests_per_second": cfg.RateLimit.RequestsPerSecond,
				"burst":               cfg.RateLimit.BurstSize,
			},
			"cache": map[string]interface{}{
				"enabled": cfg.Cache.Enabled,
				"dir":     cfg.Cache.Dir,
				"ttl":     cfg.Cache.TTL.String(),
			},
		}

		yamlData, err := yaml.Marshal(view)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (TRIPLETCHECK_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.tripletcheck/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.tripletcheck/config.yaml with all available options documented.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".tripletcheck")
		configPath := filepath.Join(configDir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'tripletcheck config show' to view it, or delete it first to recreate", configPath)
		}

		// Create directory
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		// Create config file
		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		defaults := config.DefaultConfig()

		printf("# Tripletcheck Configuration File\n")
		printf("# See https://github.com/ppiankov/tripletcheck for full documentation\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (TRIPLETCHECK_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n\n")

		printf("llm:\n")
		printf("  # Provider: openai, anthropic or ollama\n")
		printf("  provider: %s\n", defaults.LLM.Provider)
		printf("  # Model name, empty means the provider default\n")
		printf("  model: \"\"\n")
		printf("  # Base URL override, mainly for ollama or proxies\n")
		printf("  base_url: \"\"\n")
		printf("  # Transport-level retries on transient provider errors\n")
		printf("  max_retries: %d\n\n", defaults.LLM.MaxRetries)

		printf("pipeline:\n")
		printf("  # Triplet generation strategy: llm or llm_n_shot\n")
		printf("  triplet_strategy: %s\n", defaults.Pipeline.GeneratorStrategy)
		printf("  # Fact-check strategy: llm, llm_split, llm_n_shot or llm_n_shot_split\n")
		printf("  check_strategy: %s\n", defaults.Pipeline.CheckerStrategy)
		printf("  # Worked examples per n-shot prompt\n")
		printf("  num_shot: %d\n", defaults.Pipeline.NumShot)
		printf("  # Pipeline-level re-runs after transient failures\n")
		printf("  system_retry: %d\n", defaults.Pipeline.SystemRetry)
		printf("  # Path to a YAML exemplar bank replacing the built-in one\n")
		printf("  exemplars: \"\"\n\n")

		printf("rate_limit:\n")
		printf("  # Completion calls per second against the provider, 0 disables\n")
		printf("  requests_per_second: %g\n", defaults.RateLimit.RequestsPerSecond)
		printf("  burst: %d\n\n", defaults.RateLimit.BurstSize)

		printf("cache:\n")
		printf("  # Cache reference document decompositions between runs\n")
		printf("  enabled: %t\n", defaults.Cache.Enabled)
		printf("  # Cache directory, empty means ~/.tripletcheck/cache\n")
		printf("  dir: \"\"\n")
		printf("  ttl: %s\n", defaults.Cache.TTL)

		printf("\n# API Keys (recommended to use environment variables instead):\n")
		printf("#   export OPENAI_API_KEY=sk-...\n")
		printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
		printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

		if err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  tripletcheck config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
