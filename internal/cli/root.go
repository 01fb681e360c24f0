// Package cli wires the tripletcheck commands: single-answer checks,
// triplet extraction, hallucination sampling, batch dataset runs and
// configuration management.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "tripletcheck v0.1.0"

var (
	cfgFile    string
	verbose    bool
	logPrompts bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tripletcheck",
	Short: "tripletcheck - triplet-level fact checking of LLM answers",
	Long: `Tripletcheck decomposes text into knowledge triplets
(subject | predicate | object) and judges an answer's triplets against
reference documents, using an LLM for both extraction and judgment.

It reports which factual claims in an answer are supported by the
references, with a transparent 0-100 support index per answer. It can
also synthesize hallucinated triplet datasets for evaluating
fact-checking systems.

Scoring is non-normative: it measures support by the given references,
not truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tripletcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logPrompts, "log-prompts", false, "log full prompts and responses at debug level")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// A local .env supplies API keys during development
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.tripletcheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match TRIPLETCHECK_*
	viper.SetEnvPrefix("TRIPLETCHECK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger. Debug output (including prompt logs)
// only appears with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
