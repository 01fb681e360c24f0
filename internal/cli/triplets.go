package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tripletcheck/internal/render"
)

var (
	tripletsText      string
	tripletsFile      string
	tripletsJSON      string
	tripletsGenerator string
	tripletsNumShot   int
	tripletsExemplars string
	tripletsProvider  string
	tripletsModel     string
	tripletsTimeout   time.Duration
)

// tripletsCmd represents the triplets command
var tripletsCmd = &cobra.Command{
	Use:   "triplets",
	Short: "Decompose a text into knowledge triplets",
	Long: `Triplets decomposes a text into (subject | predicate | object) triplets
and prints them one per line. Useful for inspecting what the fact-check
pipeline would extract before running a full check.

Example:
  tripletcheck triplets --text "Marie Curie won two Nobel Prizes."
  tripletcheck triplets --file answer.txt --json triplets.json`,
	RunE: runTriplets,
}

func init() {
	rootCmd.AddCommand(tripletsCmd)

	tripletsCmd.Flags().StringVar(&tripletsText, "text", "", "text to decompose")
	tripletsCmd.Flags().StringVar(&tripletsFile, "file", "", "file containing the text")
	tripletsCmd.Flags().StringVar(&tripletsJSON, "json", "", "output JSON path (optional, \"-\" for stdout)")
	tripletsCmd.Flags().StringVar(&tripletsGenerator, "triplet-strategy", "", "triplet generation strategy (llm, llm_n_shot)")
	tripletsCmd.Flags().IntVar(&tripletsNumShot, "num-shot", 0, "worked examples per n-shot prompt")
	tripletsCmd.Flags().StringVar(&tripletsExemplars, "exemplars", "", "YAML exemplar bank replacing the built-in one")
	tripletsCmd.Flags().StringVar(&tripletsProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	tripletsCmd.Flags().StringVar(&tripletsModel, "model", "", "LLM model name")
	tripletsCmd.Flags().DurationVar(&tripletsTimeout, "timeout", 2*time.Minute, "decomposition timeout")
}

func runTriplets(cmd *cobra.Command, args []string) error {
	text, err := loadAnswer(tripletsText, tripletsFile)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if tripletsProvider != "" {
		cfg.LLM.Provider = tripletsProvider
	}
	if tripletsModel != "" {
		cfg.LLM.Model = tripletsModel
	}
	if tripletsGenerator != "" {
		cfg.Pipeline.GeneratorStrategy = tripletsGenerator
	}
	if tripletsNumShot > 0 {
		cfg.Pipeline.NumShot = tripletsNumShot
	}
	if tripletsExemplars != "" {
		cfg.Pipeline.ExemplarsPath = tripletsExemplars
	}
	// Single decomposition, nothing worth caching
	cfg.Cache.Enabled = false

	validator, err := buildValidator(cfg, newLogger())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), tripletsTimeout)
	defer cancel()

	set, err := validator.GenerateTriplets(ctx, text)
	if err != nil {
		return fmt.Errorf("decompose failed: %w", err)
	}

	if len(set) == 0 {
		fmt.Fprintln(os.Stderr, "No triplets extracted")
	}
	for _, t := range set {
		fmt.Println(t.String())
	}

	if tripletsJSON != "" {
		renderer := render.NewRenderer(false)
		if err := renderer.RenderJSON(set, tripletsJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	return nil
}
