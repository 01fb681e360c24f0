package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tripletcheck/internal/worker"
	"github.com/ppiankov/tripletcheck/pkg/model"
)

var (
	batchMode        string
	batchOutput      string
	batchConcurrency int
	batchTimeout     time.Duration
	batchGenerator   string
	batchStrategy    string
	batchProvider    string
	batchModel       string
	batchNoCache     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dataset.jsonl>",
	Short: "Fact-check a JSONL dataset in parallel",
	Long: `Batch processes a JSONL dataset concurrently. Each line is a record
with an answer and its reference documents:

  {"id": "q1", "answer": "...", "references": ["...", "..."]}

In validate mode every record's answer is fact-checked against its
references. In hallucinate mode each record's question and references
seed a hallucinated answer with labeled fabrications. Results are
written as JSONL, one line per input record, in input order.

Example:
  tripletcheck batch dataset.jsonl
  tripletcheck batch dataset.jsonl --concurrency 8 --output results.jsonl
  tripletcheck batch dataset.jsonl --mode hallucinate`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchMode, "mode", "validate", "processing mode (validate, hallucinate)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "results.jsonl", "output JSONL path")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: CPU count)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Pipeline flags
	batchCmd.Flags().StringVar(&batchGenerator, "triplet-strategy", "", "triplet generation strategy (llm, llm_n_shot)")
	batchCmd.Flags().StringVar(&batchStrategy, "check-strategy", "", "fact-check strategy (llm, llm_split, llm_n_shot, llm_n_shot_split)")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the reference decomposition cache")

	// LLM flags
	batchCmd.Flags().StringVar(&batchProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "LLM model name")
}

// batchOutputRecord is one line of the output JSONL file
type batchOutputRecord struct {
	ID           string                        `json:"id"`
	Error        string                        `json:"error,omitempty"`
	Result       *model.ValidationResult       `json:"result,omitempty"`
	Hallucinated *model.HallucinatedTripletSet `json:"hallucinated,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	mode := worker.Mode(batchMode)
	if mode != worker.ModeValidate && mode != worker.ModeHallucinate {
		return fmt.Errorf("unknown mode %q (supported: validate, hallucinate)", batchMode)
	}

	cfg := loadConfig()
	if batchProvider != "" {
		cfg.LLM.Provider = batchProvider
	}
	if batchModel != "" {
		cfg.LLM.Model = batchModel
	}
	if batchGenerator != "" {
		cfg.Pipeline.GeneratorStrategy = batchGenerator
	}
	if batchStrategy != "" {
		cfg.Pipeline.CheckerStrategy = batchStrategy
	}
	if batchNoCache {
		cfg.Cache.Enabled = false
	}
	if batchConcurrency > 0 {
		cfg.Concurrency.Workers = batchConcurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Tripletcheck Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", mode)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	validator, err := buildValidator(cfg, newLogger())
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(validator, cfg.Concurrency.Workers)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Processing records with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessFile(ctx, file, mode)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out, err := os.Create(batchOutput)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)

	successCount := 0
	failureCount := 0
	for _, r := range results {
		rec := batchOutputRecord{
			ID:           recordID(r),
			Result:       r.Result,
			Hallucinated: r.Hallucinated,
		}
		if r.Error != nil {
			rec.Error = r.Error.Error()
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", rec.ID, r.Error)
		} else {
			successCount++
			switch {
			case r.Result != nil:
				fmt.Fprintf(os.Stderr, "✓ %s (index: %d/100)\n", rec.ID, r.Result.Score.Index)
			case r.Hallucinated != nil:
				fmt.Fprintf(os.Stderr, "✓ %s (%d fabricated triplets)\n", rec.ID, len(r.Hallucinated.Triplets))
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d records\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d records failed", failureCount, len(results))
	}
	return nil
}

// recordID names a record for output, falling back to its position
func recordID(r *worker.BatchResult) string {
	if r.Record.ID != "" {
		return r.Record.ID
	}
	return fmt.Sprintf("record-%d", r.Index+1)
}
