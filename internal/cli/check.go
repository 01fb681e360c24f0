package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tripletcheck/internal/ingest"
	"github.com/ppiankov/tripletcheck/internal/render"
	"github.com/ppiankov/tripletcheck/pkg/factcheck"
)

var (
	checkAnswer     string
	checkAnswerFile string
	checkRefs       []string
	checkRefFiles   []string
	checkRefsDir    string
	checkJSON       string
	checkMD         string
	checkGenerator  string
	checkStrategy   string
	checkInquiry    bool
	checkNumShot    int
	checkExemplars  string
	checkRetry      int
	checkProvider   string
	checkModel      string
	checkTimeout    time.Duration
	checkConcurrent int
	checkNoCache    bool
	checkNoFooter   bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fact-check an answer against reference documents",
	Long: `Check decomposes an answer into (subject | predicate | object) triplets,
decomposes each reference document the same way, and asks the model to
judge every answer triplet against the reference triplets. The result is
a per-triplet verdict and a support index.

Example:
  tripletcheck check --answer "Paris is the capital of France." --ref-file france.txt
  tripletcheck check --answer-file answer.txt --refs-dir ./corpus --md report.md
  tripletcheck check --answer "..." --ref "..." --check-strategy llm_n_shot_split`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Input flags
	checkCmd.Flags().StringVar(&checkAnswer, "answer", "", "answer text to fact-check")
	checkCmd.Flags().StringVar(&checkAnswerFile, "answer-file", "", "file containing the answer text")
	checkCmd.Flags().StringArrayVar(&checkRefs, "ref", nil, "reference text (repeatable)")
	checkCmd.Flags().StringArrayVar(&checkRefFiles, "ref-file", nil, "reference file, .txt/.md/.html (repeatable)")
	checkCmd.Flags().StringVar(&checkRefsDir, "refs-dir", "", "directory of reference files")

	// Output flags
	checkCmd.Flags().StringVar(&checkJSON, "json", "result.json", "output JSON path (\"-\" for stdout)")
	checkCmd.Flags().StringVar(&checkMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&checkNoFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	checkCmd.Flags().StringVar(&checkGenerator, "triplet-strategy", "", "triplet generation strategy (llm, llm_n_shot)")
	checkCmd.Flags().StringVar(&checkStrategy, "check-strategy", "", "fact-check strategy (llm, llm_split, llm_n_shot, llm_n_shot_split)")
	checkCmd.Flags().BoolVar(&checkInquiry, "inquiry", false, "ask the model to reason before listing verdicts")
	checkCmd.Flags().IntVar(&checkNumShot, "num-shot", 0, "worked examples per n-shot prompt")
	checkCmd.Flags().StringVar(&checkExemplars, "exemplars", "", "YAML exemplar bank replacing the built-in one")
	checkCmd.Flags().IntVar(&checkRetry, "system-retry", -1, "pipeline-level retries after transient failures")
	checkCmd.Flags().IntVar(&checkConcurrent, "max-concurrent", 0, "concurrent reference decompositions")

	// LLM flags
	checkCmd.Flags().StringVar(&checkProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&checkModel, "model", "", "LLM model name")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the reference decomposition cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	answer, err := loadAnswer(checkAnswer, checkAnswerFile)
	if err != nil {
		return err
	}

	sources := ingest.Sources{Inline: checkRefs, Files: checkRefFiles, Dir: checkRefsDir}
	if sources.Empty() {
		return fmt.Errorf("at least one reference document is required (--ref, --ref-file or --refs-dir)")
	}
	refs, err := ingest.Load(sources)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if checkProvider != "" {
		cfg.LLM.Provider = checkProvider
	}
	if checkModel != "" {
		cfg.LLM.Model = checkModel
	}
	if checkGenerator != "" {
		cfg.Pipeline.GeneratorStrategy = checkGenerator
	}
	if checkStrategy != "" {
		cfg.Pipeline.CheckerStrategy = checkStrategy
	}
	if checkInquiry {
		cfg.Pipeline.Inquiry = true
	}
	if checkNumShot > 0 {
		cfg.Pipeline.NumShot = checkNumShot
	}
	if checkExemplars != "" {
		cfg.Pipeline.ExemplarsPath = checkExemplars
	}
	if checkRetry >= 0 {
		cfg.Pipeline.SystemRetry = checkRetry
	}
	if checkConcurrent > 0 {
		cfg.Pipeline.MaxConcurrent = checkConcurrent
	}
	if checkNoCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.IncludeFooter = !checkNoFooter

	logger := newLogger()
	validator, err := buildValidator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Strategies: triplets=%s, check=%s\n",
			cfg.Pipeline.GeneratorStrategy, cfg.Pipeline.CheckerStrategy)
		fmt.Fprintf(os.Stderr, "References: %d documents\n\n", len(refs))
	}

	result, checkErr := validator.Validate(ctx, answer, refs)
	if result == nil {
		return fmt.Errorf("check failed: %w", checkErr)
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	if verbose {
		renderer.Summary(os.Stderr, result)
		fmt.Fprintln(os.Stderr)
	}

	if err := renderer.RenderJSON(result, checkJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if checkMD != "" {
		if err := renderer.RenderMarkdown(result, checkMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	// A partial verdict is still rendered above, but the run must not
	// pass silently when sub-checks never recovered
	var pe *factcheck.PartialError
	if errors.As(checkErr, &pe) {
		return fmt.Errorf("check incomplete: %w", checkErr)
	}
	return checkErr
}

// loadAnswer resolves the answer text from the flag pair
func loadAnswer(inline, path string) (string, error) {
	if inline != "" && path != "" {
		return "", fmt.Errorf("--answer and --answer-file are mutually exclusive")
	}
	if inline != "" {
		return inline, nil
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read answer %s: %w", path, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("an answer is required (--answer or --answer-file)")
}
