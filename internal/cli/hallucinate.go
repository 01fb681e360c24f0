package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tripletcheck/internal/ingest"
	"github.com/ppiankov/tripletcheck/internal/render"
)

var (
	halQuestion string
	halRefs     []string
	halRefFiles []string
	halRefsDir  string
	halJSON     string
	halMD       string
	halProvider string
	halModel    string
	halTimeout  time.Duration
	halNoFooter bool
)

// hallucinateCmd represents the hallucinate command
var hallucinateCmd = &cobra.Command{
	Use:   "hallucinate",
	Short: "Generate a hallucinated answer with labeled fabrications",
	Long: `Hallucinate asks the model to answer a question faithfully from the
reference documents, then produce a plausible variant with fabricated
details, and list each fabrication as a triplet tagged with the
reference document it contradicts. The output is benchmark data for
evaluating fact-checkers, not something to present as truth.

Example:
  tripletcheck hallucinate --question "Who discovered radium?" --ref-file curie.txt
  tripletcheck hallucinate --question "..." --refs-dir ./corpus --md hallucinated.md`,
	RunE: runHallucinate,
}

func init() {
	rootCmd.AddCommand(hallucinateCmd)

	hallucinateCmd.Flags().StringVar(&halQuestion, "question", "", "question to answer from the references")
	hallucinateCmd.Flags().StringArrayVar(&halRefs, "ref", nil, "reference text (repeatable)")
	hallucinateCmd.Flags().StringArrayVar(&halRefFiles, "ref-file", nil, "reference file, .txt/.md/.html (repeatable)")
	hallucinateCmd.Flags().StringVar(&halRefsDir, "refs-dir", "", "directory of reference files")
	hallucinateCmd.Flags().StringVar(&halJSON, "json", "hallucinated.json", "output JSON path (\"-\" for stdout)")
	hallucinateCmd.Flags().StringVar(&halMD, "md", "", "output Markdown path (optional)")
	hallucinateCmd.Flags().StringVar(&halProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	hallucinateCmd.Flags().StringVar(&halModel, "model", "", "LLM model name")
	hallucinateCmd.Flags().DurationVar(&halTimeout, "timeout", 2*time.Minute, "generation timeout")
	hallucinateCmd.Flags().BoolVar(&halNoFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runHallucinate(cmd *cobra.Command, args []string) error {
	if halQuestion == "" {
		return fmt.Errorf("a question is required (--question)")
	}

	sources := ingest.Sources{Inline: halRefs, Files: halRefFiles, Dir: halRefsDir}
	if sources.Empty() {
		return fmt.Errorf("at least one reference document is required (--ref, --ref-file or --refs-dir)")
	}
	refs, err := ingest.Load(sources)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if halProvider != "" {
		cfg.LLM.Provider = halProvider
	}
	if halModel != "" {
		cfg.LLM.Model = halModel
	}
	cfg.Output.IncludeFooter = !halNoFooter

	validator, err := buildValidator(cfg, newLogger())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), halTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "References: %d documents\n\n", len(refs))
	}

	set, err := validator.GenerateHallucinated(ctx, halQuestion, refs)
	if err != nil {
		return fmt.Errorf("hallucinate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Generated %d fabricated triplets\n\n", len(set.Triplets))
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.RenderJSON(set, halJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if halMD != "" {
		if err := renderer.RenderHallucinatedMarkdown(set, halMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	return nil
}
