// Package render writes validation results and hallucination datasets as
// JSON and Markdown artifacts, plus compact terminal summaries.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

const footer = "\n---\n*Generated by tripletcheck*\n"

// Renderer writes result artifacts to files
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any payload as indented JSON. Path "-" writes to stdout.
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a validation result as a Markdown report
func (r *Renderer) RenderMarkdown(result *model.ValidationResult, path string) error {
	var b strings.Builder

	b.WriteString("# Fact Check Report\n\n")
	fmt.Fprintf(&b, "**Support index:** %d/100 (%s confidence)\n", result.Score.Index, result.Score.Confidence)
	if result.Provider != "" {
		modelName := result.Model
		if modelName == "" {
			modelName = "default"
		}
		fmt.Fprintf(&b, "**Provider:** %s/%s\n", result.Provider, modelName)
	}
	fmt.Fprintf(&b, "**Strategies:** triplets=%s, check=%s\n", result.GeneratorStrategy, result.CheckerStrategy)
	fmt.Fprintf(&b, "**Generated:** %s\n", result.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("\n## Verdicts\n\n")
	if len(result.InputTriplets) == 0 {
		b.WriteString("The answer yielded no checkable triplets.\n")
	} else {
		b.WriteString("| # | Triplet | Supported | Notes |\n")
		b.WriteString("|---|---------|-----------|-------|\n")
		for i, t := range result.InputTriplets {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				i, escapeCell(t.String()), supportMark(result.Verdict, i), judgmentNotes(result.Verdict, i))
		}
	}

	if result.Verdict.Rationale != "" {
		b.WriteString("\n## Model Rationale\n\n")
		for _, line := range strings.Split(strings.TrimSpace(result.Verdict.Rationale), "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
	}

	b.WriteString("\n## Signals\n\n")
	for _, sig := range result.Score.Signals {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", sig.Type, sig.Severity, sig.Description)
		for _, k := range sortedKeys(sig.Data) {
			fmt.Fprintf(&b, "  - %s: %v\n", k, sig.Data[k])
		}
	}

	b.WriteString("\n## Reference Corpus\n\n")
	for i, set := range result.ReferenceTriplets {
		fmt.Fprintf(&b, "- Document %d: %d triplets\n", i, len(set))
	}

	if r.includeFooter {
		b.WriteString(footer)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	return nil
}

// RenderHallucinatedMarkdown writes a hallucination sample as Markdown
func (r *Renderer) RenderHallucinatedMarkdown(set *model.HallucinatedTripletSet, path string) error {
	var b strings.Builder

	b.WriteString("# Hallucination Sample\n\n")
	if set.Question != "" {
		fmt.Fprintf(&b, "**Question:** %s\n", set.Question)
	}
	fmt.Fprintf(&b, "**Generated:** %s\n", set.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	if set.FaithfulAnswer != "" {
		b.WriteString("\n## Faithful Answer\n\n")
		b.WriteString(strings.TrimSpace(set.FaithfulAnswer))
		b.WriteString("\n")
	}

	b.WriteString("\n## Hallucinated Answer\n\n")
	b.WriteString(strings.TrimSpace(set.HallucinatedAnswer))
	b.WriteString("\n")

	b.WriteString("\n## Fabricated Triplets\n\n")
	if len(set.Triplets) == 0 {
		b.WriteString("None extracted.\n")
	} else {
		b.WriteString("| Doc | Triplet |\n")
		b.WriteString("|-----|---------|\n")
		for _, dt := range set.Triplets {
			fmt.Fprintf(&b, "| %d | %s |\n", dt.Doc, escapeCell(dt.String()))
		}
	}

	if r.includeFooter {
		b.WriteString(footer)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	return nil
}

// Summary writes a compact terminal summary of a validation result
func (r *Renderer) Summary(w io.Writer, result *model.ValidationResult) {
	refTriplets := 0
	for _, set := range result.ReferenceTriplets {
		refTriplets += len(set)
	}

	fmt.Fprintf(w, "✓ Extracted %d answer triplets\n", len(result.InputTriplets))
	fmt.Fprintf(w, "✓ Decomposed %d reference documents (%d triplets)\n", len(result.ReferenceTriplets), refTriplets)

	for i, t := range result.InputTriplets {
		fmt.Fprintf(w, "  [%d] %s %s\n", i, supportMark(result.Verdict, i), t.String())
	}

	if failed := result.Verdict.FailedIndices(); len(failed) > 0 {
		fmt.Fprintf(w, "✗ %d judgments could not be confirmed (indices %v)\n", len(failed), failed)
	}
	fmt.Fprintf(w, "✓ Support index: %d/100 (%s confidence)\n", result.Score.Index, result.Score.Confidence)
}

func supportMark(v model.Verdict, i int) string {
	if v.Supported(i) {
		return "✓"
	}
	return "✗"
}

func judgmentNotes(v model.Verdict, i int) string {
	if i < 0 || i >= v.Len() {
		return ""
	}
	j := v.Judgments[i]

	var notes []string
	if j.Reference != nil {
		notes = append(notes, "supported by "+escapeCell(j.Reference.String()))
	}
	if j.Rationale != "" {
		notes = append(notes, escapeCell(j.Rationale))
	}
	if j.Err != "" {
		notes = append(notes, "unconfirmed: "+escapeCell(j.Err))
	}
	return strings.Join(notes, "; ")
}

// escapeCell makes text safe inside a Markdown table cell
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
