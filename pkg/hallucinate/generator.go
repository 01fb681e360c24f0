// Package hallucinate synthesizes plausible-but-unsupported triplets from a
// reference corpus, for building negative-example fact-checking datasets.
package hallucinate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/model"
	"github.com/ppiankov/tripletcheck/pkg/prompt"
	"github.com/ppiankov/tripletcheck/pkg/triplet"
)

// Generator produces hallucinated triplet sets from reference documents
type Generator struct {
	provider   llm.Provider
	triplets   *triplet.Generator
	logger     *slog.Logger
	logPrompts bool
}

// Option configures a Generator
type Option func(*Generator)

// WithTripletGenerator sets the generator used for fallback decomposition
// when the model's details section yields no parseable triplet lines
func WithTripletGenerator(tg *triplet.Generator) Option {
	return func(g *Generator) {
		g.triplets = tg
	}
}

// WithLogger sets the generator's logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPromptLogging enables debug logging of full prompts
func WithPromptLogging(enabled bool) Option {
	return func(g *Generator) {
		g.logPrompts = enabled
	}
}

// NewGenerator creates a hallucinated data generator
func NewGenerator(provider llm.Provider, opts ...Option) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("hallucination generator requires an LLM provider")
	}

	g := &Generator{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.triplets == nil {
		tg, err := triplet.NewGenerator(provider, triplet.StrategyLLMNShot)
		if err != nil {
			return nil, err
		}
		g.triplets = tg
	}

	return g, nil
}

// Generate asks the model for a faithful answer, a hallucinated answer, and
// the fabricated details, then extracts the fabricated triplets with their
// source-document provenance. Doc tags outside the corpus clamp to 0. When
// the details section yields no triplet lines, the fabricated prose is
// decomposed with the triplet generator instead.
func (g *Generator) Generate(ctx context.Context, question string, refs []string) (*model.HallucinatedTripletSet, error) {
	if !hasContent(refs) {
		return nil, fmt.Errorf("hallucination generation requires at least one non-empty reference document")
	}

	p := prompt.HallucinatedData(question, refs)
	if g.logPrompts {
		g.logger.Debug("hallucination prompt", "system", p.System, "user", p.User)
	}

	resp, err := g.provider.Complete(ctx, llm.Request{
		System: p.System,
		Prompt: p.User,
	})
	if err != nil {
		return nil, fmt.Errorf("hallucination generation: %w", err)
	}

	faithful, hallucinated, details := splitSections(resp.Text)
	triplets := parseDetailTriplets(details, len(refs))

	if len(triplets) == 0 {
		source := details
		if strings.TrimSpace(source) == "" {
			source = hallucinated
		}
		set, err := g.triplets.Generate(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("hallucination fallback decomposition: %w", err)
		}
		for _, t := range set {
			triplets = append(triplets, model.DocTriplet{Triplet: t, Doc: 0})
		}
	}

	g.logger.Debug("hallucination generation complete",
		"provider", g.provider.Name(),
		"documents", len(refs),
		"triplets", len(triplets))

	return &model.HallucinatedTripletSet{
		ID:                 uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		Question:           question,
		FaithfulAnswer:     faithful,
		HallucinatedAnswer: hallucinated,
		HallucinatedPart:   details,
		Triplets:           triplets,
	}, nil
}

func hasContent(refs []string) bool {
	for _, r := range refs {
		if strings.TrimSpace(r) != "" {
			return true
		}
	}
	return false
}

// splitSections locates the three labelled sections, tolerating missing
// labels and extra text around them
func splitSections(text string) (faithful, hallucinated, details string) {
	lower := strings.ToLower(text)

	type marker struct {
		name string
		at   int
		end  int
	}
	var found []marker
	for _, label := range []string{"faithful answer:", "hallucinated answer:", "hallucinated details:"} {
		if at := strings.Index(lower, label); at >= 0 {
			found = append(found, marker{name: label, at: at, end: at + len(label)})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at < found[j].at })

	for i, m := range found {
		stop := len(text)
		if i+1 < len(found) {
			stop = found[i+1].at
		}
		content := strings.TrimSpace(text[m.end:stop])
		switch m.name {
		case "faithful answer:":
			faithful = content
		case "hallucinated answer:":
			hallucinated = content
		case "hallucinated details:":
			details = content
		}
	}
	return faithful, hallucinated, details
}

// parseDetailTriplets extracts "[doc N] (s | p | o)" lines. Missing or
// out-of-range doc tags clamp to 0.
func parseDetailTriplets(details string, numDocs int) []model.DocTriplet {
	var out []model.DocTriplet
	for _, line := range strings.Split(details, "\n") {
		doc, rest := parseDocTag(line)
		t, ok := triplet.ParseLine(rest)
		if !ok {
			continue
		}
		if doc < 0 || doc >= numDocs {
			doc = 0
		}
		out = append(out, model.DocTriplet{Triplet: t, Doc: doc})
	}
	return out
}

// parseDocTag strips a leading "[doc N]" tag, returning the doc index and
// the remainder of the line
func parseDocTag(line string) (int, string) {
	line = strings.TrimLeft(strings.TrimSpace(line), "-*• \t")
	if !strings.HasPrefix(strings.ToLower(line), "[doc") {
		return 0, line
	}

	end := strings.Index(line, "]")
	if end < 0 {
		return 0, line
	}

	n, err := strconv.Atoi(strings.TrimSpace(line[len("[doc"):end]))
	if err != nil {
		return 0, line[end+1:]
	}
	return n, line[end+1:]
}
