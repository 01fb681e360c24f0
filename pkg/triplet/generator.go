package triplet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/model"
	"github.com/ppiankov/tripletcheck/pkg/prompt"
)

// Strategy selects how triplet generation prompts are built
type Strategy string

const (
	// StrategyLLM sends the bare decomposition prompt
	StrategyLLM Strategy = "llm"
	// StrategyLLMNShot prefixes the prompt with worked examples
	StrategyLLMNShot Strategy = "llm_n_shot"
)

// ParseStrategy validates a generation strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLLM:
		return StrategyLLM, nil
	case StrategyLLMNShot:
		return StrategyLLMNShot, nil
	default:
		return "", fmt.Errorf("unknown triplet generation strategy: %s (supported: llm, llm_n_shot)", s)
	}
}

// DefaultNumShot is the number of worked examples used when none are configured
const DefaultNumShot = 2

// Generator decomposes text into triplets using an LLM provider
type Generator struct {
	provider   llm.Provider
	strategy   Strategy
	shots      []prompt.TripletShot
	logger     *slog.Logger
	logPrompts bool
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithShots sets the worked examples used by the n-shot strategy
func WithShots(shots []prompt.TripletShot) GeneratorOption {
	return func(g *Generator) {
		g.shots = shots
	}
}

// WithLogger sets the generator's logger
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPromptLogging enables debug logging of full prompts
func WithPromptLogging(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.logPrompts = enabled
	}
}

// NewGenerator creates a triplet generator. The strategy must be one of the
// known constants; unknown strategies fail here rather than at call time.
func NewGenerator(provider llm.Provider, strategy Strategy, opts ...GeneratorOption) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("triplet generator requires an LLM provider")
	}
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	g := &Generator{
		provider: provider,
		strategy: strategy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.strategy == StrategyLLMNShot && len(g.shots) == 0 {
		g.shots = prompt.DefaultBank().TripletShots(DefaultNumShot)
	}

	return g, nil
}

// Strategy returns the configured generation strategy
func (g *Generator) Strategy() Strategy {
	return g.strategy
}

// Generate decomposes text into triplets. Blank input returns an empty set
// without calling the provider. Provider failures propagate as typed service
// errors; malformed lines in an otherwise successful response are dropped.
func (g *Generator) Generate(ctx context.Context, text string) (model.TripletSet, error) {
	if strings.TrimSpace(text) == "" {
		return model.TripletSet{}, nil
	}

	var shots []prompt.TripletShot
	if g.strategy == StrategyLLMNShot {
		shots = g.shots
	}
	p := prompt.TripletGeneration(text, shots)

	if g.logPrompts {
		g.logger.Debug("triplet generation prompt", "system", p.System, "user", p.User)
	}

	resp, err := g.provider.Complete(ctx, llm.Request{
		System: p.System,
		Prompt: p.User,
	})
	if err != nil {
		return nil, fmt.Errorf("triplet generation: %w", err)
	}

	set := Parse(resp.Text)
	g.logger.Debug("triplet generation complete",
		"provider", g.provider.Name(),
		"chars", len(text),
		"triplets", len(set))

	return set, nil
}
