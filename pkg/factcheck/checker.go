package factcheck

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/model"
	"github.com/ppiankov/tripletcheck/pkg/prompt"
	"github.com/ppiankov/tripletcheck/pkg/triplet"
)

const defaultNumShot = 2

// Checker judges answer triplets against pooled reference triplets
type Checker struct {
	provider   llm.Provider
	strategy   Strategy
	shots      []prompt.FactCheckShot
	inquiry    bool
	logger     *slog.Logger
	logPrompts bool
}

// CheckerOption configures a Checker
type CheckerOption func(*Checker)

// WithShots sets the worked examples used by n-shot strategies
func WithShots(shots []prompt.FactCheckShot) CheckerOption {
	return func(c *Checker) {
		c.shots = shots
	}
}

// WithInquiry makes direct strategies ask the model to reason before its
// final verdict listing. The reasoning is kept as the verdict's rationale.
func WithInquiry(enabled bool) CheckerOption {
	return func(c *Checker) {
		c.inquiry = enabled
	}
}

// WithLogger sets the checker's logger
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPromptLogging enables debug logging of full prompts
func WithPromptLogging(enabled bool) CheckerOption {
	return func(c *Checker) {
		c.logPrompts = enabled
	}
}

// NewChecker creates a fact checker. Unknown strategies fail here rather
// than at call time.
func NewChecker(provider llm.Provider, strategy Strategy, opts ...CheckerOption) (*Checker, error) {
	if provider == nil {
		return nil, fmt.Errorf("fact checker requires an LLM provider")
	}
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	c := &Checker{
		provider: provider,
		strategy: strategy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.strategy.NShot() && len(c.shots) == 0 {
		c.shots = prompt.DefaultBank().FactCheckShots(defaultNumShot)
	}

	return c, nil
}

// Strategy returns the configured fact-check strategy
func (c *Checker) Strategy() Strategy {
	return c.strategy
}

// Check judges every input triplet against the pooled reference triplets.
// The returned verdict always covers every input index. Direct strategies
// send one batched request; indices the model omits stay unsupported. Split
// strategies send one request per triplet; sub-check failures leave that
// index unsupported with Judgment.Err set and surface a *PartialError.
func (c *Checker) Check(ctx context.Context, input model.TripletSet, refs []model.TripletSet) (model.Verdict, error) {
	if len(input) == 0 {
		return model.NewVerdict(0), nil
	}
	pool := model.PoolReferences(refs)

	if !c.strategy.Split() {
		return c.checkDirect(ctx, input, pool)
	}

	indices := make([]int, len(input))
	for i := range indices {
		indices[i] = i
	}

	verdict := model.NewVerdict(len(input))
	judged, err := c.checkSplit(ctx, input, pool, indices)
	for idx, j := range judged {
		verdict.Judgments[idx] = j
	}
	return verdict, err
}

// CheckIndices re-judges only the given input indices using the split call
// shape, returning fresh judgments keyed by input index. Callers use this to
// retry the indices reported by a PartialError without repeating the rest.
func (c *Checker) CheckIndices(ctx context.Context, input model.TripletSet, refs []model.TripletSet, indices []int) (map[int]model.Judgment, error) {
	return c.checkSplit(ctx, input, model.PoolReferences(refs), indices)
}

func (c *Checker) checkDirect(ctx context.Context, input model.TripletSet, pool []model.DocTriplet) (model.Verdict, error) {
	var shots []prompt.FactCheckShot
	if c.strategy.NShot() {
		shots = c.shots
	}
	p := prompt.FactCheck(input, pool, shots, c.inquiry)

	if c.logPrompts {
		c.logger.Debug("fact check prompt", "system", p.System, "user", p.User)
	}

	resp, err := c.provider.Complete(ctx, llm.Request{
		System: p.System,
		Prompt: p.User,
	})
	if err != nil {
		return model.NewVerdict(len(input)), fmt.Errorf("fact check: %w", err)
	}

	listing := resp.Text
	rationale := ""
	if c.inquiry {
		rationale, listing = splitFinalAnswer(resp.Text)
	}

	verdict := parseVerdictListing(listing, len(input))
	verdict.Rationale = rationale

	c.logger.Debug("fact check complete",
		"provider", c.provider.Name(),
		"strategy", string(c.strategy),
		"triplets", len(input),
		"supported", verdict.SupportedCount())

	return verdict, nil
}

func (c *Checker) checkSplit(ctx context.Context, input model.TripletSet, pool []model.DocTriplet, indices []int) (map[int]model.Judgment, error) {
	var shots []prompt.FactCheckShot
	if c.strategy.NShot() {
		shots = c.shots
	}

	judged := make(map[int]model.Judgment, len(indices))
	var failed []int
	for _, idx := range indices {
		if idx < 0 || idx >= len(input) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return judged, err
		}

		j, err := c.checkOne(ctx, input[idx], pool, shots)
		if err != nil {
			c.logger.Warn("sub-check failed", "index", idx, "error", err)
			j = model.Judgment{Err: err.Error()}
			failed = append(failed, idx)
		}
		judged[idx] = j
	}

	if len(failed) > 0 {
		return judged, &PartialError{Indices: failed}
	}
	return judged, nil
}

func (c *Checker) checkOne(ctx context.Context, t model.Triplet, pool []model.DocTriplet, shots []prompt.FactCheckShot) (model.Judgment, error) {
	p := prompt.FactCheckSplit(t, pool, shots)

	if c.logPrompts {
		c.logger.Debug("sub-check prompt", "system", p.System, "user", p.User)
	}

	resp, err := c.provider.Complete(ctx, llm.Request{
		System: p.System,
		Prompt: p.User,
	})
	if err != nil {
		return model.Judgment{}, err
	}

	return parseSplitResponse(resp.Text)
}

// splitFinalAnswer separates free-form reasoning from the verdict listing.
// A response without the marker is treated as all listing.
func splitFinalAnswer(text string) (rationale, listing string) {
	idx := strings.Index(text, prompt.FinalAnswerMarker)
	if idx < 0 {
		return "", text
	}
	return strings.TrimSpace(text[:idx]), text[idx+len(prompt.FinalAnswerMarker):]
}

// parseVerdictListing parses "index: true/false" entries separated by
// newlines or commas. Indices the model omitted or mangled stay unsupported.
func parseVerdictListing(text string, n int) model.Verdict {
	verdict := model.NewVerdict(n)
	for _, line := range strings.Split(text, "\n") {
		for _, entry := range strings.Split(line, ",") {
			idx, supported, ok := parseVerdictEntry(entry)
			if !ok || idx < 0 || idx >= n {
				continue
			}
			verdict.Judgments[idx].Supported = supported
		}
	}
	return verdict
}

// parseVerdictEntry parses one "index: value" pair, tolerating bullets and
// a "triplet_idx_" style prefix
func parseVerdictEntry(entry string) (int, bool, bool) {
	entry = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(entry), "-*• \t"))

	lower := strings.ToLower(entry)
	for _, prefix := range []string{"triplet_idx_", "triplet_"} {
		if strings.HasPrefix(lower, prefix) {
			entry = entry[len(prefix):]
			break
		}
	}

	i := 0
	for i < len(entry) && entry[i] >= '0' && entry[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false, false
	}
	idx, err := strconv.Atoi(entry[:i])
	if err != nil {
		return 0, false, false
	}

	supported, ok := parseVerdictValue(strings.TrimLeft(entry[i:], ":.) \t"))
	if !ok {
		return 0, false, false
	}
	return idx, supported, true
}

// parseSplitResponse parses a single sub-check response. A response without
// a recognizable verdict line is a recoverable per-index error.
func parseSplitResponse(text string) (model.Judgment, error) {
	var j model.Judgment
	verdictSeen := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• \t"))
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "verdict:"):
			supported, ok := parseVerdictValue(line[len("verdict:"):])
			if !ok {
				return model.Judgment{}, fmt.Errorf("unparsable verdict line: %q", line)
			}
			j.Supported = supported
			verdictSeen = true
		case strings.HasPrefix(lower, "reference:"):
			if ref, ok := triplet.ParseLine(line[len("reference:"):]); ok {
				j.Reference = &ref
			}
		case strings.HasPrefix(lower, "reason:"):
			j.Rationale = strings.TrimSpace(line[len("reason:"):])
		}
	}

	if !verdictSeen {
		return model.Judgment{}, fmt.Errorf("no verdict line in response")
	}
	return j, nil
}

// parseVerdictValue maps a verdict token to a judgment
func parseVerdictValue(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ".")) {
	case "yes", "true", "supported":
		return true, true
	case "no", "false", "unsupported", "not supported":
		return false, true
	}
	return false, false
}
