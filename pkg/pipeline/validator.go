// Package pipeline composes the triplet generator, fact checker, and
// hallucination generator into the end-to-end validation flow.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/tripletcheck/internal/util"
	"github.com/ppiankov/tripletcheck/pkg/factcheck"
	"github.com/ppiankov/tripletcheck/pkg/hallucinate"
	"github.com/ppiankov/tripletcheck/pkg/llm"
	"github.com/ppiankov/tripletcheck/pkg/model"
	"github.com/ppiankov/tripletcheck/pkg/prompt"
	"github.com/ppiankov/tripletcheck/pkg/score"
	"github.com/ppiankov/tripletcheck/pkg/triplet"
)

const (
	defaultMaxConcurrent = 4
	systemRetryBase      = time.Second
)

// validateSleepFunc is the sleep function used between system retries
// (injectable for tests)
var validateSleepFunc = time.Sleep

// ReferenceCache memoizes reference-document decompositions between calls.
// The validator never caches unless one is injected; implementations must
// be safe for concurrent use.
type ReferenceCache interface {
	Get(text string) (model.TripletSet, bool)
	Set(text string, set model.TripletSet)
}

// Validator runs the answer-versus-references validation pipeline
type Validator struct {
	provider  llm.Provider
	generator *triplet.Generator
	checker   *factcheck.Checker
	halluc    *hallucinate.Generator
	scorer    *score.Scorer
	cache     ReferenceCache
	logger    *slog.Logger
	bank      *prompt.Bank

	model         string
	systemRetry   int
	maxConcurrent int
}

// Option configures a Validator
type Option func(*Validator)

// WithCache injects a reference-decomposition cache
func WithCache(cache ReferenceCache) Option {
	return func(v *Validator) {
		v.cache = cache
	}
}

// WithLogger sets the validator's logger, propagated to all components
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithBank injects an exemplar bank, overriding Config.ExemplarsPath
func WithBank(bank *prompt.Bank) Option {
	return func(v *Validator) {
		v.bank = bank
	}
}

// New builds a validator from the configuration. Unknown strategy names,
// unreadable exemplar banks, and invalid bounds fail here with a
// *ConfigError; nothing is validated again at call time.
func New(cfg Config, provider llm.Provider, opts ...Option) (*Validator, error) {
	if provider == nil {
		return nil, &ConfigError{Field: "provider", Err: fmt.Errorf("an LLM provider is required")}
	}

	genStrategy, err := triplet.ParseStrategy(cfg.GeneratorStrategy)
	if err != nil {
		return nil, &ConfigError{Field: "triplet_generator", Err: err}
	}
	checkStrategy, err := factcheck.ParseStrategy(cfg.CheckerStrategy)
	if err != nil {
		return nil, &ConfigError{Field: "fact_checker", Err: err}
	}
	if cfg.SystemRetry < 0 {
		return nil, &ConfigError{Field: "system_retry", Err: fmt.Errorf("must be >= 0, got %d", cfg.SystemRetry)}
	}

	v := &Validator{
		provider:      provider,
		scorer:        score.NewScorer(),
		logger:        slog.Default(),
		model:         cfg.Model,
		systemRetry:   cfg.SystemRetry,
		maxConcurrent: cfg.MaxConcurrent,
	}
	if v.maxConcurrent <= 0 {
		v.maxConcurrent = defaultMaxConcurrent
	}
	for _, opt := range opts {
		opt(v)
	}

	bank := v.bank
	if bank == nil {
		if cfg.ExemplarsPath != "" {
			bank, err = prompt.LoadBank(cfg.ExemplarsPath)
			if err != nil {
				return nil, &ConfigError{Field: "exemplars", Err: err}
			}
		} else {
			bank = prompt.DefaultBank()
		}
		v.bank = bank
	}

	numShot := cfg.NumShot
	if numShot <= 0 {
		numShot = triplet.DefaultNumShot
	}

	v.generator, err = triplet.NewGenerator(provider, genStrategy,
		triplet.WithShots(bank.TripletShots(numShot)),
		triplet.WithLogger(v.logger),
		triplet.WithPromptLogging(cfg.LogPrompts))
	if err != nil {
		return nil, &ConfigError{Field: "triplet_generator", Err: err}
	}

	v.checker, err = factcheck.NewChecker(provider, checkStrategy,
		factcheck.WithShots(bank.FactCheckShots(numShot)),
		factcheck.WithInquiry(cfg.Inquiry),
		factcheck.WithLogger(v.logger),
		factcheck.WithPromptLogging(cfg.LogPrompts))
	if err != nil {
		return nil, &ConfigError{Field: "fact_checker", Err: err}
	}

	v.halluc, err = hallucinate.NewGenerator(provider,
		hallucinate.WithTripletGenerator(v.generator),
		hallucinate.WithLogger(v.logger),
		hallucinate.WithPromptLogging(cfg.LogPrompts))
	if err != nil {
		return nil, &ConfigError{Field: "hallucination_generator", Err: err}
	}

	return v, nil
}

// Validate decomposes the answer and every reference document into triplets,
// pools the references, and judges each answer triplet against the pool.
//
// Reference documents are decomposed concurrently under a bounded semaphore;
// one document's failure does not corrupt the others' parsed sets, but a
// document that still fails after the system retries fails the whole call.
// With split checker strategies the result may be returned together with a
// *factcheck.PartialError when some sub-checks kept failing; the verdict
// still covers every index, with failed ones unsupported.
func (v *Validator) Validate(ctx context.Context, inputText string, referenceTexts []string) (*model.ValidationResult, error) {
	start := time.Now()

	input, err := v.generateWithRetry(ctx, inputText)
	if err != nil {
		return nil, fmt.Errorf("decompose answer: %w", err)
	}

	refs, err := v.decomposeReferences(ctx, referenceTexts)
	if err != nil {
		return nil, err
	}

	return v.judge(ctx, input, refs, start)
}

// ValidateTriplets judges pre-extracted answer triplets against
// pre-extracted reference sets, skipping decomposition entirely
func (v *Validator) ValidateTriplets(ctx context.Context, input model.TripletSet, refs []model.TripletSet) (*model.ValidationResult, error) {
	return v.judge(ctx, input, refs, time.Now())
}

// GenerateTriplets exposes triplet generation alone, bypassing fact-checking
func (v *Validator) GenerateTriplets(ctx context.Context, text string) (model.TripletSet, error) {
	return v.generateWithRetry(ctx, text)
}

// GenerateHallucinated exposes the hallucination generator alone
func (v *Validator) GenerateHallucinated(ctx context.Context, question string, referenceTexts []string) (*model.HallucinatedTripletSet, error) {
	var out *model.HallucinatedTripletSet
	err := v.withSystemRetry(ctx, "hallucination_generation", func() error {
		var genErr error
		out, genErr = v.halluc.Generate(ctx, question, referenceTexts)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// judge runs the checker and scorer over decomposed inputs
func (v *Validator) judge(ctx context.Context, input model.TripletSet, refs []model.TripletSet, start time.Time) (*model.ValidationResult, error) {
	verdict, checkErr := v.checker.Check(ctx, input, refs)
	if checkErr != nil {
		pe, ok := factcheck.AsPartialError(checkErr)
		if !ok {
			return nil, checkErr
		}
		verdict, checkErr = v.retryFailedIndices(ctx, input, refs, verdict, pe)
		if checkErr != nil {
			if _, stillPartial := factcheck.AsPartialError(checkErr); !stillPartial {
				return nil, checkErr
			}
		}
	}

	result := &model.ValidationResult{
		ID:                uuid.New().String(),
		CreatedAt:         start.UTC(),
		Provider:          v.provider.Name(),
		Model:             v.model,
		GeneratorStrategy: string(v.generator.Strategy()),
		CheckerStrategy:   string(v.checker.Strategy()),
		InputTriplets:     input,
		ReferenceTriplets: refs,
		Verdict:           verdict,
		Score:             v.scorer.Calculate(input, refs, verdict),
		Duration:          time.Since(start),
	}
	return result, checkErr
}

// decomposeReferences decomposes each reference document concurrently.
// Results stay aligned with the input order.
func (v *Validator) decomposeReferences(ctx context.Context, docs []string) ([]model.TripletSet, error) {
	sets := make([]model.TripletSet, len(docs))
	errs := make([]error, len(docs))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, v.maxConcurrent)

	for i, doc := range docs {
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			if v.cache != nil {
				if cached, ok := v.cache.Get(text); ok {
					sets[idx] = cached
					return
				}
			}

			set, err := v.generateWithRetry(ctx, text)
			if err != nil {
				errs[idx] = err
				return
			}
			sets[idx] = set

			if v.cache != nil {
				v.cache.Set(text, set)
			}
		}(i, doc)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("decompose reference document %d: %w", i, err)
		}
	}
	return sets, nil
}

// retryFailedIndices re-runs failed split sub-checks up to the system retry
// budget, patching fresh judgments into the verdict
func (v *Validator) retryFailedIndices(ctx context.Context, input model.TripletSet, refs []model.TripletSet, verdict model.Verdict, pe *factcheck.PartialError) (model.Verdict, error) {
	indices := pe.Indices
	for attempt := 1; attempt <= v.systemRetry && len(indices) > 0; attempt++ {
		select {
		case <-ctx.Done():
			return verdict, ctx.Err()
		default:
		}

		v.logger.Warn("retrying failed sub-checks",
			"indices", indices,
			"attempt", attempt,
			"budget", v.systemRetry)
		validateSleepFunc(util.CalculateBackoff(systemRetryBase, attempt))

		judged, err := v.checker.CheckIndices(ctx, input, refs, indices)
		for idx, j := range judged {
			verdict.Judgments[idx] = j
		}

		if err == nil {
			return verdict, nil
		}
		if pe2, ok := factcheck.AsPartialError(err); ok {
			indices = pe2.Indices
			continue
		}
		return verdict, err
	}

	if len(indices) > 0 {
		return verdict, &factcheck.PartialError{Indices: indices}
	}
	return verdict, nil
}

// generateWithRetry decomposes text, re-running transient failures
func (v *Validator) generateWithRetry(ctx context.Context, text string) (model.TripletSet, error) {
	var set model.TripletSet
	err := v.withSystemRetry(ctx, "triplet_generation", func() error {
		var genErr error
		set, genErr = v.generator.Generate(ctx, text)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// withSystemRetry re-runs fn on transient failures with exponential backoff.
// Authentication failures and context cancellation are never retried.
func (v *Validator) withSystemRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= v.systemRetry || !systemRetryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		default:
		}

		v.logger.Warn("retrying after transient failure",
			"op", op,
			"attempt", attempt+1,
			"budget", v.systemRetry,
			"error", err)
		validateSleepFunc(util.CalculateBackoff(systemRetryBase, attempt+1))
	}
}

// systemRetryable reports whether a failure is worth a pipeline-level
// re-run. Service errors other than authentication qualify: even a
// bad-response can be transient model noise. Anything else (cancellation,
// programming errors) does not.
func systemRetryable(err error) bool {
	if svcErr, ok := llm.AsServiceError(err); ok {
		return svcErr.Kind != llm.ErrKindAuth
	}
	return false
}
