// Package factcheck judges answer triplets against reference triplets using
// an LLM provider. Judgments are fail-closed: a triplet is only marked
// supported when the model affirms it in parseable form.
package factcheck

import (
	"fmt"
	"strings"
)

// Strategy selects how fact-check prompts are built and batched
type Strategy string

const (
	// StrategyLLM judges all triplets in one batched request
	StrategyLLM Strategy = "llm"
	// StrategyLLMSplit judges each triplet in its own request
	StrategyLLMSplit Strategy = "llm_split"
	// StrategyLLMNShot batches with worked examples prefixed
	StrategyLLMNShot Strategy = "llm_n_shot"
	// StrategyLLMNShotSplit splits with worked examples prefixed
	StrategyLLMNShotSplit Strategy = "llm_n_shot_split"
)

// ParseStrategy validates a fact-check strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLLM:
		return StrategyLLM, nil
	case StrategyLLMSplit:
		return StrategyLLMSplit, nil
	case StrategyLLMNShot:
		return StrategyLLMNShot, nil
	case StrategyLLMNShotSplit:
		return StrategyLLMNShotSplit, nil
	default:
		return "", fmt.Errorf("unknown fact check strategy: %s (supported: llm, llm_split, llm_n_shot, llm_n_shot_split)", s)
	}
}

// Split reports whether the strategy judges each triplet in its own request
func (s Strategy) Split() bool {
	return s == StrategyLLMSplit || s == StrategyLLMNShotSplit
}

// NShot reports whether the strategy prefixes worked examples
func (s Strategy) NShot() bool {
	return s == StrategyLLMNShot || s == StrategyLLMNShotSplit
}
