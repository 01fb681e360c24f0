package model

import "time"

// ValidationResult is the complete outcome of checking an answer against
// a reference corpus. It is immutable once returned to the caller.
type ValidationResult struct {
	ID        string    `json:"id"`         // Record identity for dataset assembly
	CreatedAt time.Time `json:"created_at"` // When the validation ran

	Provider          string `json:"provider,omitempty"` // Completion backend used
	Model             string `json:"model,omitempty"`    // Model name used
	GeneratorStrategy string `json:"generator_strategy"` // Triplet generation strategy
	CheckerStrategy   string `json:"checker_strategy"`   // Fact-check strategy

	InputTriplets     TripletSet   `json:"input_triplets"`     // Decomposed answer
	ReferenceTriplets []TripletSet `json:"reference_triplets"` // Per-document reference decompositions

	Verdict Verdict `json:"verdict"` // Per-index support judgments
	Score   Score   `json:"score"`   // Transparent support scoring

	Duration time.Duration `json:"duration,omitempty"` // Wall time for the validation
}

// Score represents the transparent scoring breakdown for a verdict
type Score struct {
	Index      int      `json:"index"`      // Overall support index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent scoring data (formulas, inputs)
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalSupportRatio      SignalType = "support_ratio"      // Supported-to-total judgment ratio
	SignalUnconfirmed       SignalType = "unconfirmed"        // Judgments that errored and stayed unsupported
	SignalEmptyExtraction   SignalType = "empty_extraction"   // Answer yielded no triplets
	SignalReferenceCoverage SignalType = "reference_coverage" // Size of the reference triplet pool
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
