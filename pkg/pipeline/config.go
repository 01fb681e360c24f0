package pipeline

// Config selects the pipeline's strategies and retry/concurrency behavior.
// Strategy names are validated once, in New; call-time dispatch never
// consults a string.
type Config struct {
	GeneratorStrategy string // "llm" or "llm_n_shot"
	CheckerStrategy   string // "llm", "llm_split", "llm_n_shot", "llm_n_shot_split"

	Inquiry bool // Direct checker strategies reason before the verdict listing
	NumShot int  // Worked examples per n-shot prompt (<= 0 means the default)

	// ExemplarsPath points at a YAML exemplar bank replacing the built-in
	// one. Banks are read once at construction.
	ExemplarsPath string

	// SystemRetry is the number of pipeline-level re-runs after a transient
	// failure, on top of any transport-level retries the provider performs.
	SystemRetry int

	// MaxConcurrent bounds concurrent reference-document decompositions
	// (<= 0 means the default).
	MaxConcurrent int

	Model      string // Informational: recorded on results
	LogPrompts bool   // Debug-log full prompts
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		GeneratorStrategy: "llm_n_shot",
		CheckerStrategy:   "llm_n_shot",
		NumShot:           2,
		SystemRetry:       2,
		MaxConcurrent:     4,
	}
}
