package model

// Judgment is the fact-check outcome for one input triplet
type Judgment struct {
	Supported bool     `json:"supported"`           // Whether some reference triplet entails the input triplet
	Rationale string   `json:"rationale,omitempty"` // Model-provided justification, when available
	Reference *Triplet `json:"reference,omitempty"` // Reference triplet cited as support, when available
	Err       string   `json:"error,omitempty"`     // Non-empty when the judgment could not be confirmed
}

// Verdict holds one judgment per input triplet, aligned by index.
// The slice is always sized to the input TripletSet, so the key set
// {0..len(input)-1} holds by construction.
type Verdict struct {
	Judgments []Judgment `json:"judgments"`
	Rationale string     `json:"rationale,omitempty"` // Shared model reasoning, when inquiry mode captured it
}

// NewVerdict returns a verdict with every index initialized to unsupported.
// Unconfirmed judgments stay false (fail-closed).
func NewVerdict(n int) Verdict {
	return Verdict{Judgments: make([]Judgment, n)}
}

// Len returns the number of judged input triplets
func (v Verdict) Len() int {
	return len(v.Judgments)
}

// Supported reports whether the triplet at index i was judged supported.
// Out-of-range indices are unsupported.
func (v Verdict) Supported(i int) bool {
	if i < 0 || i >= len(v.Judgments) {
		return false
	}
	return v.Judgments[i].Supported
}

// SupportedCount returns the number of supported judgments
func (v Verdict) SupportedCount() int {
	count := 0
	for _, j := range v.Judgments {
		if j.Supported {
			count++
		}
	}
	return count
}

// FailedIndices returns the indices whose judgments carry an error
func (v Verdict) FailedIndices() []int {
	var failed []int
	for i, j := range v.Judgments {
		if j.Err != "" {
			failed = append(failed, i)
		}
	}
	return failed
}

// AllSupported reports whether every judgment is supported
func (v Verdict) AllSupported() bool {
	return v.SupportedCount() == len(v.Judgments)
}
