package model

import "time"

// HallucinatedTripletSet is a synthetic negative example: triplets that
// sound plausible given the reference corpus but assert things the corpus
// does not state. There is no correctness oracle beyond the generating
// prompt's instruction, so this is best-effort data, not verified ground truth.
type HallucinatedTripletSet struct {
	ID        string    `json:"id"`         // Record identity for dataset assembly
	CreatedAt time.Time `json:"created_at"` // When the generation ran

	Question           string `json:"question,omitempty"`          // Guiding question, when supplied
	FaithfulAnswer     string `json:"faithful_answer,omitempty"`   // Answer grounded in the references
	HallucinatedAnswer string `json:"hallucinated_answer"`         // Answer with fabricated content folded in
	HallucinatedPart   string `json:"hallucinated_part,omitempty"` // The fabricated excerpt on its own

	Triplets []DocTriplet `json:"triplets"` // Fabricated triplets with source-document provenance
}
