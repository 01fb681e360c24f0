package model

import "fmt"

// Triplet represents one atomic factual assertion as a (subject, predicate, object) tuple
type Triplet struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// String renders the triplet in the canonical wire format: (subject | predicate | object)
func (t Triplet) String() string {
	return fmt.Sprintf("(%s | %s | %s)", t.Subject, t.Predicate, t.Object)
}

// Valid reports whether all three fields are non-empty.
// Parsers drop invalid triplets instead of passing them downstream.
func (t Triplet) Valid() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}

// TripletSet is an ordered sequence of triplets extracted from one source span.
// Order reflects extraction order and is preserved for index-addressable verdicts.
type TripletSet []Triplet

// Strings renders each triplet in the canonical wire format
func (s TripletSet) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.String()
	}
	return out
}

// DocTriplet is a triplet tagged with the index of the reference document it came from
type DocTriplet struct {
	Triplet
	Doc int `json:"doc"`
}

// PoolReferences flattens per-document triplet sets into a single pool,
// tagging each triplet with its source-document index. Document indices
// are positions in the caller's reference slice.
func PoolReferences(refs []TripletSet) []DocTriplet {
	var pool []DocTriplet
	for doc, set := range refs {
		for _, t := range set {
			pool = append(pool, DocTriplet{Triplet: t, Doc: doc})
		}
	}
	return pool
}
