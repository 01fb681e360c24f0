// Package prompt holds the instruction templates and exemplar data used to
// drive triplet extraction, fact checking, and hallucinated-data generation.
// Templates use {{placeholder}} substitution; exemplar sets are versioned
// read-only assets with built-in defaults.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// FormatTriplets renders triplets one per line in the canonical wire format
func FormatTriplets(set model.TripletSet) string {
	var b strings.Builder
	for _, t := range set {
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatIndexedTriplets renders triplets one per line with their index so
// judgments can reference positions
func FormatIndexedTriplets(set model.TripletSet) string {
	var b strings.Builder
	for i, t := range set {
		fmt.Fprintf(&b, "%d. %s\n", i, t.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatReferencePool renders a pooled reference set with document tags
func FormatReferencePool(pool []model.DocTriplet) string {
	var b strings.Builder
	for _, t := range pool {
		fmt.Fprintf(&b, "[doc %d] %s\n", t.Doc, t.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDocuments renders reference documents as tagged blocks
func FormatDocuments(docs []string) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "[doc %d]\n%s\n\n", i, strings.TrimSpace(doc))
	}
	return strings.TrimRight(b.String(), "\n")
}
