// Package score turns a fact-check verdict into a transparent support index
// with diagnostic signals. Every signal carries its inputs and formula so
// the number can be audited, not just trusted.
package score

import (
	"fmt"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// Scorer calculates the support index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores a verdict against the decomposed answer and references
func (s *Scorer) Calculate(input model.TripletSet, refs []model.TripletSet, verdict model.Verdict) model.Score {
	var signals []model.Signal

	if len(input) == 0 {
		// Nothing was extractable, so nothing was verified
		signals = append(signals, model.Signal{
			Type:        model.SignalEmptyExtraction,
			Severity:    model.SeverityCritical,
			Description: "No triplets extracted from the answer; nothing could be verified",
			Data: map[string]interface{}{
				"input_triplets": 0,
			},
		})
		return model.Score{
			Index:      0,
			Confidence: "low",
			Signals:    signals,
		}
	}

	supportScore, supportSignal := s.calculateSupport(input, verdict)
	signals = append(signals, supportSignal)

	coverageSignal := s.calculateReferenceCoverage(input, refs)
	signals = append(signals, coverageSignal)

	unconfirmed := verdict.FailedIndices()
	if len(unconfirmed) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalUnconfirmed,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d of %d judgments could not be confirmed and stayed unsupported", len(unconfirmed), verdict.Len()),
			Data: map[string]interface{}{
				"indices": unconfirmed,
				"total":   verdict.Len(),
			},
		})
	}

	confidence := s.determineConfidence(supportScore, refs, len(unconfirmed))

	return model.Score{
		Index:      supportScore,
		Confidence: confidence,
		Signals:    signals,
	}
}

// calculateSupport computes the supported-to-total ratio (0-100)
func (s *Scorer) calculateSupport(input model.TripletSet, verdict model.Verdict) (int, model.Signal) {
	supported := verdict.SupportedCount()
	total := len(input)
	ratio := float64(supported) / float64(total)
	index := int(ratio * 100)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.8 {
		severity = model.SeverityWarning
	}

	return index, model.Signal{
		Type:        model.SignalSupportRatio,
		Severity:    severity,
		Description: fmt.Sprintf("Supported triplets: %d/%d (%.0f%%)", supported, total, ratio*100),
		Data: map[string]interface{}{
			"supported": supported,
			"total":     total,
			"ratio":     ratio,
			"score":     index,
			"formula":   "supported_count / input_count * 100",
		},
	}
}

// calculateReferenceCoverage reports how much reference material backed the
// judgments
func (s *Scorer) calculateReferenceCoverage(input model.TripletSet, refs []model.TripletSet) model.Signal {
	referenceCount := 0
	for _, set := range refs {
		referenceCount += len(set)
	}

	if referenceCount == 0 {
		return model.Signal{
			Type:        model.SignalReferenceCoverage,
			Severity:    model.SeverityCritical,
			Description: "Reference corpus yielded no triplets; judgments are ungrounded",
			Data: map[string]interface{}{
				"documents":          len(refs),
				"reference_triplets": 0,
			},
		}
	}

	ratio := float64(referenceCount) / float64(len(input))

	severity := model.SeverityInfo
	if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalReferenceCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Reference-to-input ratio: %.2f (%d reference triplets from %d documents)", ratio, referenceCount, len(refs)),
		Data: map[string]interface{}{
			"documents":          len(refs),
			"reference_triplets": referenceCount,
			"input_triplets":     len(input),
			"ratio":              ratio,
			"formula":            "reference_triplet_count / input_triplet_count",
		},
	}
}

// determineConfidence determines the confidence level for the index
func (s *Scorer) determineConfidence(index int, refs []model.TripletSet, unconfirmed int) string {
	if unconfirmed > 0 {
		return "low-medium"
	}

	referenceCount := 0
	for _, set := range refs {
		referenceCount += len(set)
	}
	if referenceCount < 3 {
		return "low"
	}

	if index >= 80 {
		return "high"
	} else if index >= 60 {
		return "medium"
	}
	return "low"
}
