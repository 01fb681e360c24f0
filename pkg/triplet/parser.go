// Package triplet decomposes free text into (subject, predicate, object)
// triplets via an LLM provider and parses the model's listings back into
// structured form.
package triplet

import (
	"strings"

	"github.com/ppiankov/tripletcheck/pkg/model"
)

// Parse extracts triplets from model output. Parsing is fail-open: lines
// that do not yield exactly three non-empty fields are skipped, so prose
// preambles, blank lines, and malformed rows never abort an extraction.
// Parse never errors; unusable output simply yields a smaller set.
func Parse(text string) model.TripletSet {
	set := model.TripletSet{}
	for _, line := range strings.Split(text, "\n") {
		if t, ok := ParseLine(line); ok {
			set = append(set, t)
		}
	}
	return set
}

// ParseLine parses a single listing line. It tolerates leading bullets and
// numbering, missing or unbalanced parentheses, and uneven spacing around
// the field separators.
func ParseLine(line string) (model.Triplet, bool) {
	line = stripListMarker(strings.TrimSpace(line))

	if strings.HasSuffix(line, ").") {
		line = strings.TrimSuffix(line, ".")
	}
	line = strings.TrimPrefix(line, "(")
	line = strings.TrimSuffix(line, ")")

	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return model.Triplet{}, false
	}

	t := model.Triplet{
		Subject:   strings.TrimSpace(parts[0]),
		Predicate: strings.TrimSpace(parts[1]),
		Object:    strings.TrimSpace(parts[2]),
	}
	if !t.Valid() {
		return model.Triplet{}, false
	}
	return t, true
}

// stripListMarker removes a leading bullet or "1." / "12)" style numbering
func stripListMarker(line string) string {
	for _, bullet := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, bullet) {
			return strings.TrimSpace(strings.TrimPrefix(line, bullet))
		}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
