package factcheck

import (
	"errors"
	"fmt"
)

// PartialError reports sub-checks that failed during a split-strategy check.
// The verdict returned alongside it still covers every input index; failed
// indices stay unsupported and carry the failure in Judgment.Err, so callers
// can retry just those indices.
type PartialError struct {
	Indices []int
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("fact check incomplete: %d sub-checks failed (indices %v)", len(e.Indices), e.Indices)
}

// AsPartialError unwraps err to a *PartialError if it is one
func AsPartialError(err error) (*PartialError, bool) {
	var pe *PartialError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
