package pipeline

import "fmt"

// ConfigError reports invalid validator configuration. It is returned from
// New, never from call-time operations: strategy names, exemplar banks, and
// bounds are all checked at construction.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
