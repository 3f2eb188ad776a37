package spc

import (
	"strings"

	"go.uber.org/multierr"
)

// ConfigurationError reports malformed options or input that cannot be
// charted, such as non-increasing rebase dates or gaps in a category's dates.
// It is returned before any computation starts and lists every violation found.
type ConfigurationError struct {
	err error
}

func newConfigurationError(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigurationError{err: err}
}

func (e *ConfigurationError) Error() string {
	violations := e.Violations()
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Error()
	}
	return "spc: configuration: " + strings.Join(msgs, "; ")
}

// Violations returns each detected problem separately.
func (e *ConfigurationError) Violations() []error {
	return multierr.Errors(e.err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.err
}
