// Package cafcore holds the configuration and typed error kinds shared
// across the ancient-homology refinement packages.
package cafcore

import "github.com/pkg/errors"

// ConfigError marks a fatal, caller-supplied configuration mistake: an
// incompatible rootingMethod x treeBuildingMethod combination, or an
// unrecognized scoring method.
type ConfigError struct {
	msg string
	err error
}

func NewConfigError(msg string) *ConfigError {
	return &ConfigError{msg: msg, err: errors.New(msg)}
}

func (e *ConfigError) Error() string { return e.msg }
func (e *ConfigError) Unwrap() error { return e.err }

// InvariantError marks a fatal internal-consistency failure: a missing cap
// for a thread, a missing species node for an event label, a matrix-index
// mismatch, a segment still owned by its old block after splitBlock. These
// identify the offending block/index in their message and should never be
// recovered from; they indicate a bug in the core, not bad input.
type InvariantError struct {
	msg string
	err error
}

// NewInvariantError builds an InvariantError with a stack trace attached
// via github.com/pkg/errors, so the offending block/index is traceable.
func NewInvariantError(format string, args ...interface{}) *InvariantError {
	err := errors.Errorf(format, args...)
	return &InvariantError{msg: err.Error(), err: err}
}

func (e *InvariantError) Error() string { return e.msg }
func (e *InvariantError) Unwrap() error { return e.err }
