// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrData indicates malformed or missing movement/account data.
	// Errors of this class abort the affected company's run.
	ErrData = errors.New("data error")

	// ErrConfig indicates an invalid threshold or engine configuration.
	ErrConfig = errors.New("config error")
)

// DataErrorf wraps a data problem so callers can classify it with errors.Is.
func DataErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// ConfigErrorf wraps a configuration problem so callers can classify it with
// errors.Is.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// RuleEvaluationError records the failure of a single alert rule. The alert
// engine catches these per rule; they never abort a full evaluation.
type RuleEvaluationError struct {
	Err      error
	RuleType string
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("rule %s failed: %v", e.RuleType, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}
