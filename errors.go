package rowan

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports a schema misconfiguration, such as a missing table
// name or a duplicate column, detected before any statement is executed.
type ConfigError struct {
	msg string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return "rowan: " + e.msg
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// ArgumentError reports an invalid call, such as Get with no lookup
// conditions. The store is never touched.
type ArgumentError struct {
	msg string
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	return "rowan: " + e.msg
}

// IsArgumentError returns true if the error is an ArgumentError.
func IsArgumentError(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentError
	return errors.As(err, &e)
}

// NotFoundError is returned by Get when no row matches the lookup
// conditions. It carries the entity label and the conditions used.
type NotFoundError struct {
	label string
	conds []Cond
}

// Error returns the error string, naming every lookup condition.
func (e *NotFoundError) Error() string {
	parts := make([]string, len(e.conds))
	for i, c := range e.conds {
		parts[i] = c.String()
	}
	return fmt.Sprintf("rowan: %s not found (%s)", e.label, strings.Join(parts, ", "))
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// Conds returns the lookup conditions that matched no row.
func (e *NotFoundError) Conds() []Cond {
	return e.conds
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e)
}

// ExecError wraps a failure reported by the underlying engine: malformed
// DDL, a constraint violation, a missing table, a type mismatch. The
// engine error is propagated unchanged through Unwrap; no operation
// retries.
type ExecError struct {
	op  string
	err error
}

// Error returns the error string.
func (e *ExecError) Error() string {
	return fmt.Sprintf("rowan: %s: %v", e.op, e.err)
}

// Unwrap returns the engine error.
func (e *ExecError) Unwrap() error {
	return e.err
}

// Op returns the gateway operation that failed.
func (e *ExecError) Op() string {
	return e.op
}

// IsExecError returns true if the error is an ExecError.
func IsExecError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecError
	return errors.As(err, &e)
}
