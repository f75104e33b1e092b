package commands

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitError      = 2
)

// exitError carries a process exit code. Silent errors have already been
// reported by the command and are not printed again.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// errLintIssues is returned when a run finds violations.
var errLintIssues = &exitError{code: ExitViolations, err: errors.New("lint issues found"), silent: true}

// errFatal wraps failures that stopped files from being linted.
func errFatal(format string, args ...any) error {
	return &exitError{code: ExitError, err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitError
}

// IsSilent reports whether err has already been shown to the user.
func IsSilent(err error) bool {
	var e *exitError
	return errors.As(err, &e) && e.silent
}
