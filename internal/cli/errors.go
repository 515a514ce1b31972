// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError covers unknown failures and audits that settle with an error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid usage, including an empty audit query
	ExitUsageError = 2
	// ExitConfigError indicates a broken configuration file or setting
	ExitConfigError = 3
	// ExitNetworkError indicates the audit service could not be reached
	ExitNetworkError = 5
	// ExitInterrupted indicates the user aborted an interactive prompt
	ExitInterrupted = 130
)

// ExitError carries a process exit code along with the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err so that Execute exits with code.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneralError
}

var (
	// ErrEmptyQuery is returned by ask when no non-blank query was given.
	ErrEmptyQuery = errors.New("audit query is empty")

	// errAborted is returned when the user aborts the interactive prompt.
	errAborted = errors.New("aborted")
)
