// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

// Exit codes.
const (
	// ExitOK means the command succeeded and the plan has no errors.
	ExitOK = 0
	// ExitProblems means resolution finished but reported errors.
	ExitProblems = 1
	// ExitFailure means the command could not run (bad config, broken descriptor).
	ExitFailure = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. A nil Err means the output already explained the failure.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
