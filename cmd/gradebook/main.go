package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Analysis completed
	ExitStudentsFailed = 1 // --fail-on-fail and at least one student failed
	ExitError          = 2 // Configuration or runtime error
)

// FailedStudentsError indicates that the analysis completed, but one or
// more students scored below the pass threshold and --fail-on-fail was set.
type FailedStudentsError struct {
	Failed []string
}

func (e *FailedStudentsError) Error() string {
	return fmt.Sprintf("%d student(s) below the pass threshold", len(e.Failed))
}

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err) //nolint:errcheck

	var failedErr *FailedStudentsError
	if errors.As(err, &failedErr) {
		return ExitStudentsFailed
	}

	// All other errors are configuration/runtime errors
	return ExitError
}
