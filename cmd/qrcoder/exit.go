package main

import (
	"errors"

	"github.com/seedtabs/qrcoder/config"
	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/seedtabs/qrcoder/infrastructure/output"
)

// Process exit codes, one per fatal condition
const (
	exitUnexpected = 1
	exitUsage      = 2
	exitOutputDir  = 3
	exitCapacity   = 4
	exitWrite      = 5
	exitLedger     = 6
)

// exitError carries the exit code chosen where the failure was classified
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode classifies err for os.Exit
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	switch {
	case errors.Is(err, config.ErrUsage),
		errors.Is(err, label.ErrInvalidPackageType),
		errors.Is(err, label.ErrInvalidCount),
		errors.Is(err, label.ErrInvalidRange),
		errors.Is(err, output.ErrLedgerInOutputDir):
		return exitUsage
	case errors.Is(err, output.ErrNotDirectory),
		errors.Is(err, output.ErrDirNotEmpty):
		return exitOutputDir
	case errors.Is(err, label.ErrCapacityExceeded):
		return exitCapacity
	case errors.Is(err, label.ErrWriteFailed):
		return exitWrite
	}
	return exitUnexpected
}
