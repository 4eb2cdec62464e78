package main

import (
	"errors"
	"os"

	anydoc "github.com/avasse/go-anydoc"
)

// Exit codes for the anydoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, anydoc.ErrBrowserConnect) ||
		errors.Is(err, anydoc.ErrPageCreate) ||
		errors.Is(err, anydoc.ErrPageLoad) ||
		errors.Is(err, anydoc.ErrCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage errors (exit 2)
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoTarget) ||
		errors.Is(err, anydoc.ErrEmptySource) ||
		errors.Is(err, anydoc.ErrEmptyTarget) {
		return ExitUsage
	}

	return ExitGeneral
}
