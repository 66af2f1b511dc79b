package config

import (
	"fmt"
	"os"

	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitError writes err to stderr and exits with the status mapped from its
// domain code: 2 for rejected input, 1 otherwise.
func ExitError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(apperrors.CodeOf(err).ExitStatus())
}
