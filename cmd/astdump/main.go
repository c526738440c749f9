package main

import (
	"fmt"
	"io"
	"os"

	aerrors "astdump/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(aerrors.ExitCode(err))
	}
}

// printError writes the diagnostic for a failed command, followed by hints for
// fatal error codes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range aerrors.GetHints(aerrors.CodeOf(err)) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
