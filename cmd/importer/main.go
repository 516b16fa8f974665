package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/classcheck/internal/core"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// printError writes the mapped user message when err matches a known
// pattern, and the raw error otherwise.
func printError(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", core.FormatUserError(err))
		fmt.Fprintln(w, "Details:", err)
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
