package main

import (
	"context"
	"fmt"
	"os"

	apperrors "github.com/kbukum/diarkit/errors"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.Wrap(err).ExitCode())
	}
}
