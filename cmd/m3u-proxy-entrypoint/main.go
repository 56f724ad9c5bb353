package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/kula-app/m3u-proxy-entrypoint/internal/launcher"
)

func main() {
	// Entry point: create a root context and run the entrypoint.
	ctx := context.Background()

	// Pass in the command line arguments, environment variables, standard error
	// stream and the exec system call to the run function. This allows the run
	// function to be tested without replacing the test binary.
	if err := run(ctx, os.Args, os.Getenv, os.Stderr, unix.Exec); err != nil {
		// A signal arrived before the hand-off, exit the way a shell would.
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
