package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err != nil && !isLogged(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the outcome of a run to the process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// loggedError marks an error that already went through the logger, which
// echoes to stderr
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

func isLogged(err error) bool {
	var logged *loggedError
	return errors.As(err, &logged)
}
