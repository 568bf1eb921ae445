// Package hook executes profile hook scripts.
package hook

import (
	"errors"
	"os"
	"os/exec"
)

// Runner executes a hook script and reports its exit status. It is an
// injected capability so callers can be tested without spawning real
// processes.
type Runner interface {
	// Run executes the script at path with the given arguments and
	// returns its exit status. The error is non-nil only when the
	// script could not be started at all.
	Run(path string, args ...string) (int, error)
}

// ExecRunner runs hooks as child processes inheriting stdout/stderr.
// Hooks run to completion; there is no timeout.
type ExecRunner struct{}

// Ensure ExecRunner implements the interface.
var _ Runner = ExecRunner{}

// Run executes the script and waits for it.
func (ExecRunner) Run(path string, args ...string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
