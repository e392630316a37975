// Package executor starts commands on testbed hosts, locally or over SSH,
// and hands back a handle to watch and stop them. The traffic tools run
// through the asynchronous path; appliance CLI commands use the synchronous
// RunOutput helper.
package executor

import (
	"time"

	"github.com/pkg/errors"
)

// Status is the terminal state of a finished task.
type Status struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// TaskHandle watches one started command.
type TaskHandle interface {
	// Stop terminates the command and everything it spawned. Stopping a
	// finished task is not an error.
	Stop() error
	// Wait blocks until the command finishes or the timeout elapses. A
	// zero timeout waits forever. Returns true when the command finished.
	Wait(timeout time.Duration) bool
	// Status returns the terminal state. Valid only after Wait or Stop
	// reported termination.
	Status() Status
}

// Executor starts commands on one host.
type Executor interface {
	// Execute starts the command asynchronously.
	Execute(command string) (TaskHandle, error)
	// Name identifies the target host in logs.
	Name() string
}

// RunOutput runs a command to completion and returns its stdout. A nonzero
// exit code is an error carrying the command's stderr.
func RunOutput(exec Executor, command string) (string, error) {
	handle, err := exec.Execute(command)
	if err != nil {
		return "", errors.Wrapf(err, "starting %q on %s", command, exec.Name())
	}
	handle.Wait(0)

	status := handle.Status()
	if status.ExitCode != 0 {
		return "", errors.Errorf("%q on %s exited with %d: %s",
			command, exec.Name(), status.ExitCode, status.Stderr)
	}
	return status.Stdout, nil
}
