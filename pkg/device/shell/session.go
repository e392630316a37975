// Package shell implements the device capability interfaces over command
// sessions: appliance features through their CLI, impairment and metering
// through Linux tooling on the path hosts.
package shell

import (
	"github.com/optinet/srotest/pkg/executor"
)

// Session runs one command on a testbed host and returns its output.
type Session interface {
	Run(command string) (string, error)
}

// ExecSession adapts an executor into a synchronous session.
type ExecSession struct {
	exec executor.Executor
}

// NewExecSession returns a session running commands through exec.
func NewExecSession(exec executor.Executor) ExecSession {
	return ExecSession{exec: exec}
}

// Run implements Session.
func (s ExecSession) Run(command string) (string, error) {
	return executor.RunOutput(s.exec, command)
}
