package traffic

import (
	"github.com/optinet/srotest/pkg/executor"
)

// ExecRunner runs traffic tool commands through an executor.
type ExecRunner struct {
	exec executor.Executor
}

// NewExecRunner returns a runner starting commands on exec's host.
func NewExecRunner(exec executor.Executor) ExecRunner {
	return ExecRunner{exec: exec}
}

// Run implements Runner.
func (r ExecRunner) Run(command string) (Handle, error) {
	return r.exec.Execute(command)
}
