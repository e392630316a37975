package executor

import (
	"bytes"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local executes commands on the machine running the test, as the current
// user, through `sh -c`.
type Local struct{}

// NewLocal returns a local executor.
func NewLocal() Local {
	return Local{}
}

// Name implements Executor.
func (Local) Name() string {
	return "local"
}

// Execute implements Executor. The command gets its own process group so
// Stop can take down everything it spawned.
func (l Local) Execute(command string) (TaskHandle, error) {
	log.Debugf("local: starting %q", command)

	cmd := exec.Command("sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	task := &localTask{cmd: cmd, done: make(chan struct{})}
	cmd.Stdout = &task.stdout
	cmd.Stderr = &task.stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %q", command)
	}
	log.Debugf("local: %q running with pid %d", command, cmd.Process.Pid)

	go func() {
		cmd.Wait()
		close(task.done)
	}()

	return task, nil
}

type localTask struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan struct{}

	once sync.Once
}

func (t *localTask) Stop() error {
	var stopErr error
	t.once.Do(func() {
		// Negative pid signals the whole process group.
		err := syscall.Kill(-t.cmd.Process.Pid, syscall.SIGKILL)
		if err != nil && err != syscall.ESRCH {
			stopErr = errors.Wrapf(err, "killing process group %d", t.cmd.Process.Pid)
			return
		}
		<-t.done
	})
	if stopErr != nil {
		return stopErr
	}
	t.Wait(0)
	return nil
}

func (t *localTask) Wait(timeout time.Duration) bool {
	if timeout == 0 {
		<-t.done
		return true
	}
	select {
	case <-t.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (t *localTask) Status() Status {
	exitCode := 0
	if state := t.cmd.ProcessState; state != nil {
		waitStatus := state.Sys().(syscall.WaitStatus)
		if waitStatus.Exited() {
			exitCode = waitStatus.ExitStatus()
		} else {
			exitCode = -int(waitStatus.Signal())
		}
	}
	return Status{
		ExitCode: exitCode,
		Stdout:   t.stdout.String(),
		Stderr:   t.stderr.String(),
	}
}
