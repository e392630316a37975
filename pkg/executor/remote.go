package executor

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// RemoteConfig locates one testbed host and the key to log into it.
type RemoteConfig struct {
	User    string
	Host    string
	Port    int
	KeyPath string
}

// Remote executes commands on a testbed host over SSH. One Remote holds one
// connection; every Execute runs in its own session.
type Remote struct {
	client *ssh.Client
	name   string
}

// NewRemote connects to the host described by config.
func NewRemote(config RemoteConfig) (*Remote, error) {
	key, err := ioutil.ReadFile(config.KeyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading SSH key %q", config.KeyPath)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing SSH key %q", config.KeyPath)
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	client, err := ssh.Dial("tcp", address, &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{ssh.PublicKeys(signer)},
		// Testbed hosts get reimaged between runs, their host keys churn.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s@%s", config.User, address)
	}

	return &Remote{client: client, name: address}, nil
}

// Name implements Executor.
func (r *Remote) Name() string {
	return r.name
}

// Close drops the SSH connection.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Execute implements Executor.
func (r *Remote) Execute(command string) (TaskHandle, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return nil, errors.Wrapf(err, "opening session on %s", r.name)
	}

	task := &remoteTask{session: session, done: make(chan struct{})}
	session.Stdout = &task.stdout
	session.Stderr = &task.stderr

	log.Debugf("%s: starting %q", r.name, command)
	if err := session.Start(command); err != nil {
		session.Close()
		return nil, errors.Wrapf(err, "starting %q on %s", command, r.name)
	}

	go func() {
		task.waitErr = session.Wait()
		session.Close()
		close(task.done)
	}()

	return task, nil
}

type remoteTask struct {
	session *ssh.Session
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	waitErr error
	done    chan struct{}

	once sync.Once
}

func (t *remoteTask) Stop() error {
	t.once.Do(func() {
		// Best effort: not every sshd delivers signals, closing the
		// session tears the remote process down either way.
		t.session.Signal(ssh.SIGKILL)
		t.session.Close()
	})
	t.Wait(0)
	return nil
}

func (t *remoteTask) Wait(timeout time.Duration) bool {
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

func (t *remoteTask) Status() Status {
	exitCode := 0
	if t.waitErr != nil {
		if exitErr, ok := t.waitErr.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
		} else {
			exitCode = -1
		}
	}
	return Status{
		ExitCode: exitCode,
		Stdout:   t.stdout.String(),
		Stderr:   t.stderr.String(),
	}
}
