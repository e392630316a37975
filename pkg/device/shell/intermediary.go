package shell

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/policy"
)

// Intermediary drives one optimizing appliance through its CLI session.
type Intermediary struct {
	name    string
	session Session
	// logs is created once: the watcher keeps the mark between Mark and
	// FindingsSince, so every Logs call must see the same instance.
	logs *logWatcher
}

// NewIntermediary returns an appliance handle named name over session.
func NewIntermediary(name string, session Session) *Intermediary {
	return &Intermediary{
		name:    name,
		session: session,
		logs:    &logWatcher{session: session, path: logPathFlag.Value()},
	}
}

// Name implements device.Intermediary.
func (i *Intermediary) Name() string {
	return i.name
}

// Config implements device.Intermediary.
func (i *Intermediary) Config() device.ConfigManager {
	return configManager{i.session}
}

// Optimizer implements device.Intermediary.
func (i *Intermediary) Optimizer() device.Optimizer {
	return optimizer{i.session}
}

// Shaper implements device.Intermediary.
func (i *Intermediary) Shaper() device.Shaper {
	return shaper{i.session}
}

// Balancer implements device.Intermediary. Single-core models do not carry
// the balancing subsystem and fail the capability check.
func (i *Intermediary) Balancer() (device.Balancer, error) {
	if _, err := i.session.Run("show service balancing multi-core"); err != nil {
		return nil, errors.Wrapf(err, "checking multi-core balancing on %s", i.name)
	}
	return balancer{i.session}, nil
}

// Stats implements device.Intermediary.
func (i *Intermediary) Stats() device.StatsProvider {
	return statsProvider{i.session}
}

// Logs implements device.Intermediary.
func (i *Intermediary) Logs() device.LogWatcher {
	return i.logs
}

type configManager struct {
	session Session
}

func (c configManager) Active() (string, error) {
	out, err := c.session.Run("show configuration running name")
	if err != nil {
		return "", errors.Wrap(err, "reading active configuration name")
	}
	name := strings.TrimSpace(out)
	if name == "" {
		return "", errors.New("appliance reported an empty configuration name")
	}
	return name, nil
}

func (c configManager) Save(name string) error {
	_, err := c.session.Run(fmt.Sprintf("configuration write to %s", name))
	return errors.Wrapf(err, "saving configuration %q", name)
}

func (c configManager) SwitchTo(name string) error {
	_, err := c.session.Run(fmt.Sprintf("configuration switch-to %s", name))
	return errors.Wrapf(err, "switching to configuration %q", name)
}

func (c configManager) Delete(name string) error {
	_, err := c.session.Run(fmt.Sprintf("configuration delete %s", name))
	return errors.Wrapf(err, "deleting configuration %q", name)
}

func (c configManager) Copy(src, dst string) error {
	_, err := c.session.Run(fmt.Sprintf("configuration copy %s %s", src, dst))
	return errors.Wrapf(err, "copying configuration %q to %q", src, dst)
}

func (c configManager) ApplyTransport(bufferBytes int) error {
	for _, direction := range []string{"send", "receive"} {
		command := fmt.Sprintf("protocol connection wan %s def-buf-size %d", direction, bufferBytes)
		if _, err := c.session.Run(command); err != nil {
			return errors.Wrapf(err, "setting wan %s buffer to %d bytes", direction, bufferBytes)
		}
	}
	return nil
}

func (c configManager) Restart(clearStore bool) error {
	command := "restart"
	if clearStore {
		command = "restart clean"
	}
	_, err := c.session.Run(command)
	return errors.Wrap(err, "restarting optimization service")
}

type optimizer struct {
	session Session
}

func (o optimizer) AddPort(port int) error {
	_, err := o.session.Run(fmt.Sprintf("protocol srdf ports %d", port))
	return errors.Wrapf(err, "adding replication port %d", port)
}

func (o optimizer) AddRule(arrayID string, group int, kind policy.Kind) error {
	command := fmt.Sprintf("protocol srdf symm id %s rdf_group %d optimization %s", arrayID, group, kind)
	_, err := o.session.Run(command)
	return errors.Wrapf(err, "adding rule for array %s group %d", arrayID, group)
}

func (o optimizer) Enable() error {
	_, err := o.session.Run("protocol srdf enable")
	return errors.Wrap(err, "enabling selective replication optimization")
}

func (o optimizer) Disable() error {
	_, err := o.session.Run("no protocol srdf enable")
	return errors.Wrap(err, "disabling selective replication optimization")
}

type shaper struct {
	session Session
}

func (s shaper) RevertInitiate() error {
	_, err := s.session.Run("qos migrate basic initiate")
	return errors.Wrap(err, "initiating shaping revert")
}

func (s shaper) RevertConfirm() error {
	_, err := s.session.Run("qos migrate basic confirm")
	return errors.Wrap(err, "confirming shaping revert")
}

type balancer struct {
	session Session
}

func (b balancer) SetMultiCore(enabled bool) error {
	command := "service balancing multi-core enable"
	if !enabled {
		command = "no " + command
	}
	_, err := b.session.Run(command)
	return errors.Wrapf(err, "setting multi-core balancing to %t", enabled)
}
