package shell

import (
	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/executor"
	"github.com/optinet/srotest/pkg/metrics"
)

// SessionFactory opens a command session on the host at address.
type SessionFactory func(address string) (Session, error)

// RemoteExecutor connects to the host at address with the SSH credentials
// from the flags.
func RemoteExecutor(address string) (executor.Executor, error) {
	return executor.NewRemote(executor.RemoteConfig{
		User:    sshUserFlag.Value(),
		Host:    address,
		Port:    sshPortFlag.Value(),
		KeyPath: sshKeyFlag.Value(),
	})
}

// SSHSessions opens sessions over SSH with the credentials from the flags.
func SSHSessions(address string) (Session, error) {
	remote, err := RemoteExecutor(address)
	if err != nil {
		return nil, err
	}
	return NewExecSession(remote), nil
}

// Resolver builds testbed handles from the address flags. Intermediaries are
// cached per role so every phase talks to the same appliance handle.
type Resolver struct {
	factory        SessionFactory
	intermediaries map[device.Role]*Intermediary
}

// NewResolver returns a resolver opening sessions through factory.
func NewResolver(factory SessionFactory) *Resolver {
	return &Resolver{
		factory:        factory,
		intermediaries: map[device.Role]*Intermediary{},
	}
}

// Endpoint implements device.Resolver.
func (r *Resolver) Endpoint(role device.Role) (device.Endpoint, error) {
	flag, ok := endpointFlags[role]
	if !ok {
		return device.Endpoint{}, errors.Errorf("unknown endpoint role %q", role)
	}
	address := flag.Value()
	if address == "" {
		return device.Endpoint{}, errors.Errorf("no address configured for %q", role)
	}
	return device.Endpoint{Name: string(role), Address: address}, nil
}

// Intermediary implements device.Resolver.
func (r *Resolver) Intermediary(role device.Role) (device.Intermediary, error) {
	if cached, ok := r.intermediaries[role]; ok {
		return cached, nil
	}

	flag, ok := intermediaryFlags[role]
	if !ok {
		return nil, errors.Errorf("unknown intermediary role %q", role)
	}
	address := flag.Value()
	if address == "" {
		return nil, errors.Errorf("no address configured for %q", role)
	}

	session, err := r.factory(address)
	if err != nil {
		return nil, errors.Wrapf(err, "opening session on %q at %s", role, address)
	}

	intermediary := NewIntermediary(string(role), session)
	r.intermediaries[role] = intermediary
	return intermediary, nil
}

// Impairers builds the known impairment devices of the path. A testbed
// without an emulation host yields an empty list.
func (r *Resolver) Impairers() ([]device.Impairer, error) {
	address := impairerAddressFlag.Value()
	if address == "" {
		return nil, nil
	}

	session, err := r.factory(address)
	if err != nil {
		return nil, errors.Wrapf(err, "opening session on WAN emulator at %s", address)
	}
	return []device.Impairer{NewImpairer("wan-em", session, impairerIfaceFlag.Value())}, nil
}

// Meter builds the throughput probe of the testbed.
func (r *Resolver) Meter() (metrics.Meter, error) {
	address := probeAddressFlag.Value()
	session, err := r.factory(address)
	if err != nil {
		return nil, errors.Wrapf(err, "opening session on probe at %s", address)
	}
	return NewMeter(session, meterLANIfaceFlag.Value(), meterWANIfaceFlag.Value()), nil
}
