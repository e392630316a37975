package shell

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/device"
)

// Impairer programs netem on a Linux host sitting in the WAN path.
type Impairer struct {
	name    string
	session Session
	iface   string
}

// NewImpairer returns an impairer driving iface on the host behind session.
func NewImpairer(name string, session Session, iface string) *Impairer {
	return &Impairer{name: name, session: session, iface: iface}
}

// Name implements device.Impairer.
func (i *Impairer) Name() string {
	return i.name
}

// Apply implements device.Impairer.
func (i *Impairer) Apply(profile device.ImpairmentProfile) error {
	command := fmt.Sprintf("tc qdisc replace dev %s root netem rate %dkbit delay %dms loss %g%% limit %d",
		i.iface, profile.BandwidthKbps, profile.Delay.Milliseconds(), profile.LossPercent, profile.QueueLen)
	if _, err := i.session.Run(command); err != nil {
		return errors.Wrapf(err, "programming netem on %s", i.name)
	}
	return nil
}

// RestoreDefaults implements device.Impairer.
func (i *Impairer) RestoreDefaults() error {
	return i.Apply(device.DefaultImpairment())
}
