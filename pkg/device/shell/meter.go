package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/metrics"
)

// Meter measures link throughput from a probe host by sampling its
// interface byte counters across the interval. Each measured side maps to
// one interface of the probe.
type Meter struct {
	session Session
	ifaces  map[metrics.Side]string

	sleep func(time.Duration)
}

// NewMeter returns a meter probing lanIface and wanIface through session.
func NewMeter(session Session, lanIface, wanIface string) *Meter {
	return &Meter{
		session: session,
		ifaces: map[metrics.Side]string{
			metrics.LAN: lanIface,
			metrics.WAN: wanIface,
		},
		sleep: time.Sleep,
	}
}

// Throughput implements metrics.Meter. The figure comes back in Kbps.
func (m *Meter) Throughput(side metrics.Side, interval time.Duration) (metrics.ThroughputSample, error) {
	iface, ok := m.ifaces[side]
	if !ok {
		return metrics.ThroughputSample{}, errors.Errorf("no probe interface for side %q", side)
	}
	if interval <= 0 {
		return metrics.ThroughputSample{}, errors.Errorf("non-positive measurement interval %s", interval)
	}

	before, err := m.readCounter(iface)
	if err != nil {
		return metrics.ThroughputSample{}, err
	}
	m.sleep(interval)
	after, err := m.readCounter(iface)
	if err != nil {
		return metrics.ThroughputSample{}, err
	}

	kbps := float64(after-before) * 8 / interval.Seconds() / 1000
	return metrics.ThroughputSample{Side: side, Value: kbps, Unit: "Kbps"}, nil
}

// readCounter sums the received and transmitted byte counters of iface.
func (m *Meter) readCounter(iface string) (int64, error) {
	command := fmt.Sprintf("cat /sys/class/net/%s/statistics/rx_bytes /sys/class/net/%s/statistics/tx_bytes",
		iface, iface)
	out, err := m.session.Run(command)
	if err != nil {
		return 0, errors.Wrapf(err, "reading byte counters of %s", iface)
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, errors.Errorf("malformed byte counters %q for %s", out, iface)
	}
	total := int64(0)
	for _, field := range fields {
		count, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return 0, errors.Errorf("malformed byte counter %q for %s", field, iface)
		}
		total += count
	}
	return total, nil
}
