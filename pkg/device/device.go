// Package device models the narrow capabilities the test lifecycle needs from
// the appliances and endpoints of the testbed. Implementations wrap the real
// command channels; the mocks subpackage carries testify doubles for the test
// suite.
package device

import (
	"time"

	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/policy"
)

// Role names one resource of the testbed resource set.
type Role string

const (
	// RoleClient1 and RoleClient2 drive the two replication streams.
	RoleClient1 Role = "client1"
	// RoleClient2 is the second traffic source.
	RoleClient2 Role = "client2"
	// RoleServer1 and RoleServer2 terminate the two replication streams.
	RoleServer1 Role = "server1"
	// RoleServer2 is the second traffic target.
	RoleServer2 Role = "server2"
	// RoleSendingOptimizer is the intermediary on the traffic-sending site.
	RoleSendingOptimizer Role = "optimizer-tx"
	// RoleReceivingOptimizer is the intermediary on the traffic-receiving
	// site. The log watch point is placed here.
	RoleReceivingOptimizer Role = "optimizer-rx"
)

// Endpoint is one addressable test resource.
type Endpoint struct {
	Name    string
	Address string
}

// Resolver looks up testbed resources by role. A missing required role is
// fatal to the phase requesting it.
type Resolver interface {
	Endpoint(role Role) (Endpoint, error)
	Intermediary(role Role) (Intermediary, error)
}

// Intermediary is one optimizing appliance in the traffic path.
type Intermediary interface {
	Name() string
	Config() ConfigManager
	Optimizer() Optimizer
	Shaper() Shaper
	// Balancer returns the multi-core balancing feature handle. The handle
	// may be unobtainable on some models, which is fatal to cleanup.
	Balancer() (Balancer, error)
	Stats() StatsProvider
	Logs() LogWatcher
}

// ConfigManager manages an intermediary's named configurations and applies
// run-wide transport settings.
type ConfigManager interface {
	// Active returns the name of the currently active configuration.
	Active() (string, error)
	// Save snapshots the active configuration under the given name.
	Save(name string) error
	// SwitchTo makes the named configuration active.
	SwitchTo(name string) error
	// Delete removes the named configuration.
	Delete(name string) error
	// Copy duplicates the configuration src under the name dst.
	Copy(src, dst string) error
	// ApplyTransport sets the transport buffer size in bytes.
	ApplyTransport(bufferBytes int) error
	// Restart applies pending configuration. When clearStore is true the
	// persistent segment store is wiped as part of the restart.
	Restart(clearStore bool) error
}

// Optimizer is the selective replication optimization feature of an
// intermediary.
type Optimizer interface {
	AddPort(port int) error
	AddRule(arrayID string, group int, kind policy.Kind) error
	Enable() error
	Disable() error
}

// Shaper controls the advanced traffic shaping of an intermediary. Reverting
// to basic shaping is a two step protocol: initiate, then confirm.
type Shaper interface {
	RevertInitiate() error
	RevertConfirm() error
}

// Balancer is the multi-core balancing setting of an intermediary.
type Balancer interface {
	SetMultiCore(enabled bool) error
}

// StatsProvider reads device-reported per-array metrics.
type StatsProvider interface {
	ArrayBundle(arrayID string, interval time.Duration) (metrics.Bundle, error)
}

// Severity grades device log records.
type Severity int

const (
	// SeverityWarning is the lowest severity the log gate cares about.
	SeverityWarning Severity = iota
	// SeverityError marks failed operations.
	SeverityError
	// SeverityCritical marks records which usually precede an outage.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Finding is the result of a severity scan over a device log window.
type Finding struct {
	// Lines holds every record at or above the scanned severity.
	Lines []string
}

// Empty reports whether the scan found no records.
func (f Finding) Empty() bool {
	return len(f.Lines) == 0
}

// LogWatcher marks a point in an intermediary's log and scans everything
// after the mark for records at or above a minimum severity.
type LogWatcher interface {
	Mark() error
	FindingsSince(min Severity) (Finding, error)
}

// ImpairmentProfile is one bandwidth/delay/loss/queue setting of a network
// impairment device.
type ImpairmentProfile struct {
	BandwidthKbps int
	Delay         time.Duration
	LossPercent   float64
	QueueLen      int
}

// DefaultImpairment is the profile every known impairment device is restored
// to during cleanup.
func DefaultImpairment() ImpairmentProfile {
	return ImpairmentProfile{
		BandwidthKbps: 1000000,
		Delay:         0,
		LossPercent:   0,
		QueueLen:      1000,
	}
}

// Impairer programs one network impairment device in the traffic path.
type Impairer interface {
	Name() string
	Apply(profile ImpairmentProfile) error
	RestoreDefaults() error
}
