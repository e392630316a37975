// Package params holds the immutable configuration snapshot of one test run:
// skip flags, impairment settings, traffic leg configurations, timing and the
// tolerance bands the measurements are judged against. The snapshot is loaded
// once before the lifecycle begins and read-only afterwards.
package params

import (
	"time"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/conf"
	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/traffic"
)

var (
	skipConfigureFlag = conf.NewBoolFlag("skip_configure", "Skip feature configuration and reuse whatever the appliances currently run", false)
	skipCleanupFlag   = conf.NewBoolFlag("skip_cleanup", "Leave the appliances configured after the run", false)
	keepStoreFlag     = conf.NewBoolFlag("keep_segstore", "Keep the persistent segment store across appliance restarts", false)
	restoreConfigFlag = conf.NewBoolFlag("restore_config", "Do not snapshot nor roll back appliance configurations", false)
	scanLogsFlag      = conf.NewBoolFlag("scan_logs", "Check the receiving appliance log for records at warning severity or above", true)

	staggerDelayFlag   = conf.NewDurationFlag("stagger_delay", "Delay between starting the first and the second traffic leg", 10*time.Second)
	runDurationFlag    = conf.NewDurationFlag("run_duration", "How long the replication traffic flows before measurement", 5*time.Minute)
	reportIntervalFlag = conf.NewDurationFlag("report_interval", "Reporting interval for throughput and reduction samples", 30*time.Second)

	bdpBytesFlag = conf.NewIntFlag("bdp_bytes", "Bandwidth-delay product of the path in bytes, transport buffers are sized to twice this", 524288)

	impairBandwidthFlag = conf.NewIntFlag("impair_bandwidth_kbps", "WAN bandwidth the impairment devices emulate", 45000)
	impairDelayFlag     = conf.NewDurationFlag("impair_delay", "One-way delay the impairment devices emulate", 40*time.Millisecond)
	impairLossFlag      = conf.NewFloatFlag("impair_loss_pct", "Packet loss percentage the impairment devices emulate", 0)
	impairQueueFlag     = conf.NewIntFlag("impair_queue_len", "Queue length of the impairment devices", 1000)

	tolerancesFileFlag = conf.NewStringFlag("tolerances_file", "YAML file with the tolerance bands of this run", "tolerances.yaml")
)

// Params is the configuration snapshot of one run.
type Params struct {
	// SkipConfigure leaves appliance feature configuration untouched. A
	// skipped configure phase derives no arrays; validation recomputes them.
	SkipConfigure bool
	// SkipCleanup leaves everything configured after the run.
	SkipCleanup bool
	// KeepStore keeps the persistent segment store across restarts. Its
	// negation is passed to every restart as the cache-clear flag.
	KeepStore bool
	// RestoreConfig skips both the pre-test snapshot and the post-test
	// configuration rollback.
	RestoreConfig bool
	// ScanLogs gates the log-severity check of the validation phase.
	ScanLogs bool

	// Impairment is applied to every known impairment device at configure
	// time.
	Impairment device.ImpairmentProfile

	// BDPBytes is the bandwidth-delay product input; transport buffers are
	// sized to twice this value.
	BDPBytes int

	// Legs are the two traffic leg configurations, in start order.
	Legs [2]traffic.LegConfig

	StaggerDelay   time.Duration
	RunDuration    time.Duration
	ReportInterval time.Duration

	// Tolerances are the bands measurements must fall strictly within.
	Tolerances Tolerances
}

// FromFlags builds the run snapshot from the parsed flags, loading the
// tolerance bands from the configured file.
func FromFlags() (Params, error) {
	tolerances, err := LoadTolerances(tolerancesFileFlag.Value())
	if err != nil {
		return Params{}, errors.Wrap(err, "loading tolerance bands")
	}

	return Params{
		SkipConfigure: skipConfigureFlag.Value(),
		SkipCleanup:   skipCleanupFlag.Value(),
		KeepStore:     keepStoreFlag.Value(),
		RestoreConfig: restoreConfigFlag.Value(),
		ScanLogs:      scanLogsFlag.Value(),
		Impairment: device.ImpairmentProfile{
			BandwidthKbps: impairBandwidthFlag.Value(),
			Delay:         impairDelayFlag.Value(),
			LossPercent:   impairLossFlag.Value(),
			QueueLen:      impairQueueFlag.Value(),
		},
		BDPBytes: bdpBytesFlag.Value(),
		Legs: [2]traffic.LegConfig{
			traffic.DefaultLegConfig("Leg1", "leg1"),
			traffic.DefaultLegConfig("Leg2", "leg2"),
		},
		StaggerDelay:   staggerDelayFlag.Value(),
		RunDuration:    runDurationFlag.Value(),
		ReportInterval: reportIntervalFlag.Value(),
		Tolerances:     tolerances,
	}, nil
}
