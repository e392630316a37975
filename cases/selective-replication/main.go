package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/conf"
	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/device/shell"
	"github.com/optinet/srotest/pkg/lifecycle"
	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/metrics/sinks"
	"github.com/optinet/srotest/pkg/params"
	"github.com/optinet/srotest/pkg/traffic"
	"github.com/optinet/srotest/pkg/utils/errutil"
	"github.com/optinet/srotest/pkg/validate"
)

// newLeg builds one replgen traffic leg running on the client host behind
// role.
func newLeg(resolver *shell.Resolver, role device.Role, prefix, name string) traffic.Leg {
	endpoint, err := resolver.Endpoint(role)
	errutil.CheckWithContext(err, "resolving traffic source")

	exec, err := shell.RemoteExecutor(endpoint.Address)
	errutil.CheckWithContext(err, fmt.Sprintf("connecting to %s", endpoint.Address))

	return traffic.NewReplgen(traffic.NewExecRunner(exec), traffic.DefaultReplgenConfig(prefix, name))
}

func printReport(report *validate.Report) {
	if len(report.Issues) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Check", "Subject", "Measured", "Allowed", "Detail"})
		for _, issue := range report.Issues {
			allowed := fmt.Sprintf("(%g, %g)", issue.Lower, issue.Upper)
			if issue.Kind == validate.KindLogSeverity {
				allowed = "none"
			}
			table.Append([]string{
				string(issue.Kind),
				issue.Subject,
				fmt.Sprintf("%g", issue.Measured),
				allowed,
				issue.Message,
			})
		}
		table.Render()
	}

	for _, notice := range report.Notices {
		fmt.Printf("notice: %s\n", notice)
	}
}

// Check README.md for the testbed layout this case expects.
func main() {
	conf.SetAppName("selective-replication")
	conf.SetHelp(`Selective replication optimization test case.
It configures per-RDF-group optimization policies on a pair of appliances, drives two staggered bulk replication legs across the impaired WAN, and judges the appliance-reported throughput and reduction figures against configured tolerance bands.`)

	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	runID := uuid.New().String()
	logrus.Infof("starting run %s", runID)

	sink, err := sinks.NewDefault(runID)
	errutil.CheckWithContext(err, "initializing metric sink")

	runParams, err := params.FromFlags()
	errutil.CheckWithContext(err, "loading run parameters")

	resolver := shell.NewResolver(shell.SSHSessions)

	impairers, err := resolver.Impairers()
	errutil.CheckWithContext(err, "connecting to WAN emulation")

	meter, err := resolver.Meter()
	errutil.CheckWithContext(err, "connecting to throughput probe")

	controller := lifecycle.New(runParams, lifecycle.Deps{
		Resolver:  resolver,
		Impairers: impairers,
		Legs: [2]traffic.Leg{
			newLeg(resolver, device.RoleClient1, "Leg1", "leg1"),
			newLeg(resolver, device.RoleClient2, "Leg2", "leg2"),
		},
		Meter:       meter,
		Sink:        sink,
		Converter:   metrics.RateConverter{},
		BaseCleanup: func() { sinks.Close(sink) },
	})

	report, err := controller.Execute()
	errutil.CheckWithContext(err, "executing run")

	printReport(report)
	if !report.Passed() {
		logrus.Errorf("run %s failed with %d issue(s)", runID, len(report.Issues))
		os.Exit(1)
	}
	logrus.Infof("run %s passed", runID)
}
