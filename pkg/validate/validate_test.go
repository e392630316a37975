package validate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/params"
)

type recordedMetric struct {
	description string
	metricType  string
	unit        string
	value       float64
}

type recordingSink struct {
	entries []recordedMetric
}

func (r *recordingSink) Log(description, metricType, unit string, value float64) {
	r.entries = append(r.entries, recordedMetric{description, metricType, unit, value})
}

func floatPtr(value float64) *float64 {
	return &value
}

func testTolerances() params.Tolerances {
	return params.Tolerances{
		Throughput: params.Band{Lower: 0.9, Upper: 1.0},
		Reduction: map[params.Scope]params.Band{
			params.ScopeTotal:      {Lower: 10, Upper: 90},
			params.ScopeNone:       {Lower: 0, Upper: 10},
			params.ScopeLZOnly:     {Lower: 20, Upper: 60},
			params.ScopeSDRDefault: {Lower: 40, Upper: 95},
		},
	}
}

func newEngine(sink metrics.Sink) *Engine {
	return &Engine{
		Sink:       sink,
		Converter:  metrics.RateConverter{},
		ScanLogs:   true,
		Tolerances: testTolerances(),
	}
}

func bundleWithThroughput(arrayID string, lan, wan float64, unit string) metrics.Bundle {
	return metrics.Bundle{
		ArrayID: arrayID,
		Throughput: map[metrics.Side]metrics.ThroughputSample{
			metrics.LAN: {Side: metrics.LAN, Value: lan, Unit: unit},
			metrics.WAN: {Side: metrics.WAN, Value: wan, Unit: unit},
		},
	}
}

func TestThroughputCrossCheck(t *testing.T) {
	Convey("With a validation engine over a (0.9, 1.0) throughput band", t, func() {
		sink := &recordingSink{}
		engine := newEngine(sink)

		aggregate := map[metrics.Side]metrics.ThroughputSample{
			metrics.LAN: {Side: metrics.LAN, Value: 100, Unit: "Mbps"},
			metrics.WAN: {Side: metrics.WAN, Value: 100, Unit: "Mbps"},
		}

		Convey("a device sum inside the band passes", func() {
			input := Input{
				Aggregate: aggregate,
				Bundles: map[string]metrics.Bundle{
					"3700000037": bundleWithThroughput("3700000037", 95, 95, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("a device sum above the band fails on both sides", func() {
			input := Input{
				Aggregate: aggregate,
				Bundles: map[string]metrics.Bundle{
					"3700000037": bundleWithThroughput("3700000037", 105, 105, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeFalse)
			So(len(report.Issues), ShouldEqual, 2)
			So(report.Issues[0].Kind, ShouldEqual, KindThroughput)
			So(report.Issues[1].Kind, ShouldEqual, KindThroughput)
		})

		Convey("the band bounds are exclusive", func() {
			input := Input{
				Aggregate: aggregate,
				Bundles: map[string]metrics.Bundle{
					"3700000037": bundleWithThroughput("3700000037", 100, 90, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(len(report.Issues), ShouldEqual, 2)
		})

		Convey("per-side sums span the arrays", func() {
			input := Input{
				Aggregate: aggregate,
				Bundles: map[string]metrics.Bundle{
					"2500000025": bundleWithThroughput("2500000025", 48, 46, "Mbps"),
					"3700000037": bundleWithThroughput("3700000037", 47, 49, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("the independent sample is converted into the device unit", func() {
			input := Input{
				Aggregate: map[metrics.Side]metrics.ThroughputSample{
					metrics.LAN: {Side: metrics.LAN, Value: 0.1, Unit: "Gbps"},
					metrics.WAN: {Side: metrics.WAN, Value: 100000, Unit: "Kbps"},
				},
				Bundles: map[string]metrics.Bundle{
					"3700000037": bundleWithThroughput("3700000037", 95, 95, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("an array reporting a mismatching unit is excluded with a notice", func() {
			input := Input{
				Aggregate: aggregate,
				Bundles: map[string]metrics.Bundle{
					"2500000025": bundleWithThroughput("2500000025", 95, 95, "Mbps"),
					"3700000037": bundleWithThroughput("3700000037", 95, 95, "Gbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
			So(len(report.Notices), ShouldBeGreaterThan, 0)
		})

		Convey("a missing independent sample is a notice, not an issue", func() {
			input := Input{
				Bundles: map[string]metrics.Bundle{
					"3700000037": bundleWithThroughput("3700000037", 95, 95, "Mbps"),
				},
			}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
			So(len(report.Notices), ShouldBeGreaterThan, 0)
		})
	})
}

func TestReductionCheck(t *testing.T) {
	Convey("With a validation engine and an array carrying two groups", t, func() {
		sink := &recordingSink{}
		engine := newEngine(sink)

		makeInput := func(reductions []metrics.Reduction) Input {
			bundle := bundleWithThroughput("2500000025", 95, 95, "Mbps")
			bundle.Reductions = reductions
			return Input{
				Aggregate: map[metrics.Side]metrics.ThroughputSample{
					metrics.LAN: {Side: metrics.LAN, Value: 100, Unit: "Mbps"},
					metrics.WAN: {Side: metrics.WAN, Value: 100, Unit: "Mbps"},
				},
				Bundles:     map[string]metrics.Bundle{"2500000025": bundle},
				GroupCounts: map[string]int{"2500000025": 2},
			}
		}

		Convey("figures inside every band pass", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 50, Unit: "%", Valid: true},
				{Value: 5, Unit: "%", Valid: true},
				{Value: 40, Unit: "%", Valid: true},
			}))
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("a figure outside its scope band is one issue", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 50, Unit: "%", Valid: true},
				{Value: 15, Unit: "%", Valid: true},
				{Value: 40, Unit: "%", Valid: true},
			}))
			So(report.Passed(), ShouldBeFalse)
			So(len(report.Issues), ShouldEqual, 1)
			So(report.Issues[0].Kind, ShouldEqual, KindReduction)
			So(report.Issues[0].Subject, ShouldContainSubstring, "none")
		})

		Convey("a figure exactly on a bound fails", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 90, Unit: "%", Valid: true},
				{Value: 5, Unit: "%", Valid: true},
				{Value: 40, Unit: "%", Valid: true},
			}))
			So(len(report.Issues), ShouldEqual, 1)
		})

		Convey("a missing figure at an expected index is a notice", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 50, Unit: "%", Valid: true},
				{Value: 5, Unit: "%", Valid: true},
			}))
			So(report.Passed(), ShouldBeTrue)
			So(len(report.Notices), ShouldBeGreaterThan, 0)
		})

		Convey("an invalid figure is a notice, not an issue", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 50, Unit: "%", Valid: true},
				{Valid: false},
				{Value: 40, Unit: "%", Valid: true},
			}))
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("every failing figure is reported, never only the first", func() {
			report := engine.Validate(makeInput([]metrics.Reduction{
				{Value: 95, Unit: "%", Valid: true},
				{Value: 15, Unit: "%", Valid: true},
				{Value: 10, Unit: "%", Valid: true},
			}))
			So(len(report.Issues), ShouldEqual, 3)
		})
	})
}

func TestLogSeverityGate(t *testing.T) {
	Convey("With a validation engine", t, func() {
		sink := &recordingSink{}
		engine := newEngine(sink)

		input := Input{
			Aggregate: map[metrics.Side]metrics.ThroughputSample{
				metrics.LAN: {Side: metrics.LAN, Value: 100, Unit: "Mbps"},
				metrics.WAN: {Side: metrics.WAN, Value: 100, Unit: "Mbps"},
			},
			Bundles: map[string]metrics.Bundle{
				"3700000037": bundleWithThroughput("3700000037", 95, 95, "Mbps"),
			},
		}

		Convey("a non-empty finding is exactly one issue", func() {
			input.Finding = device.Finding{Lines: []string{
				"WARN segstore nearing capacity",
				"ERROR replication peer timeout",
			}}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeFalse)
			So(len(report.Issues), ShouldEqual, 1)
			So(report.Issues[0].Kind, ShouldEqual, KindLogSeverity)
			So(report.Issues[0].Measured, ShouldEqual, 2)
			So(report.Issues[0].Message, ShouldContainSubstring, "replication peer timeout")
		})

		Convey("an empty finding adds nothing", func() {
			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
		})

		Convey("a disabled scan adds a notice instead of a check", func() {
			engine.ScanLogs = false
			input.Finding = device.Finding{Lines: []string{"ERROR replication peer timeout"}}

			report := engine.Validate(input)
			So(report.Passed(), ShouldBeTrue)
			So(report.Notices, ShouldContain, "log parsing disabled, no log severity check performed")
		})
	})
}

func TestMetricExport(t *testing.T) {
	Convey("With a validation engine over a bundle carrying series", t, func() {
		sink := &recordingSink{}
		engine := newEngine(sink)

		bundle := bundleWithThroughput("3700000037", 95, 95, "Mbps")
		bundle.Series = []metrics.Series{
			{
				Name: "compression_ratio",
				Elements: []metrics.Element{
					{Description: "compression ratio", Unit: "ratio", Value: floatPtr(2.5)},
					{Description: "compression ratio", Unit: "ratio", Value: floatPtr(1.0)},
					{Description: "compression ratio", Unit: "ratio", Value: nil},
				},
			},
			{
				Name: metrics.UnitPrefixMarker + "labels",
				Elements: []metrics.Element{
					{Description: "should never export", Unit: "n/a", Value: floatPtr(1)},
				},
			},
		}

		input := Input{
			Aggregate: map[metrics.Side]metrics.ThroughputSample{
				metrics.LAN: {Side: metrics.LAN, Value: 100, Unit: "Mbps"},
				metrics.WAN: {Side: metrics.WAN, Value: 100, Unit: "Mbps"},
			},
			Bundles: map[string]metrics.Bundle{"3700000037": bundle},
		}

		report := engine.Validate(input)

		Convey("complete elements are exported with total and group labels", func() {
			descriptions := []string{}
			for _, entry := range sink.entries {
				descriptions = append(descriptions, entry.description)
			}
			So(descriptions, ShouldContain, "array 3700000037 compression ratio total")
			So(descriptions, ShouldContain, "array 3700000037 compression ratio group 1")
		})

		Convey("metadata series are skipped silently", func() {
			for _, entry := range sink.entries {
				So(entry.description, ShouldNotContainSubstring, "should never export")
			}
		})

		Convey("an incomplete element is a notice, not an issue", func() {
			So(report.Passed(), ShouldBeTrue)
			So(len(report.Notices), ShouldBeGreaterThan, 0)
		})

		Convey("the independent samples and device sums are exported too", func() {
			descriptions := []string{}
			for _, entry := range sink.entries {
				descriptions = append(descriptions, entry.description)
			}
			So(descriptions, ShouldContain, "measured lan throughput")
			So(descriptions, ShouldContain, "measured wan throughput")
			So(descriptions, ShouldContain, "device reported lan throughput sum")
			So(descriptions, ShouldContain, "device reported wan throughput sum")
		})
	})
}
