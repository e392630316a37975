// Package metrics defines the measurement types exchanged between the run's
// collectors, the validation engine and the metric sinks.
package metrics

import (
	"time"
)

// Side distinguishes the two measured directions of an optimized link.
type Side string

const (
	// LAN is the client-facing, unoptimized side.
	LAN Side = "lan"
	// WAN is the optimized side between the intermediaries.
	WAN Side = "wan"
)

// Sides lists both sides in the fixed order measurements are taken.
var Sides = []Side{LAN, WAN}

// UnitPrefixMarker starts the name of metadata-only series which carry units
// for other series instead of measurements of their own. Such series are
// never exported as metrics.
const UnitPrefixMarker = "unit_"

// ThroughputSample is one throughput figure for a side of the link.
type ThroughputSample struct {
	Side  Side
	Value float64
	Unit  string
}

// Reduction is one reduction percentage plus its measurement unit.
type Reduction struct {
	Value float64
	Unit  string
	// Valid is false when the device did not report a figure at this index.
	Valid bool
}

// ReductionRecord is the ordered reduction sequence of one array: index 0 is
// the total reduction across the array, index i (1..N) the reduction of the
// replication group with that index.
type ReductionRecord []Reduction

// Element is one entry of a device-reported metric series.
type Element struct {
	Description string
	Unit        string
	Value       *float64
}

// Series is one device-reported metric series for an array. Element 0 covers
// the array total, elements 1..N the replication groups.
type Series struct {
	Name     string
	Elements []Element
}

// Bundle is the device-reported metrics of one array over a reporting
// interval.
type Bundle struct {
	ArrayID    string
	Throughput map[Side]ThroughputSample
	Reductions ReductionRecord
	Series     []Series
}

// Sink submits one metric to wherever the run's measurements are kept.
// Submission is fire and forget: implementations log failures and never
// surface them to the caller.
type Sink interface {
	Log(description string, metricType string, unit string, value float64)
}

// Converter translates a value between measurement units. It is consulted
// only when independently measured and device-reported units differ.
type Converter interface {
	Convert(value float64, fromUnit string, toUnit string) (float64, error)
}

// Meter measures aggregate link throughput independently of the devices under
// test.
type Meter interface {
	Throughput(side Side, interval time.Duration) (ThroughputSample, error)
}
