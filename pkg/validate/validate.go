// Package validate judges the collected metrics of a run against the
// configured tolerance bands and the captured log finding. Checks are
// independent: a failed check never stops the remaining ones, every failure
// becomes one Issue, and the run passes iff no issue accumulated.
package validate

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/params"
)

// Kind classifies a validation issue.
type Kind string

const (
	// KindThroughput marks a device-sum vs independent-measurement mismatch.
	KindThroughput Kind = "throughput-difference"
	// KindReduction marks a reduction percentage outside its band.
	KindReduction Kind = "reduction-band"
	// KindLogSeverity marks log records at or above the watched severity.
	KindLogSeverity Kind = "log-severity"
)

// Issue is one failed check. Issues accumulate and are never discarded.
type Issue struct {
	Kind     Kind
	Subject  string
	Measured float64
	Lower    float64
	Upper    float64
	Message  string
}

// Report is the outcome of the validation phase: the accumulated issues plus
// the non-fatal notices of the soft-skip paths.
type Report struct {
	Issues  []Issue
	Notices []string
}

// Passed reports whether the run passed: true iff no issue accumulated.
func (r *Report) Passed() bool {
	return len(r.Issues) == 0
}

func (r *Report) issue(issue Issue) {
	log.Errorf("validation: %s %s: %s", issue.Kind, issue.Subject, issue.Message)
	r.Issues = append(r.Issues, issue)
}

func (r *Report) notice(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Warnf("validation: %s", message)
	r.Notices = append(r.Notices, message)
}

// Input carries everything the engine judges: the independently measured
// aggregate samples, the device-reported bundles per array id, the captured
// log finding and the group count per array.
type Input struct {
	Aggregate   map[metrics.Side]metrics.ThroughputSample
	Bundles     map[string]metrics.Bundle
	Finding     device.Finding
	GroupCounts map[string]int
}

// Engine runs the validation checks of a run.
type Engine struct {
	Sink       metrics.Sink
	Converter  metrics.Converter
	ScanLogs   bool
	Tolerances params.Tolerances
}

// Validate runs every check and returns the accumulated report. All checks
// complete regardless of earlier failures.
func (e *Engine) Validate(input Input) Report {
	report := Report{}

	e.exportSeries(input, &report)
	e.exportAggregates(input, &report)
	sums := e.sumDeviceThroughput(input, &report)
	e.checkThroughput(input, sums, &report)
	e.checkReductions(input, &report)
	e.checkLogFinding(input, &report)

	if report.Passed() {
		log.Infof("validation passed, %d notice(s)", len(report.Notices))
	} else {
		log.Errorf("validation failed with %d issue(s)", len(report.Issues))
	}
	return report
}

// sortedArrayIDs fixes the iteration order over per-array maps.
func sortedArrayIDs(bundles map[string]metrics.Bundle) []string {
	ids := make([]string, 0, len(bundles))
	for id := range bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// labelForIndex names a series element: element 0 is the array total, the
// rest are labeled by their 1-based replication group index.
func labelForIndex(index int) string {
	if index == 0 {
		return "total"
	}
	return fmt.Sprintf("group %d", index)
}

// scopeForIndex classifies a reduction record index into its tolerance scope.
func scopeForIndex(index int) params.Scope {
	switch index {
	case 0:
		return params.ScopeTotal
	case 1:
		return params.ScopeNone
	case 2:
		return params.ScopeLZOnly
	}
	return params.ScopeSDRDefault
}

// exportSeries submits every element of every device-reported series to the
// sink. Metadata-only series are skipped; incomplete elements are a
// warn-skip, not an issue.
func (e *Engine) exportSeries(input Input, report *Report) {
	for _, arrayID := range sortedArrayIDs(input.Bundles) {
		for _, series := range input.Bundles[arrayID].Series {
			if strings.HasPrefix(series.Name, metrics.UnitPrefixMarker) {
				continue
			}
			for index, element := range series.Elements {
				if element.Description == "" || element.Unit == "" || element.Value == nil {
					report.notice("array %s series %s element %d misses description, unit or value, not exported",
						arrayID, series.Name, index)
					continue
				}
				description := fmt.Sprintf("array %s %s %s", arrayID, element.Description, labelForIndex(index))
				e.Sink.Log(description, series.Name, element.Unit, *element.Value)
			}
		}
	}
}

// exportAggregates submits the two independently measured samples.
func (e *Engine) exportAggregates(input Input, report *Report) {
	for _, side := range metrics.Sides {
		sample, ok := input.Aggregate[side]
		if !ok {
			report.notice("no independent %s throughput sample collected", side)
			continue
		}
		e.Sink.Log(fmt.Sprintf("measured %s throughput", side), "throughput", sample.Unit, sample.Value)
	}
}

// sumDeviceThroughput sums the device-reported per-array throughput per side.
// All arrays must report the same unit for a side; a mismatching array is
// excluded from the sum with a notice (same-unit-or-first gate).
func (e *Engine) sumDeviceThroughput(input Input, report *Report) map[metrics.Side]metrics.ThroughputSample {
	sums := map[metrics.Side]metrics.ThroughputSample{}

	for _, side := range metrics.Sides {
		sum := 0.0
		unit := ""
		counted := 0

		for _, arrayID := range sortedArrayIDs(input.Bundles) {
			sample, ok := input.Bundles[arrayID].Throughput[side]
			if !ok {
				report.notice("array %s reported no %s throughput", arrayID, side)
				continue
			}
			if unit == "" {
				unit = sample.Unit
			}
			if sample.Unit != unit {
				report.notice("array %s reports %s throughput in %s, expected %s, excluded from sum",
					arrayID, side, sample.Unit, unit)
				continue
			}
			sum += sample.Value
			counted++
		}

		if counted == 0 {
			continue
		}
		e.Sink.Log(fmt.Sprintf("device reported %s throughput sum", side), "throughput", unit, sum)
		sums[side] = metrics.ThroughputSample{Side: side, Value: sum, Unit: unit}
	}

	return sums
}

// checkThroughput cross-checks the device-reported sum against the
// independently measured value per side. The independent value is converted
// into the sum's unit when the units differ, then the sum must fall strictly
// between lower*value and upper*value.
func (e *Engine) checkThroughput(input Input, sums map[metrics.Side]metrics.ThroughputSample, report *Report) {
	band := e.Tolerances.Throughput

	for _, side := range metrics.Sides {
		independent, ok := input.Aggregate[side]
		if !ok {
			report.notice("throughput cross-check skipped for %s: no independent sample", side)
			continue
		}
		sum, ok := sums[side]
		if !ok {
			report.notice("throughput cross-check skipped for %s: no device reported sum", side)
			continue
		}

		converted := independent.Value
		if independent.Unit != sum.Unit {
			var err error
			converted, err = e.Converter.Convert(independent.Value, independent.Unit, sum.Unit)
			if err != nil {
				report.notice("throughput cross-check skipped for %s: %v", side, err)
				continue
			}
		}

		lower := band.Lower * converted
		upper := band.Upper * converted
		if lower < sum.Value && sum.Value < upper {
			log.Debugf("%s throughput within band: %g < %g %s < %g", side, lower, sum.Value, sum.Unit, upper)
			continue
		}

		report.issue(Issue{
			Kind:     KindThroughput,
			Subject:  string(side),
			Measured: sum.Value,
			Lower:    lower,
			Upper:    upper,
			Message: fmt.Sprintf("device sum %g %s outside (%g, %g) around measured %g %s",
				sum.Value, sum.Unit, lower, upper, independent.Value, independent.Unit),
		})
	}
}

// checkReductions verifies every reduction figure against the band of its
// scope. Indices 0..groupCount are checked inclusively; a missing figure at
// an expected index is a warn-skip, not an issue.
func (e *Engine) checkReductions(input Input, report *Report) {
	arrayIDs := make([]string, 0, len(input.GroupCounts))
	for id := range input.GroupCounts {
		arrayIDs = append(arrayIDs, id)
	}
	sort.Strings(arrayIDs)

	for _, arrayID := range arrayIDs {
		bundle, ok := input.Bundles[arrayID]
		if !ok {
			report.notice("reduction check skipped for array %s: no device bundle collected", arrayID)
			continue
		}

		for index := 0; index <= input.GroupCounts[arrayID]; index++ {
			scope := scopeForIndex(index)
			band, ok := e.Tolerances.Reduction[scope]
			if !ok {
				report.notice("no tolerance band for reduction scope %s", scope)
				continue
			}

			if index >= len(bundle.Reductions) || !bundle.Reductions[index].Valid {
				report.notice("array %s reported no reduction at index %d (%s)", arrayID, index, scope)
				continue
			}

			reduction := bundle.Reductions[index]
			if band.Contains(reduction.Value) {
				log.Debugf("array %s reduction[%d] (%s) within band: %g < %g < %g",
					arrayID, index, scope, band.Lower, reduction.Value, band.Upper)
				continue
			}

			report.issue(Issue{
				Kind:     KindReduction,
				Subject:  fmt.Sprintf("array %s index %d (%s)", arrayID, index, scope),
				Measured: reduction.Value,
				Lower:    band.Lower,
				Upper:    band.Upper,
				Message: fmt.Sprintf("reduction %g %s outside (%g, %g)",
					reduction.Value, reduction.Unit, band.Lower, band.Upper),
			})
		}
	}
}

// checkLogFinding applies the log-severity gate: enabled and non-empty
// finding means exactly one issue carrying the full detail.
func (e *Engine) checkLogFinding(input Input, report *Report) {
	if !e.ScanLogs {
		report.notice("log parsing disabled, no log severity check performed")
		return
	}

	if input.Finding.Empty() {
		return
	}

	report.issue(Issue{
		Kind:     KindLogSeverity,
		Subject:  "receiving optimizer log",
		Measured: float64(len(input.Finding.Lines)),
		Message: fmt.Sprintf("%d record(s) at warning severity or above during traffic window: %s",
			len(input.Finding.Lines), strings.Join(input.Finding.Lines, " | ")),
	})
}
