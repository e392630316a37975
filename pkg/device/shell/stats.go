package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/metrics"
)

type statsProvider struct {
	session Session
}

// ArrayBundle reads and parses the per-array statistics of the appliance.
// The report is line oriented: `<key> (<unit>): <values>`, where reduction
// and series lines carry one value per replication group behind the array
// total, with `-` marking a figure the appliance did not compute.
func (s statsProvider) ArrayBundle(arrayID string, interval time.Duration) (metrics.Bundle, error) {
	command := fmt.Sprintf("show stats protocol srdf symm id %s interval %d",
		arrayID, int(interval.Seconds()))
	out, err := s.session.Run(command)
	if err != nil {
		return metrics.Bundle{}, errors.Wrapf(err, "reading statistics of array %s", arrayID)
	}
	return parseBundle(arrayID, out)
}

func parseBundle(arrayID string, report string) (metrics.Bundle, error) {
	bundle := metrics.Bundle{
		ArrayID:    arrayID,
		Throughput: map[metrics.Side]metrics.ThroughputSample{},
	}

	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, unit, values, err := splitStatsLine(line)
		if err != nil {
			return metrics.Bundle{}, err
		}

		switch {
		case key == "Symm ID":
			if values != arrayID {
				return metrics.Bundle{}, errors.Errorf(
					"statistics report array %s, requested %s", values, arrayID)
			}
		case key == "LAN Throughput":
			sample, err := parseThroughput(metrics.LAN, unit, values)
			if err != nil {
				return metrics.Bundle{}, err
			}
			bundle.Throughput[metrics.LAN] = sample
		case key == "WAN Throughput":
			sample, err := parseThroughput(metrics.WAN, unit, values)
			if err != nil {
				return metrics.Bundle{}, err
			}
			bundle.Throughput[metrics.WAN] = sample
		case key == "Reduction":
			reductions, err := parseReductions(unit, values)
			if err != nil {
				return metrics.Bundle{}, err
			}
			bundle.Reductions = reductions
		case strings.HasPrefix(key, "Series "):
			name := strings.TrimPrefix(key, "Series ")
			series, err := parseSeries(name, unit, values)
			if err != nil {
				return metrics.Bundle{}, err
			}
			bundle.Series = append(bundle.Series, series)
		}
	}

	return bundle, nil
}

// splitStatsLine takes `<key> (<unit>): <values>` apart. The unit is
// optional.
func splitStatsLine(line string) (key, unit, values string, err error) {
	head, rest, found := strings.Cut(line, ":")
	if !found {
		return "", "", "", errors.Errorf("malformed statistics line %q", line)
	}

	key = strings.TrimSpace(head)
	if open := strings.Index(key, "("); open >= 0 && strings.HasSuffix(key, ")") {
		unit = key[open+1 : len(key)-1]
		key = strings.TrimSpace(key[:open])
	}
	return key, unit, strings.TrimSpace(rest), nil
}

func parseThroughput(side metrics.Side, unit, value string) (metrics.ThroughputSample, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return metrics.ThroughputSample{}, errors.Errorf("malformed %s throughput %q", side, value)
	}
	return metrics.ThroughputSample{Side: side, Value: parsed, Unit: unit}, nil
}

func parseReductions(unit, values string) (metrics.ReductionRecord, error) {
	var record metrics.ReductionRecord
	for _, field := range strings.Fields(values) {
		if field == "-" {
			record = append(record, metrics.Reduction{Valid: false})
			continue
		}
		parsed, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Errorf("malformed reduction figure %q", field)
		}
		record = append(record, metrics.Reduction{Value: parsed, Unit: unit, Valid: true})
	}
	return record, nil
}

func parseSeries(name, unit, values string) (metrics.Series, error) {
	series := metrics.Series{Name: name}
	description := strings.ReplaceAll(name, "_", " ")

	for _, field := range strings.Fields(values) {
		if field == "-" {
			series.Elements = append(series.Elements, metrics.Element{})
			continue
		}
		parsed, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return metrics.Series{}, errors.Errorf("malformed %s figure %q", name, field)
		}
		value := parsed
		series.Elements = append(series.Elements, metrics.Element{
			Description: description,
			Unit:        unit,
			Value:       &value,
		})
	}
	return series, nil
}
