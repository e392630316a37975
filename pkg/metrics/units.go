package metrics

import (
	"github.com/pkg/errors"
)

// bitsPerSecond maps a throughput unit name to its factor in bits per second.
// Decimal prefixes, matching what the appliances report.
var bitsPerSecond = map[string]float64{
	"bps":  1,
	"Kbps": 1e3,
	"Mbps": 1e6,
	"Gbps": 1e9,
}

// RateConverter converts throughput figures between the bit-rate units the
// appliances and the independent meter report in.
type RateConverter struct{}

// Convert implements Converter for the bit-rate unit family.
func (RateConverter) Convert(value float64, fromUnit string, toUnit string) (float64, error) {
	if fromUnit == toUnit {
		return value, nil
	}
	from, ok := bitsPerSecond[fromUnit]
	if !ok {
		return 0, errors.Errorf("unknown throughput unit %q", fromUnit)
	}
	to, ok := bitsPerSecond[toUnit]
	if !ok {
		return 0, errors.Errorf("unknown throughput unit %q", toUnit)
	}
	return value * from / to, nil
}
