// Package sinks provides the metric sink backends a test case can submit its
// measurements to: plain logging, InfluxDB or Cassandra. The backend is
// selected with the metric_db flag.
package sinks

import (
	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/conf"
	"github.com/optinet/srotest/pkg/metrics"
)

// NewDefault initializes the sink selected by the metric_db flag. Every
// submitted metric is tagged with the given run id.
func NewDefault(runID string) (metrics.Sink, error) {
	switch conf.MetricDB.Value() {
	case "log":
		return NewLogging(runID), nil
	case "influxdb":
		return NewInfluxDB(runID, DefaultInfluxDBConfig())
	case "cassandra":
		return NewCassandra(runID, DefaultCassandraConfig())
	}

	return nil, errors.Errorf("unsupported metric database: %s", conf.MetricDB.Value())
}

// Close releases the backend connection of sink, when it holds one.
func Close(sink metrics.Sink) {
	switch backend := sink.(type) {
	case *InfluxDB:
		backend.Close()
	case *Cassandra:
		backend.Close()
	}
}
