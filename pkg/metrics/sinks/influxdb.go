package sinks

import (
	"fmt"
	"time"

	"github.com/influxdata/influxdb/client/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/conf"
)

const influxMeasurement = "test_metrics"

// InfluxDBConfig holds configuration for InfluxDB.
type InfluxDBConfig struct {
	httpConfig client.HTTPConfig
	dbName     string
}

// DefaultInfluxDBConfig applies the InfluxDB settings from the command line
// flags and environment variables.
func DefaultInfluxDBConfig() InfluxDBConfig {
	return InfluxDBConfig{
		dbName: conf.InfluxDBName.Value(),
		httpConfig: client.HTTPConfig{
			Addr:               fmt.Sprintf("http://%s:%d", conf.InfluxDBAddress.Value(), conf.InfluxDBPort.Value()),
			Username:           conf.InfluxDBUsername.Value(),
			Password:           conf.InfluxDBPassword.Value(),
			InsecureSkipVerify: conf.InfluxDBInsecureSkipVerify.Value(),
		},
	}
}

// InfluxDB is a sink which keeps an InfluxDB session alive and writes one
// point per submitted metric, tagged with the run id.
type InfluxDB struct {
	runID   string
	config  InfluxDBConfig
	session client.Client
}

// NewInfluxDB returns an InfluxDB sink from a run id and configuration.
func NewInfluxDB(runID string, config InfluxDBConfig) (*InfluxDB, error) {
	sink := &InfluxDB{
		runID:  runID,
		config: config,
	}

	var err error
	sink.session, err = client.NewHTTPClient(config.httpConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create influx client for run %s", runID)
	}

	response, err := sink.session.Query(client.Query{
		Command: fmt.Sprintf("CREATE DATABASE %s", config.dbName),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create influx database for run %s", runID)
	}
	if response.Error() != nil {
		return nil, errors.Wrapf(response.Error(), "response contains error for run %s", runID)
	}

	return sink, nil
}

// Log implements metrics.Sink. Failures are logged and swallowed.
func (s *InfluxDB) Log(description string, metricType string, unit string, value float64) {
	batchPoints, err := client.NewBatchPoints(client.BatchPointsConfig{Database: s.config.dbName})
	if err != nil {
		log.Warnf("influxdb sink: creating batch points failed: %v", err)
		return
	}

	tags := map[string]string{
		"run_id": s.runID,
		"type":   metricType,
		"unit":   unit,
	}
	fields := map[string]interface{}{
		"description": description,
		"value":       value,
	}

	point, err := client.NewPoint(influxMeasurement, tags, fields, time.Now())
	if err != nil {
		log.Warnf("influxdb sink: creating point for %q failed: %v", description, err)
		return
	}
	batchPoints.AddPoint(point)

	if err := s.session.Write(batchPoints); err != nil {
		log.Warnf("influxdb sink: publishing %q failed: %v", description, err)
	}
}

// Close releases the underlying HTTP client.
func (s *InfluxDB) Close() error {
	return s.session.Close()
}
