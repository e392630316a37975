package sinks

import (
	log "github.com/sirupsen/logrus"
)

// Logging is the default sink: it writes every metric to the process log at
// info level. Useful when no metric database is available.
type Logging struct {
	runID string
}

// NewLogging returns a logging sink for the given run id.
func NewLogging(runID string) *Logging {
	return &Logging{runID: runID}
}

// Log implements metrics.Sink.
func (l *Logging) Log(description string, metricType string, unit string, value float64) {
	log.Infof("metric run=%s type=%s %s = %g %s", l.runID, metricType, description, value, unit)
}
