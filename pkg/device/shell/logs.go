package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/optinet/srotest/pkg/device"
)

// logWatcher marks and scans an appliance system log. Appliance log lines
// carry their severity as a bracketed `[<facility>.<LEVEL>]` field.
type logWatcher struct {
	session Session
	path    string
	mark    int
	marked  bool
}

func (w *logWatcher) Mark() error {
	out, err := w.session.Run(fmt.Sprintf("wc -l < %s", w.path))
	if err != nil {
		return errors.Wrapf(err, "counting lines of %s", w.path)
	}
	lines, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return errors.Errorf("malformed line count %q for %s", strings.TrimSpace(out), w.path)
	}
	w.mark = lines
	w.marked = true
	return nil
}

func (w *logWatcher) FindingsSince(min device.Severity) (device.Finding, error) {
	if !w.marked {
		return device.Finding{}, errors.New("log was never marked")
	}

	out, err := w.session.Run(fmt.Sprintf("tail -n +%d %s", w.mark+1, w.path))
	if err != nil {
		return device.Finding{}, errors.Wrapf(err, "reading %s past line %d", w.path, w.mark)
	}

	finding := device.Finding{}
	for _, line := range strings.Split(out, "\n") {
		severity, ok := severityOf(line)
		if ok && severity >= min {
			finding.Lines = append(finding.Lines, line)
		}
	}
	return finding, nil
}

func severityOf(line string) (device.Severity, bool) {
	switch {
	case strings.Contains(line, ".CRIT]"):
		return device.SeverityCritical, true
	case strings.Contains(line, ".ERR]"):
		return device.SeverityError, true
	case strings.Contains(line, ".WARN]"):
		return device.SeverityWarning, true
	}
	return 0, false
}
