package traffic

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/utils/errcollection"
)

// Orchestrator drives exactly two traffic legs. The two-leg assumption is
// load bearing: leg 1 always starts strictly before leg 2 and the stop order
// mirrors the start order.
type Orchestrator struct {
	first   Leg
	second  Leg
	stagger time.Duration
	runFor  time.Duration

	sleep Sleeper
}

// NewOrchestrator returns an orchestrator for the two legs of a run.
func NewOrchestrator(first, second Leg, stagger, runFor time.Duration) *Orchestrator {
	return &Orchestrator{
		first:   first,
		second:  second,
		stagger: stagger,
		runFor:  runFor,
		sleep:   time.Sleep,
	}
}

// SetSleeper replaces the blocking waits, for tests that run without
// wall-clock delays.
func (o *Orchestrator) SetSleeper(sleep Sleeper) {
	o.sleep = sleep
}

// StartAll starts leg 1, waits the staggered-start delay, then starts leg 2.
// Both legs run concurrently afterwards. A start failure is fatal.
func (o *Orchestrator) StartAll() error {
	log.Debugf("starting traffic leg %s", o.first.Config().Name)
	if err := o.first.Start(); err != nil {
		return errors.Wrapf(err, "starting leg %s", o.first.Config().Name)
	}

	log.Debugf("waiting %s before starting second leg", o.stagger)
	o.sleep(o.stagger)

	log.Debugf("starting traffic leg %s", o.second.Config().Name)
	if err := o.second.Start(); err != nil {
		return errors.Wrapf(err, "starting leg %s", o.second.Config().Name)
	}

	return nil
}

// WaitRun blocks for the full run duration. This is the single wait of a run;
// measurement happens after it, while both legs are still flowing.
func (o *Orchestrator) WaitRun() {
	log.Debugf("traffic running for %s", o.runFor)
	o.sleep(o.runFor)
}

// StopAll stops leg 1 then leg 2. Stop failures are logged and collected,
// never fatal to the run.
func (o *Orchestrator) StopAll() error {
	var errs errcollection.ErrorCollection

	for _, leg := range []Leg{o.first, o.second} {
		if err := leg.Stop(); err != nil {
			log.Warnf("stopping leg %s failed: %v", leg.Config().Name, err)
			errs.Add(errors.Wrapf(err, "stopping leg %s", leg.Config().Name))
		}
	}

	return errs.GetErrIfAny()
}
