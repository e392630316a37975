// Package lifecycle drives a selective replication optimization run through
// its four phases: configure the appliances, execute the traffic window,
// validate the collected measurements and clean the testbed up again. The
// controller owns the phase ordering and the skip and rollback semantics;
// everything it touches on the testbed goes through the narrow device
// capability interfaces.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/device"
	"github.com/optinet/srotest/pkg/metrics"
	"github.com/optinet/srotest/pkg/params"
	"github.com/optinet/srotest/pkg/policy"
	"github.com/optinet/srotest/pkg/traffic"
	"github.com/optinet/srotest/pkg/utils/errcollection"
	"github.com/optinet/srotest/pkg/validate"
)

// backupSuffix names the configuration snapshot taken before the run.
const backupSuffix = "-sro-backup"

// intermediaryRoles lists the appliances in the traffic path, sending site
// first.
var intermediaryRoles = []device.Role{
	device.RoleSendingOptimizer,
	device.RoleReceivingOptimizer,
}

// endpointRoles lists the traffic endpoints a run needs, in leg order.
var endpointRoles = []device.Role{
	device.RoleClient1,
	device.RoleServer1,
	device.RoleClient2,
	device.RoleServer2,
}

// Deps are the collaborators a run is wired with.
type Deps struct {
	// Resolver looks up testbed resources by role.
	Resolver device.Resolver
	// Impairers are the known network impairment devices in the path. An
	// empty list is tolerated with a warning during cleanup.
	Impairers []device.Impairer
	// Legs are the two traffic legs, in start order.
	Legs [2]traffic.Leg
	// Meter measures aggregate throughput independently of the appliances.
	Meter metrics.Meter
	// Sink receives every collected metric.
	Sink metrics.Sink
	// Converter translates between throughput units during validation.
	Converter metrics.Converter
	// BaseCleanup runs at the very end of every cleanup, even a skipped
	// one. The hook detaches run-independent teardown from the skip flag.
	BaseCleanup func()
}

// snapshot records the configuration state of one intermediary before the
// run modified it.
type snapshot struct {
	active string
	backup string
}

// Controller executes one run. It is single use: a second Execute on the
// same controller fails the state checks.
type Controller struct {
	params params.Params
	deps   Deps
	state  State

	plan        *policy.Plan
	planNotices []policy.Notice
	snapshots   map[string]snapshot

	aggregate map[metrics.Side]metrics.ThroughputSample
	bundles   map[string]metrics.Bundle
	finding   device.Finding

	sleep traffic.Sleeper
}

// New returns a controller for one run with the given snapshot of run
// parameters.
func New(runParams params.Params, deps Deps) *Controller {
	return &Controller{
		params:    runParams,
		deps:      deps,
		state:     Idle,
		snapshots: map[string]snapshot{},
		aggregate: map[metrics.Side]metrics.ThroughputSample{},
		bundles:   map[string]metrics.Bundle{},
		sleep:     time.Sleep,
	}
}

// State returns the run's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) require(expected State, phase string) error {
	if c.state != expected {
		return errors.Errorf("cannot %s in state %q, expected %q", phase, c.state, expected)
	}
	return nil
}

// derivePlan resolves the peer array addresses and derives the policy plan
// from the two leg configurations. A lookup failure is fatal.
func (c *Controller) derivePlan() error {
	serverRoles := map[string]device.Role{
		c.params.Legs[0].Name: device.RoleServer1,
		c.params.Legs[1].Name: device.RoleServer2,
	}

	legs := []policy.Leg{
		{Name: c.params.Legs[0].Name, RDFSpec: c.params.Legs[0].RDFSpec},
		{Name: c.params.Legs[1].Name, RDFSpec: c.params.Legs[1].RDFSpec},
	}

	plan, notices, err := policy.Derive(legs, func(leg policy.Leg) (string, error) {
		endpoint, err := c.deps.Resolver.Endpoint(serverRoles[leg.Name])
		if err != nil {
			return "", err
		}
		return endpoint.Address, nil
	})
	if err != nil {
		return errors.Wrap(err, "deriving policy plan")
	}

	c.plan = plan
	c.planNotices = notices
	for _, array := range plan.Arrays {
		log.Infof("array %s at %s with %d RDF group(s)", array.ID, array.Address, array.RDFGroups)
	}
	return nil
}

// Configure prepares the appliances for the run: configuration snapshots,
// transport buffer sizing, path impairment, optimization rules per derived
// policy assignment. With SkipConfigure the snapshot is still taken so
// cleanup can roll back, but feature configuration stays untouched.
func (c *Controller) Configure() error {
	if err := c.require(Idle, "configure"); err != nil {
		return err
	}

	intermediaries := make([]device.Intermediary, 0, len(intermediaryRoles))
	for _, role := range intermediaryRoles {
		intermediary, err := c.deps.Resolver.Intermediary(role)
		if err != nil {
			return errors.Wrapf(err, "resolving intermediary %q", role)
		}
		intermediaries = append(intermediaries, intermediary)
	}

	if !c.params.RestoreConfig {
		for _, intermediary := range intermediaries {
			if err := c.takeSnapshot(intermediary); err != nil {
				return err
			}
		}
	}

	if c.params.SkipConfigure {
		log.Info("configure skipped, appliances keep their current configuration")
		c.state = Configured
		return nil
	}

	for _, role := range endpointRoles {
		if _, err := c.deps.Resolver.Endpoint(role); err != nil {
			return errors.Wrapf(err, "resolving endpoint %q", role)
		}
	}

	if err := c.derivePlan(); err != nil {
		return err
	}

	bufferBytes := 2 * c.params.BDPBytes
	for _, intermediary := range intermediaries {
		if err := intermediary.Config().ApplyTransport(bufferBytes); err != nil {
			log.Warnf("%s: applying transport buffer of %d bytes failed: %v",
				intermediary.Name(), bufferBytes, err)
		}
	}

	for _, impairer := range c.deps.Impairers {
		if err := impairer.Apply(c.params.Impairment); err != nil {
			log.Warnf("applying impairment profile on %s failed: %v", impairer.Name(), err)
		}
	}

	for _, intermediary := range intermediaries {
		if err := c.configureOptimizer(intermediary); err != nil {
			return err
		}

		if err := intermediary.Config().Restart(!c.params.KeepStore); err != nil {
			return errors.Wrapf(err, "restarting %s", intermediary.Name())
		}
	}

	c.state = Configured
	return nil
}

// takeSnapshot records the active configuration name of an intermediary and
// saves a backup copy of it.
func (c *Controller) takeSnapshot(intermediary device.Intermediary) error {
	config := intermediary.Config()

	active, err := config.Active()
	if err != nil {
		return errors.Wrapf(err, "reading active configuration of %s", intermediary.Name())
	}

	backup := active + backupSuffix
	if err := config.Save(backup); err != nil {
		return errors.Wrapf(err, "saving configuration backup %q on %s", backup, intermediary.Name())
	}

	log.Debugf("%s: configuration %q backed up as %q", intermediary.Name(), active, backup)
	c.snapshots[intermediary.Name()] = snapshot{active: active, backup: backup}
	return nil
}

// configureOptimizer programs the selective replication optimization feature
// of one intermediary: traffic ports, one rule per policy assignment, then
// feature enable. Any failure here is fatal.
func (c *Controller) configureOptimizer(intermediary device.Intermediary) error {
	optimizer := intermediary.Optimizer()

	seen := map[int]bool{}
	for _, leg := range c.params.Legs {
		if seen[leg.Port] {
			continue
		}
		seen[leg.Port] = true
		if err := optimizer.AddPort(leg.Port); err != nil {
			return errors.Wrapf(err, "adding port %d on %s", leg.Port, intermediary.Name())
		}
	}

	for _, assignment := range c.plan.Assignments {
		log.Debugf("%s: array %s group %d gets policy %s",
			intermediary.Name(), assignment.ArrayID, assignment.Group, assignment.Policy)
		if err := optimizer.AddRule(assignment.ArrayID, assignment.Group, assignment.Policy); err != nil {
			return errors.Wrapf(err, "adding rule for array %s group %d on %s",
				assignment.ArrayID, assignment.Group, intermediary.Name())
		}
	}

	if err := optimizer.Enable(); err != nil {
		return errors.Wrapf(err, "enabling optimization on %s", intermediary.Name())
	}
	return nil
}

// Run executes the traffic window: re-resolve every testbed role, mark the
// receiving appliance log, start both legs staggered, wait the full run
// duration, collect measurements while traffic still flows, stop the legs
// and capture the log finding. A role that vanished since configure is
// fatal; traffic never starts against a partial testbed.
func (c *Controller) Run() error {
	if err := c.require(Configured, "run"); err != nil {
		return err
	}

	for _, role := range endpointRoles {
		if _, err := c.deps.Resolver.Endpoint(role); err != nil {
			return errors.Wrapf(err, "resolving endpoint %q", role)
		}
	}
	if _, err := c.deps.Resolver.Intermediary(device.RoleSendingOptimizer); err != nil {
		return errors.Wrap(err, "resolving sending intermediary")
	}
	receiver, err := c.deps.Resolver.Intermediary(device.RoleReceivingOptimizer)
	if err != nil {
		return errors.Wrap(err, "resolving receiving intermediary")
	}

	logsMarked := true
	if err := receiver.Logs().Mark(); err != nil {
		logsMarked = false
		log.Warnf("marking %s log failed, log findings of this run are unreliable: %v",
			receiver.Name(), err)
	}

	orchestrator := traffic.NewOrchestrator(
		c.deps.Legs[0], c.deps.Legs[1], c.params.StaggerDelay, c.params.RunDuration)
	orchestrator.SetSleeper(c.sleep)

	if err := orchestrator.StartAll(); err != nil {
		return errors.Wrap(err, "starting traffic")
	}

	orchestrator.WaitRun()

	c.collectMeasurements(receiver)

	if err := orchestrator.StopAll(); err != nil {
		log.Warnf("stopping traffic: %v", err)
	}

	if logsMarked {
		finding, err := receiver.Logs().FindingsSince(device.SeverityWarning)
		if err != nil {
			log.Warnf("scanning %s log failed: %v", receiver.Name(), err)
		} else {
			c.finding = finding
		}
	}

	c.state = Running
	return nil
}

// collectMeasurements takes the independent throughput samples and reads the
// device bundle of every derived array. Collection failures are never fatal:
// the missing figure is simply absent from validation, which notices it.
func (c *Controller) collectMeasurements(receiver device.Intermediary) {
	for _, side := range metrics.Sides {
		sample, err := c.deps.Meter.Throughput(side, c.params.ReportInterval)
		if err != nil {
			log.Warnf("measuring %s throughput failed: %v", side, err)
			continue
		}
		c.aggregate[side] = sample
	}

	if c.plan == nil {
		log.Warn("no policy plan derived, device bundles are not collected")
		return
	}
	for _, array := range c.plan.Arrays {
		bundle, err := receiver.Stats().ArrayBundle(array.ID, c.params.ReportInterval)
		if err != nil {
			log.Warnf("reading bundle of array %s failed: %v", array.ID, err)
			continue
		}
		c.bundles[array.ID] = bundle
	}
}

// Validate judges the collected measurements against the tolerance bands.
// When configure was skipped the policy plan is derived here, since
// validation needs the group counts regardless.
func (c *Controller) Validate() (*validate.Report, error) {
	if err := c.require(Running, "validate"); err != nil {
		return nil, err
	}

	if c.plan == nil {
		// A nil plan means configure was skipped, so validation derives
		// the group counts itself. A derivation failure here is only a
		// warning: the reduction checks notice-skip without counts.
		if err := c.derivePlan(); err != nil {
			log.Warnf("deriving policy plan for validation failed: %v", err)
		}
	}
	groupCounts := map[string]int{}
	if c.plan != nil {
		groupCounts = c.plan.GroupCounts
	}

	engine := validate.Engine{
		Sink:       c.deps.Sink,
		Converter:  c.deps.Converter,
		ScanLogs:   c.params.ScanLogs,
		Tolerances: c.params.Tolerances,
	}

	report := engine.Validate(validate.Input{
		Aggregate:   c.aggregate,
		Bundles:     c.bundles,
		Finding:     c.finding,
		GroupCounts: groupCounts,
	})

	for _, notice := range c.planNotices {
		report.Notices = append(report.Notices, fmt.Sprintf("%s: %s", notice.Leg, notice.Message))
	}

	c.state = Validated
	return &report, nil
}

// Cleanup restores the testbed: shaping revert, multi-core balancing off,
// optimization off, configuration rollback and impairment defaults.
// Every restoration step is attempted even when earlier ones failed; the
// collected errors come back joined. The base cleanup hook always runs.
func (c *Controller) Cleanup() error {
	defer func() {
		if c.deps.BaseCleanup != nil {
			c.deps.BaseCleanup()
		}
	}()

	if c.params.SkipCleanup {
		log.Info("cleanup skipped, appliances keep the run's configuration")
		c.state = CleanedUp
		return nil
	}

	var errs errcollection.ErrorCollection

	for _, role := range intermediaryRoles {
		intermediary, err := c.deps.Resolver.Intermediary(role)
		if err != nil {
			errs.Add(errors.Wrapf(err, "resolving intermediary %q", role))
			continue
		}
		if err := c.cleanupIntermediary(intermediary); err != nil {
			errs.Add(err)
		}
	}

	if len(c.deps.Impairers) == 0 {
		log.Warn("no impairment devices known, path impairment is not restored")
	}
	for _, impairer := range c.deps.Impairers {
		if err := impairer.RestoreDefaults(); err != nil {
			log.Warnf("restoring impairment defaults on %s failed: %v", impairer.Name(), err)
			errs.Add(errors.Wrapf(err, "restoring impairment defaults on %s", impairer.Name()))
		}
	}

	c.state = CleanedUp
	return errs.GetErrIfAny()
}

// cleanupIntermediary restores one appliance. An unobtainable balancing
// handle is fatal since the appliance would stay degraded; everything else
// is collected and the restoration continues.
func (c *Controller) cleanupIntermediary(intermediary device.Intermediary) error {
	var errs errcollection.ErrorCollection

	shaper := intermediary.Shaper()
	if err := shaper.RevertInitiate(); err != nil {
		log.Warnf("%s: initiating shaping revert failed: %v", intermediary.Name(), err)
		errs.Add(errors.Wrapf(err, "initiating shaping revert on %s", intermediary.Name()))
	} else if err := shaper.RevertConfirm(); err != nil {
		log.Warnf("%s: confirming shaping revert failed: %v", intermediary.Name(), err)
		errs.Add(errors.Wrapf(err, "confirming shaping revert on %s", intermediary.Name()))
	}

	balancer, err := intermediary.Balancer()
	if err != nil {
		return errors.Wrapf(err, "obtaining balancing handle of %s", intermediary.Name())
	}
	if err := balancer.SetMultiCore(false); err != nil {
		log.Warnf("%s: disabling multi-core balancing failed: %v", intermediary.Name(), err)
		errs.Add(errors.Wrapf(err, "disabling multi-core balancing on %s", intermediary.Name()))
	}

	if err := intermediary.Optimizer().Disable(); err != nil {
		log.Warnf("%s: disabling optimization failed: %v", intermediary.Name(), err)
		errs.Add(errors.Wrapf(err, "disabling optimization on %s", intermediary.Name()))
	} else {
		log.Infof("%s: optimization disabled", intermediary.Name())
	}

	// Two restarts: the first applies the teardown and clears the segment
	// store unless it is kept, the second applies the rolled-back
	// configuration and must never clear what the rollback restored.
	if err := intermediary.Config().Restart(!c.params.KeepStore); err != nil {
		errs.Add(errors.Wrapf(err, "restarting %s", intermediary.Name()))
	}

	if !c.params.RestoreConfig {
		if err := c.rollbackConfiguration(intermediary); err != nil {
			errs.Add(err)
		}
	}

	if err := intermediary.Config().Restart(false); err != nil {
		errs.Add(errors.Wrapf(err, "restarting %s after rollback", intermediary.Name()))
	}

	return errs.GetErrIfAny()
}

// rollbackConfiguration reinstates the pre-run configuration of an
// intermediary under its original name: switch to the backup, drop the
// modified configuration, recreate the original name from the backup and
// delete the snapshot. A failed step is logged and collected, the remaining
// steps still run so a single refused command cannot strand the whole
// rollback.
func (c *Controller) rollbackConfiguration(intermediary device.Intermediary) error {
	saved, ok := c.snapshots[intermediary.Name()]
	if !ok {
		log.Warnf("%s: no configuration backup recorded, nothing to roll back", intermediary.Name())
		return nil
	}

	config := intermediary.Config()
	steps := []struct {
		what string
		run  func() error
	}{
		{fmt.Sprintf("switching to backup %q", saved.backup), func() error { return config.SwitchTo(saved.backup) }},
		{fmt.Sprintf("deleting modified configuration %q", saved.active), func() error { return config.Delete(saved.active) }},
		{fmt.Sprintf("recreating %q from backup", saved.active), func() error { return config.Copy(saved.backup, saved.active) }},
		{fmt.Sprintf("deleting snapshot %q", saved.backup), func() error { return config.Delete(saved.backup) }},
	}

	var errs errcollection.ErrorCollection
	for _, step := range steps {
		if err := step.run(); err != nil {
			log.Warnf("%s: %s failed: %v", intermediary.Name(), step.what, err)
			errs.Add(errors.Wrapf(err, "rolling back configuration of %s: %s", intermediary.Name(), step.what))
		}
	}
	if err := errs.GetErrIfAny(); err != nil {
		return err
	}

	log.Infof("%s: configuration %q rolled back", intermediary.Name(), saved.active)
	return nil
}

// Execute drives the whole run. Cleanup runs regardless of how far the run
// got; a phase failure comes back as the error, with the report from
// validation when the run reached it.
func (c *Controller) Execute() (report *validate.Report, err error) {
	defer func() {
		if cleanupErr := c.Cleanup(); cleanupErr != nil {
			log.Errorf("cleanup: %v", cleanupErr)
			if err == nil {
				err = cleanupErr
			}
		}
	}()

	if err = c.Configure(); err != nil {
		return nil, err
	}
	if err = c.Run(); err != nil {
		return nil, err
	}
	return c.Validate()
}
