package traffic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/conf"
)

// ReplgenConfig configures the replgen synthetic replication generator.
// replgen drives one bulk-replication stream whose shape is taken from the
// leg's RDF spec.
type ReplgenConfig struct {
	LegConfig

	Path string `help:"Path to the replgen binary" default:"replgen"`
}

// DefaultReplgenConfig exposes and reads the flags of one replgen leg. The
// prefix keeps the flag names of the two legs apart (e.g. leg1_server).
func DefaultReplgenConfig(prefix string, name string) ReplgenConfig {
	config := ReplgenConfig{LegConfig: DefaultLegConfig(prefix, name)}
	if err := conf.Process(&config); err != nil {
		panic(err)
	}
	return config
}

// Replgen is a Leg launching the replgen load generator through a Runner.
type Replgen struct {
	runner Runner
	conf   ReplgenConfig

	handle Handle
}

// NewReplgen is a constructor for a replgen traffic leg.
func NewReplgen(runner Runner, config ReplgenConfig) *Replgen {
	return &Replgen{
		runner: runner,
		conf:   config,
	}
}

func (r *Replgen) buildCommand() string {
	parts := strings.Split(r.conf.RDFSpec, ":")
	args := fmt.Sprint(r.conf.Path,
		" -s ", r.conf.Server,
		" -p ", r.conf.Port)
	if len(parts) == 3 {
		args = fmt.Sprint(args,
			" -b ", parts[0],
			" -g ", parts[1],
			" -c ", parts[2])
	}
	return args
}

// Start launches the generator. Implements Leg.
func (r *Replgen) Start() error {
	if r.handle != nil {
		return errors.Errorf("leg %s is already running", r.conf.Name)
	}

	command := r.buildCommand()
	log.Debugf("leg %s: %s", r.conf.Name, command)

	handle, err := r.runner.Run(command)
	if err != nil {
		return errors.Wrapf(err, "launching replgen for leg %s", r.conf.Name)
	}
	r.handle = handle
	return nil
}

// Stop terminates the generator. Implements Leg.
func (r *Replgen) Stop() error {
	if r.handle == nil {
		return errors.Errorf("leg %s is not running", r.conf.Name)
	}

	err := r.handle.Stop()
	r.handle = nil
	return errors.Wrapf(err, "stopping replgen for leg %s", r.conf.Name)
}

// Config implements Leg.
func (r *Replgen) Config() LegConfig {
	return r.conf.LegConfig
}
