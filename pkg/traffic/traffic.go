// Package traffic starts and stops the synthetic bulk-replication legs of a
// run and owns their relative timing: a staggered start, a single
// run-duration wait and an ordered stop.
package traffic

import (
	"time"

	"github.com/optinet/srotest/pkg/conf"
)

// LegConfig is the configuration bundle of one traffic leg.
type LegConfig struct {
	// Name of the leg, also used for log and notice attribution.
	Name string

	Server string `help:"Address of the replication target endpoint" type:"ip" default:"127.0.0.1"`
	Port   int    `help:"Port of the replication target endpoint" default:"1748"`

	// RDFSpec encodes the replication stream as "<blocksize>:<groupCount>:<chunk>".
	RDFSpec string `help:"Replication stream spec: <blocksizeKB>:<rdfGroups>:<chunkKB>" default:"64:3:512"`

	flagPrefix string
}

// DefaultLegConfig exposes and reads the flags of one leg. The prefix keeps
// the flag names of the two legs apart (e.g. leg1_server, leg2_server).
func DefaultLegConfig(prefix string, name string) LegConfig {
	config := LegConfig{Name: name, flagPrefix: prefix}
	if err := conf.Process(&config); err != nil {
		panic(err)
	}
	return config
}

// Leg is one replication traffic stream between a client and a server.
type Leg interface {
	// Start launches the stream. The stream keeps running until Stop.
	Start() error
	// Stop terminates the stream.
	Stop() error
	// Config returns the leg's configuration bundle.
	Config() LegConfig
}

// Runner executes a traffic tool command on the endpoint hosting it.
// It is a narrowed process-execution contract: the run keeps only the handle
// needed to stop the tool again.
type Runner interface {
	Run(command string) (Handle, error)
}

// Handle represents a started traffic tool process.
type Handle interface {
	Stop() error
}

// Sleeper abstracts the blocking waits so tests can run without wall-clock
// delays.
type Sleeper func(d time.Duration)
