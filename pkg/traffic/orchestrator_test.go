package traffic

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// scriptedLeg records start/stop events into a shared journal so ordering can
// be asserted.
type scriptedLeg struct {
	name     string
	journal  *[]string
	startErr error
	stopErr  error
}

func (l *scriptedLeg) Start() error {
	*l.journal = append(*l.journal, "start:"+l.name)
	return l.startErr
}

func (l *scriptedLeg) Stop() error {
	*l.journal = append(*l.journal, "stop:"+l.name)
	return l.stopErr
}

func (l *scriptedLeg) Config() LegConfig {
	return LegConfig{Name: l.name}
}

func TestOrchestrator(t *testing.T) {
	Convey("While orchestrating two traffic legs", t, func() {
		journal := []string{}
		first := &scriptedLeg{name: "leg1", journal: &journal}
		second := &scriptedLeg{name: "leg2", journal: &journal}

		orchestrator := NewOrchestrator(first, second, 5*time.Second, 60*time.Second)
		var slept []time.Duration
		orchestrator.sleep = func(d time.Duration) {
			slept = append(slept, d)
			journal = append(journal, "sleep")
		}

		Convey("StartAll starts leg 1 strictly before leg 2 with the stagger in between", func() {
			So(orchestrator.StartAll(), ShouldBeNil)
			So(journal, ShouldResemble, []string{"start:leg1", "sleep", "start:leg2"})
			So(slept, ShouldResemble, []time.Duration{5 * time.Second})
		})

		Convey("WaitRun blocks once for the full run duration", func() {
			orchestrator.WaitRun()
			So(slept, ShouldResemble, []time.Duration{60 * time.Second})
		})

		Convey("A first-leg start failure is fatal and leg 2 is never started", func() {
			first.startErr = errors.New("spawn failed")
			So(orchestrator.StartAll(), ShouldNotBeNil)
			So(journal, ShouldResemble, []string{"start:leg1"})
		})

		Convey("StopAll stops leg 1 then leg 2", func() {
			So(orchestrator.StopAll(), ShouldBeNil)
			So(journal, ShouldResemble, []string{"stop:leg1", "stop:leg2"})
		})

		Convey("A stop failure still stops the other leg and surfaces as a collected error", func() {
			first.stopErr = errors.New("kill failed")
			err := orchestrator.StopAll()
			So(err, ShouldNotBeNil)
			So(journal, ShouldResemble, []string{"stop:leg1", "stop:leg2"})
		})
	})
}

func TestReplgenCommand(t *testing.T) {
	Convey("While building the replgen command", t, func() {
		config := ReplgenConfig{
			LegConfig: LegConfig{
				Name:    "leg1",
				Server:  "10.1.0.7",
				Port:    1748,
				RDFSpec: "64:3:512",
			},
			Path: "replgen",
		}
		leg := NewReplgen(nil, config)

		Convey("The RDF spec is split into its flags", func() {
			So(leg.buildCommand(), ShouldEqual, "replgen -s 10.1.0.7 -p 1748 -b 64 -g 3 -c 512")
		})

		Convey("A malformed spec omits the stream shape flags", func() {
			config.RDFSpec = "garbage"
			leg = NewReplgen(nil, config)
			So(leg.buildCommand(), ShouldEqual, "replgen -s 10.1.0.7 -p 1748")
		})
	})
}
