package policy

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func staticLookup(addresses map[string]string) AddressLookup {
	return func(leg Leg) (string, error) {
		address, ok := addresses[leg.Name]
		if !ok {
			return "", errors.Errorf("no address for %s", leg.Name)
		}
		return address, nil
	}
}

func TestDeriveID(t *testing.T) {
	Convey("While deriving array identifiers", t, func() {
		Convey("The id is always ten characters", func() {
			for _, address := range []string{"10.1.2.25", "192.168.0.1", "99", "7", ""} {
				So(DeriveID(address), ShouldHaveLength, 10)
			}
		})

		Convey("The first and last two characters repeat the address tail", func() {
			id := DeriveID("10.4.11.37")
			So(id, ShouldEqual, "3700000037")
			So(id[:2], ShouldEqual, "37")
			So(id[8:], ShouldEqual, "37")
		})

		Convey("Derivation is deterministic", func() {
			So(DeriveID("10.4.11.37"), ShouldEqual, DeriveID("10.4.11.37"))
		})
	})
}

func TestGroupCount(t *testing.T) {
	Convey("While parsing RDF specs", t, func() {
		Convey("A well formed triple yields the middle element", func() {
			count, err := GroupCount("64:3:512")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 3)
		})

		Convey("Wrong arity is rejected", func() {
			_, err := GroupCount("64:3")
			So(err, ShouldNotBeNil)
		})

		Convey("A non-numeric count is rejected", func() {
			_, err := GroupCount("64:x:512")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDerive(t *testing.T) {
	lookup := staticLookup(map[string]string{
		"leg1": "10.0.0.25",
		"leg2": "10.0.0.26",
	})

	Convey("While deriving a plan for two legs", t, func() {
		Convey("With three groups each leg gets the full policy order", func() {
			plan, notices, err := Derive([]Leg{
				{Name: "leg1", RDFSpec: "64:3:512"},
				{Name: "leg2", RDFSpec: "64:3:512"},
			}, lookup)
			So(err, ShouldBeNil)
			So(notices, ShouldBeEmpty)
			So(plan.Arrays, ShouldHaveLength, 2)
			So(plan.Assignments, ShouldHaveLength, 6)
			So(plan.Assignments[0].Policy, ShouldEqual, None)
			So(plan.Assignments[1].Policy, ShouldEqual, LZOnly)
			So(plan.Assignments[2].Policy, ShouldEqual, SDRDefault)
			So(plan.GroupCounts[plan.Arrays[0].ID], ShouldEqual, 3)
		})

		Convey("With two groups the sdr-default policy is never assigned", func() {
			plan, notices, err := Derive([]Leg{{Name: "leg1", RDFSpec: "64:2:512"}}, lookup)
			So(err, ShouldBeNil)
			So(plan.Assignments, ShouldHaveLength, 2)
			So(plan.Assignments[0], ShouldResemble, Assignment{ArrayID: "2500000025", Group: 1, Policy: None})
			So(plan.Assignments[1], ShouldResemble, Assignment{ArrayID: "2500000025", Group: 2, Policy: LZOnly})
			So(notices, ShouldHaveLength, 1)
		})

		Convey("With more than three groups assignments are capped at three", func() {
			plan, _, err := Derive([]Leg{{Name: "leg1", RDFSpec: "64:7:512"}}, lookup)
			So(err, ShouldBeNil)
			So(plan.Assignments, ShouldHaveLength, 3)
			So(plan.GroupCounts["2500000025"], ShouldEqual, 7)
		})

		Convey("A malformed RDF spec is soft: array emitted, zero assignments, one notice", func() {
			plan, notices, err := Derive([]Leg{{Name: "leg1", RDFSpec: "garbage"}}, lookup)
			So(err, ShouldBeNil)
			So(plan.Arrays, ShouldHaveLength, 1)
			So(plan.Arrays[0].ID, ShouldEqual, "2500000025")
			hasParseNotice := false
			for _, n := range notices {
				if n.Leg == "leg1" {
					hasParseNotice = true
				}
			}
			So(hasParseNotice, ShouldBeTrue)
			for _, a := range plan.Assignments {
				So(a.ArrayID, ShouldNotEqual, "2500000025")
			}
		})

		Convey("An unresolved address is fatal", func() {
			_, _, err := Derive([]Leg{{Name: "missing", RDFSpec: "64:3:512"}}, lookup)
			So(err, ShouldNotBeNil)
		})

		Convey("Derivation is deterministic across invocations", func() {
			legs := []Leg{
				{Name: "leg1", RDFSpec: "64:3:512"},
				{Name: "leg2", RDFSpec: "64:1:512"},
			}
			first, _, err := Derive(legs, lookup)
			So(err, ShouldBeNil)
			second, _, err := Derive(legs, lookup)
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}
