// Package policy derives per-array identifiers and per-replication-group
// optimization policy assignments from the traffic parameters of a run.
package policy

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/pkg/errors"
)

// Kind names an optimization policy applied to a replication group.
type Kind string

const (
	// None leaves the group's traffic unoptimized.
	None Kind = "none"
	// LZOnly applies LZ compression without data reduction.
	LZOnly Kind = "lz-only"
	// SDRDefault applies scalable data reduction with default settings.
	SDRDefault Kind = "sdr-default"
)

// Order is the fixed sequence in which policies are assigned to the
// replication groups of one array: group 1 gets None, group 2 LZOnly and
// group 3 SDRDefault. Arrays never carry more than three assigned groups.
var Order = []Kind{None, LZOnly, SDRDefault}

const idFiller = "000000"

// SymmetrixArray is the simulated storage endpoint behind one traffic leg.
type SymmetrixArray struct {
	// ID is the derived 10-digit array identifier.
	ID string
	// Address of the array's peer endpoint.
	Address string
	// RDFGroups is the number of replication groups the leg drives.
	RDFGroups int
}

// Assignment binds one replication group of an array to a policy kind.
type Assignment struct {
	ArrayID string
	Group   int
	Policy  Kind
}

// Plan is the full derivation result for a run. GroupCounts keeps the group
// count per array id for the validation stage's group indexing.
type Plan struct {
	Arrays      []SymmetrixArray
	Assignments []Assignment
	GroupCounts map[string]int
}

// Leg carries the derivation inputs of one traffic leg.
type Leg struct {
	// Name of the leg, used in notices.
	Name string
	// RDFSpec encodes the replication stream as "<blocksize>:<groupCount>:<chunk>".
	RDFSpec string
}

// AddressLookup resolves the peer array address for a traffic leg.
// A lookup failure is fatal to the derivation.
type AddressLookup func(leg Leg) (string, error)

// Notice is a non-fatal derivation finding callers can assert on without
// parsing log output.
type Notice struct {
	Leg     string
	Message string
}

// DeriveID builds the 10-digit array id from a peer address: the last two
// characters of the address, a fixed six digit filler and the same two
// characters again.
func DeriveID(address string) string {
	tail := address
	if len(tail) > 2 {
		tail = tail[len(tail)-2:]
	}
	for len(tail) < 2 {
		tail = "0" + tail
	}
	return tail + idFiller + tail
}

// GroupCount extracts the replication group count from an RDF spec string.
func GroupCount(rdfSpec string) (int, error) {
	parts := strings.Split(rdfSpec, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("RDF spec %q does not match <blocksize>:<groupCount>:<chunk>", rdfSpec)
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil || count < 0 {
		return 0, errors.Errorf("RDF spec %q carries a malformed group count", rdfSpec)
	}
	return count, nil
}

// Derive computes arrays and policy assignments for the given legs. The
// derivation is deterministic for identical inputs. A malformed RDF spec is a
// soft failure: the leg's array is still emitted, with zero assigned groups,
// and a Notice records the problem. A failed address lookup aborts the
// derivation.
func Derive(legs []Leg, lookup AddressLookup) (*Plan, []Notice, error) {
	plan := &Plan{GroupCounts: map[string]int{}}
	var notices []Notice

	for _, leg := range legs {
		count, err := GroupCount(leg.RDFSpec)
		if err != nil {
			log.Warnf("leg %s: %v, proceeding without policy assignments", leg.Name, err)
			notices = append(notices, Notice{Leg: leg.Name, Message: err.Error()})
			count = 0
		}

		address, err := lookup(leg)
		if err != nil {
			return nil, notices, errors.Wrapf(err, "resolving peer address for leg %s", leg.Name)
		}

		array := SymmetrixArray{
			ID:        DeriveID(address),
			Address:   address,
			RDFGroups: count,
		}
		plan.Arrays = append(plan.Arrays, array)
		plan.GroupCounts[array.ID] = count

		assigned := count
		if assigned > len(Order) {
			assigned = len(Order)
		}
		for group := 1; group <= assigned; group++ {
			plan.Assignments = append(plan.Assignments, Assignment{
				ArrayID: array.ID,
				Group:   group,
				Policy:  Order[group-1],
			})
		}
		if count < len(Order) {
			log.Debugf("leg %s: array %s has %d RDF group(s), policies %v beyond that are not assigned",
				leg.Name, array.ID, count, Order[count:])
			notices = append(notices, Notice{
				Leg:     leg.Name,
				Message: errors.Errorf("array %s: only %d of %d policy kinds assigned", array.ID, count, len(Order)).Error(),
			})
		}
	}

	return plan, notices, nil
}
