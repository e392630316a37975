package params

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scope labels what a reduction band covers: the array total or the groups
// carrying one policy kind.
type Scope string

const (
	// ScopeTotal covers index 0 of a reduction record.
	ScopeTotal Scope = "total"
	// ScopeNone covers group 1 (unoptimized).
	ScopeNone Scope = "none"
	// ScopeLZOnly covers group 2 (LZ compression only).
	ScopeLZOnly Scope = "lz-only"
	// ScopeSDRDefault covers group 3 and above (scalable data reduction).
	ScopeSDRDefault Scope = "sdr-default"
)

// Scopes lists all reduction scopes a tolerance file must provide bands for.
var Scopes = []Scope{ScopeTotal, ScopeNone, ScopeLZOnly, ScopeSDRDefault}

// Band is an open-interval tolerance: a measured value passes iff it falls
// strictly between Lower and Upper.
type Band struct {
	Lower float64
	Upper float64
}

// Contains reports whether value lies strictly inside the band. Values equal
// to either bound fail.
func (b Band) Contains(value float64) bool {
	return b.Lower < value && value < b.Upper
}

// Tolerances is the validated tolerance table of a run. The throughput band
// holds the multipliers applied to the independently measured value; the
// reduction bands are absolute percentages per scope.
type Tolerances struct {
	Throughput Band
	Reduction  map[Scope]Band
}

// keyFragment maps a scope to its fragment in the historical tolerance key
// names (e.g. rdxn_lz_only_lwr_lmt).
var keyFragment = map[Scope]string{
	ScopeTotal:      "total",
	ScopeNone:       "none",
	ScopeLZOnly:     "lz_only",
	ScopeSDRDefault: "sdr_default",
}

// LoadTolerances reads a tolerance band table from a YAML file. The file maps
// the historical key names to numbers:
//
//	tput_dif_lwr_lmt: 0.9
//	tput_dif_upr_lmt: 1.1
//	rdxn_total_lwr_lmt: 55.0
//	rdxn_total_upr_lmt: 99.0
//	...
//
// Loading fails fast on unknown keys, missing bands and inverted bounds, so a
// misspelled scope never silently yields an undefined band at check time.
func LoadTolerances(path string) (Tolerances, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Tolerances{}, errors.Wrapf(err, "reading tolerance file %s", path)
	}
	return ParseTolerances(data)
}

// ParseTolerances builds and validates the tolerance table from YAML content.
func ParseTolerances(data []byte) (Tolerances, error) {
	raw := map[string]float64{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Tolerances{}, errors.Wrap(err, "parsing tolerance file")
	}

	take := func(key string) (float64, error) {
		value, ok := raw[key]
		if !ok {
			return 0, errors.Errorf("tolerance file misses key %q", key)
		}
		delete(raw, key)
		return value, nil
	}

	takeBand := func(prefix string) (Band, error) {
		lower, err := take(prefix + "_lwr_lmt")
		if err != nil {
			return Band{}, err
		}
		upper, err := take(prefix + "_upr_lmt")
		if err != nil {
			return Band{}, err
		}
		if lower >= upper {
			return Band{}, errors.Errorf("tolerance band %q has inverted bounds [%g, %g]", prefix, lower, upper)
		}
		return Band{Lower: lower, Upper: upper}, nil
	}

	tolerances := Tolerances{Reduction: map[Scope]Band{}}

	var err error
	if tolerances.Throughput, err = takeBand("tput_dif"); err != nil {
		return Tolerances{}, err
	}

	for _, scope := range Scopes {
		band, err := takeBand("rdxn_" + keyFragment[scope])
		if err != nil {
			return Tolerances{}, err
		}
		tolerances.Reduction[scope] = band
	}

	for key := range raw {
		return Tolerances{}, errors.Errorf("tolerance file carries unknown key %q", key)
	}

	return tolerances, nil
}
