package conf

import (
	"fmt"
	"net"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const stringListDelimiter = ","

// StringListVar is a custom kingpin parser which resolves a flag's parameters
// consisting of a string slice delimited by `stringListDelimiter`.
// For a flag defined like this:
// `flag = StringList(kingpin.Flag("flag_name", "help").Short("f"))`
//
// specifying the options `-f=A,B,C -f=D,E,F` leaves `flag` holding a slice
// with the items A,B,C,D,E,F.
type StringListVar []string

// Set parses the input string and appends it as a slice. Implements kingpin.Value.
func (s *StringListVar) Set(value string) error {
	*s = append(*s, strings.Split(value, stringListDelimiter)...)
	return nil
}

// String returns string value from StringListVar. Implements kingpin.Value.
func (s *StringListVar) String() string {
	return fmt.Sprintf("%v", *s)
}

// IsCumulative implements the optional kingpin repeatableFlag interface for
// flags that can be repeated.
func (s *StringListVar) IsCumulative() bool {
	return true
}

// StringList is a helper for defining kingpin flags.
func StringList(s kingpin.Settings) (target *[]string) {
	target = new([]string)
	s.SetValue((*StringListVar)(target))
	return
}

// ipValue is a kingpin parser which accepts only parseable IP addresses.
type ipValue struct {
	target *string
}

func newIPValue(target *string) kingpin.Value {
	return &ipValue{target: target}
}

// Set validates and stores the input. Implements kingpin.Value.
func (i *ipValue) Set(value string) error {
	if net.ParseIP(value) == nil {
		return errors.Errorf("%q is not a valid IP address", value)
	}
	*i.target = value
	return nil
}

// String returns the stored address. Implements kingpin.Value.
func (i *ipValue) String() string {
	return *i.target
}
