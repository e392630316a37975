// Package conf registers test-case configuration flags which can be fed from
// the command line or from SROTEST_<NAME> environment variables.
// Flags are declared as package variables close to the code they configure and
// read with Value() after ParseFlags (or ParseEnv) has run.
package conf

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const envPrefix = "SROTEST"

var (
	app = kingpin.New("srotest", "No help available")

	logLevelFlag = NewStringFlag(
		"log",
		"Log level: debug, info, warn, error, fatal, panic",
		"error",
	)

	isEnvParsed = false
)

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// AppName returns the configured application name.
func AppName() string {
	return app.Name
}

// LogLevel returns the configured logrus level, falling back to the flag's
// default when the supplied value does not parse.
func LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(logLevelFlag.Value())
	if err == nil {
		return level
	}

	level, err = logrus.ParseLevel(logLevelFlag.defaultValue)
	if err == nil {
		return level
	}

	// Programmer error.
	panic(errors.Wrap(err, "parsing log level failed"))
}

// ParseFlags parses both the command line flags of the process and the
// environment variables.
func ParseFlags() error {
	_, err := app.Parse(os.Args[1:])
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse command line flags")
}

// ParseEnv parses only the environment for arguments.
func ParseEnv() error {
	_, err := app.Parse([]string{})
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse environment flags")
}

// envName converts a flag name to its environment variable form,
// e.g. "cassandra_addr" becomes "SROTEST_CASSANDRA_ADDR".
func envName(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(flagName)
}
