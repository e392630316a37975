package conf

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

const testAppName = "testAppName"

func TestConf(t *testing.T) {
	Convey("While using Conf pkg", t, func() {
		logLevelFlag.clear()
		defer logLevelFlag.clear()

		SetAppName(testAppName)

		Convey("Name should match the specified one", func() {
			So(AppName(), ShouldEqual, testAppName)
		})

		Convey("Log level can be fetched", func() {
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("Log level can be fetched from env", func() {
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)

			os.Setenv(logLevelFlag.envName(), "debug")

			err := ParseEnv()
			So(err, ShouldBeNil)

			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})
	})
}

func TestStructProcessing(t *testing.T) {
	type testConfig struct {
		Ignored  string
		Name     string        `help:"Name of the thing" default:"thing"`
		Count    int           `help:"How many things" default:"3"`
		Ratio    float64       `help:"Limit ratio" default:"0.9"`
		Window   time.Duration `help:"How long to wait" default:"90s"`
		Verbose  bool          `help:"Print more"`
		Endpoint string        `help:"Endpoint address" type:"ip" default:"127.0.0.1"`

		flagPrefix string
	}

	Convey("While processing a tagged config struct", t, func() {
		cfg := testConfig{Ignored: "untouched", flagPrefix: "TestThing"}
		err := Process(&cfg)
		So(err, ShouldBeNil)

		Convey("Tagged fields receive their defaults", func() {
			So(cfg.Name, ShouldEqual, "thing")
			So(cfg.Count, ShouldEqual, 3)
			So(cfg.Ratio, ShouldEqual, 0.9)
			So(cfg.Window, ShouldEqual, 90*time.Second)
			So(cfg.Verbose, ShouldBeFalse)
			So(cfg.Endpoint, ShouldEqual, "127.0.0.1")
		})

		Convey("Untagged fields are left alone", func() {
			So(cfg.Ignored, ShouldEqual, "untouched")
		})

		Convey("Processing the same struct again does not panic", func() {
			So(func() { Process(&cfg) }, ShouldNotPanic)
		})

		Convey("Flag names carry the struct prefix", func() {
			_, ok := definedFlags["test_thing_name"]
			So(ok, ShouldBeTrue)
		})

		Convey("Processing a non-pointer fails", func() {
			So(Process(cfg), ShouldNotBeNil)
		})
	})
}
