package params

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const validTolerances = `
tput_dif_lwr_lmt: 0.9
tput_dif_upr_lmt: 1.1
rdxn_total_lwr_lmt: 55.0
rdxn_total_upr_lmt: 99.0
rdxn_none_lwr_lmt: -5.0
rdxn_none_upr_lmt: 5.0
rdxn_lz_only_lwr_lmt: 20.0
rdxn_lz_only_upr_lmt: 80.0
rdxn_sdr_default_lwr_lmt: 60.0
rdxn_sdr_default_upr_lmt: 99.0
`

func TestParseTolerances(t *testing.T) {
	Convey("While parsing a tolerance table", t, func() {
		Convey("A complete table parses into bands per scope", func() {
			tolerances, err := ParseTolerances([]byte(validTolerances))
			So(err, ShouldBeNil)
			So(tolerances.Throughput, ShouldResemble, Band{Lower: 0.9, Upper: 1.1})
			So(tolerances.Reduction, ShouldHaveLength, 4)
			So(tolerances.Reduction[ScopeLZOnly], ShouldResemble, Band{Lower: 20.0, Upper: 80.0})
		})

		Convey("An unknown key fails fast", func() {
			_, err := ParseTolerances([]byte(validTolerances + "rdxn_lzonly_lwr_lmt: 1.0\n"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown key")
		})

		Convey("A missing band fails fast", func() {
			_, err := ParseTolerances([]byte("tput_dif_lwr_lmt: 0.9\ntput_dif_upr_lmt: 1.1\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("Inverted bounds fail fast", func() {
			broken := `
tput_dif_lwr_lmt: 1.1
tput_dif_upr_lmt: 0.9
`
			_, err := ParseTolerances([]byte(broken))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "inverted")
		})
	})
}

func TestBand(t *testing.T) {
	Convey("While checking values against a band", t, func() {
		band := Band{Lower: 75.1, Upper: 75.3}

		Convey("A value inside the band passes", func() {
			So(band.Contains(75.2), ShouldBeTrue)
		})

		Convey("The bounds themselves fail: the interval is open", func() {
			So(band.Contains(75.1), ShouldBeFalse)
			So(band.Contains(75.3), ShouldBeFalse)
		})

		Convey("Values outside fail", func() {
			So(band.Contains(75.0), ShouldBeFalse)
			So(band.Contains(75.4), ShouldBeFalse)
		})
	})
}
