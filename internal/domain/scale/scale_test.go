package scale_test

import (
	"testing"
	"time"

	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/scale"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFactor(t *testing.T) {
	Convey("Given fractional scores", t, func() {
		Convey("Then the factor is 100", func() {
			So(scale.Factor([]float64{0.12, 0.97, 0.5}), ShouldEqual, scale.Percent)
			So(scale.Factor([]float64{1.0}), ShouldEqual, scale.Percent)
		})
	})

	Convey("Given percentage scores", t, func() {
		Convey("Then the factor is 1", func() {
			So(scale.Factor([]float64{3.5, 42.0}), ShouldEqual, scale.Identity)
		})
	})

	Convey("Given no scores", t, func() {
		Convey("Then the factor is 1", func() {
			So(scale.Factor(nil), ShouldEqual, scale.Identity)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given points for two labs", t, func() {
		d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		in := map[string][]model.Point{
			"openai": {{Date: d, Score: 0.5}},
			"meta":   {{Date: d, Score: 0.25}, {Date: d, Score: 0.75}},
		}

		out := scale.Apply(in, scale.Percent)

		Convey("Then every score is multiplied and the input is untouched", func() {
			So(out["openai"][0].Score, ShouldEqual, 50)
			So(out["meta"][1].Score, ShouldEqual, 75)
			So(out["meta"][1].Date, ShouldEqual, d)
			So(in["openai"][0].Score, ShouldEqual, 0.5)
		})
	})
}
