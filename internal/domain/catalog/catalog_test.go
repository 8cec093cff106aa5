package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/benchtrack/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c := catalog.Default()

		Convey("Then it has the five labs in display order", func() {
			So(c.LabKeys(), ShouldResemble, []string{"openai", "anthropic", "google", "xai", "meta"})
		})

		Convey("Then it tracks seven benchmark files", func() {
			So(len(c.Benchmarks), ShouldEqual, 7)
			So(c.Files(), ShouldContain, "swe_bench_verified.csv")
			So(c.Files(), ShouldContain, "otis_mock_aime_2024_2025.csv")
		})

		Convey("Then organization aliases resolve to labs", func() {
			lab, ok := c.LabForAlias("google deepmind")
			So(ok, ShouldBeTrue)
			So(lab, ShouldEqual, "google")
			lab, ok = c.LabForAlias("x.ai")
			So(ok, ShouldBeTrue)
			So(lab, ShouldEqual, "xai")
			_, ok = c.LabForAlias("mistral ai")
			So(ok, ShouldBeFalse)
		})

		Convey("Then benchmarks carry their preferred score column", func() {
			b, ok := c.Benchmark("mmlu")
			So(ok, ShouldBeTrue)
			So(b.ScoreColumn, ShouldEqual, "EM")
			So(b.File, ShouldEqual, "mmlu_external.csv")
			So(c.HasLab("meta"), ShouldBeTrue)
			So(c.HasLab("mistral"), ShouldBeFalse)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given catalog documents", t, func() {
		Convey("When an alias points to an unknown lab", func() {
			_, err := catalog.Parse([]byte(`
labs: [{key: openai}]
organizations: {acme: acme}
`))
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When two benchmarks share a file", func() {
			_, err := catalog.Parse([]byte(`
labs: [{key: openai}]
benchmarks:
  - {key: a, file: x.csv}
  - {key: b, file: x.csv}
`))
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When aliases use mixed case", func() {
			c, err := catalog.Parse([]byte(`
labs: [{key: openai}]
organizations: {"  OpenAI ": openai}
`))
			So(err, ShouldBeNil)
			lab, ok := c.LabForAlias("openai")
			So(ok, ShouldBeTrue)
			So(lab, ShouldEqual, "openai")
		})

		Convey("When the document is not YAML", func() {
			_, err := catalog.Parse([]byte("labs: [unclosed"))
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})
	})
}
