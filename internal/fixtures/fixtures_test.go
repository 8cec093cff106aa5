package fixtures_test

import (
	"testing"

	"github.com/okian/benchtrack/internal/adapters/archive"
	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/normalize"
	"github.com/okian/benchtrack/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSampleArchive(t *testing.T) {
	Convey("Given the sample archive", t, func() {
		data, err := fixtures.SampleArchive()
		So(err, ShouldBeNil)

		c, err := archive.Read(data, catalog.Default().Files())

		Convey("Then it holds every catalog file", func() {
			So(err, ShouldBeNil)
			So(c.Missing, ShouldBeEmpty)
			So(len(c.Files), ShouldEqual, len(catalog.Default().Benchmarks))
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a generated archive", t, func() {
		cat := catalog.Default()
		files := fixtures.Generate(cat, 40, 7)

		Convey("Then each file parses with the requested row count", func() {
			So(len(files), ShouldEqual, len(cat.Benchmarks))
			for _, b := range cat.Benchmarks {
				tbl, err := normalize.ParseTable(files[b.File])
				So(err, ShouldBeNil)
				So(len(tbl.Rows), ShouldEqual, 40)
				So(tbl.Headers[1], ShouldEqual, b.ScoreColumn)
			}
		})

		Convey("Then the same seed is reproducible", func() {
			So(fixtures.Generate(cat, 40, 7), ShouldResemble, files)
		})
	})
}
