package normalize_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/normalize"
	"github.com/okian/benchtrack/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseTable(t *testing.T) {
	Convey("Given CSV text with noise", t, func() {
		text := "\uFEFFModel, Score ,Organization\n" +
			"  a , 0.5 , OpenAI \n" +
			"\n" +
			"b,0.7\n"

		tbl, err := normalize.ParseTable(text)

		Convey("Then headers and cells are trimmed and blank lines skipped", func() {
			So(err, ShouldBeNil)
			So(tbl.Headers, ShouldResemble, []string{"Model", "Score", "Organization"})
			So(len(tbl.Rows), ShouldEqual, 2)
			So(tbl.Get(tbl.Rows[0], "Organization"), ShouldEqual, "OpenAI")
		})

		Convey("Then short rows read missing cells as empty", func() {
			So(tbl.Get(tbl.Rows[1], "Organization"), ShouldEqual, "")
			So(tbl.Get(tbl.Rows[1], "Nope"), ShouldEqual, "")
		})
	})

	Convey("Given empty text", t, func() {
		tbl, err := normalize.ParseTable("")

		Convey("Then the table has no headers or rows", func() {
			So(err, ShouldBeNil)
			So(tbl.Headers, ShouldBeEmpty)
			So(tbl.Rows, ShouldBeEmpty)
		})
	})
}

func TestOrganizationKey(t *testing.T) {
	Convey("Given raw organization cells", t, func() {
		So(normalize.OrganizationKey("Google DeepMind, Google"), ShouldEqual, "google deepmind")
		So(normalize.OrganizationKey("  OpenAI "), ShouldEqual, "openai")
		So(normalize.OrganizationKey(""), ShouldEqual, "")
		So(normalize.OrganizationKey(",Meta"), ShouldEqual, "")
	})
}

func TestParseValues(t *testing.T) {
	Convey("Given date strings", t, func() {
		want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
		for _, s := range []string{"2024-03-05", "2024/03/05", "03/05/2024", "March 5, 2024", "Mar 5, 2024", "2024-03-05T00:00:00Z"} {
			d, err := normalize.ParseDate(s)
			So(err, ShouldBeNil)
			So(d.Equal(want), ShouldBeTrue)
		}

		_, err := normalize.ParseDate("not a date")
		So(errors.Is(err, normalize.ErrRecordParse), ShouldBeTrue)
		_, err = normalize.ParseDate("")
		So(err, ShouldNotBeNil)
	})

	Convey("Given score strings", t, func() {
		v, err := normalize.ParseScore(" 0.875 ")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 0.875)

		v, err = normalize.ParseScore("42.5%")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 42.5)

		for _, s := range []string{"", "n/a", "NaN", "Inf", "12abc"} {
			_, err = normalize.ParseScore(s)
			So(errors.Is(err, normalize.ErrRecordParse), ShouldBeTrue)
		}
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a table mixing good and bad rows", t, func() {
		text := "Model,Score,Release date,Organization\n" +
			"gpt-4,0.80,2023-03-14,OpenAI\n" +
			"claude,0.75,2023-07-11,\"Anthropic, Amazon\"\n" +
			"mystery,0.9,2023-01-01,Unknown Corp\n" +
			"nodate,0.9,,Google\n" +
			"noscore,,2023-05-01,Google DeepMind\n" +
			"gemini,0.70,2023-12-06,Google DeepMind\n"
		tbl, err := normalize.ParseTable(text)
		So(err, ShouldBeNil)
		cols, err := schema.Resolve(tbl.Headers, "Score")
		So(err, ShouldBeNil)

		res := normalize.New(catalog.Default()).Normalize(tbl, cols)

		Convey("Then accepted rows are grouped by lab", func() {
			So(len(res.Points["openai"]), ShouldEqual, 1)
			So(len(res.Points["anthropic"]), ShouldEqual, 1)
			So(len(res.Points["google"]), ShouldEqual, 1)
			So(res.Points["google"][0].Score, ShouldEqual, 0.70)
			So(res.Labs(catalog.Default().LabKeys()), ShouldResemble, []string{"openai", "anthropic", "google"})
		})

		Convey("Then each drop reason is counted", func() {
			d := res.Diagnostics
			So(d.Records, ShouldEqual, 6)
			So(d.Accepted, ShouldEqual, 3)
			So(d.UnknownOrg, ShouldEqual, 1)
			So(d.BadDate, ShouldEqual, 1)
			So(d.BadScore, ShouldEqual, 1)
			So(d.Dropped(), ShouldEqual, 3)
			So(d.ParseErrors(), ShouldEqual, 2)
			So(d.UnknownOrgs["unknown corp"], ShouldEqual, 1)
		})

		Convey("Then samples identify the rejected rows", func() {
			s := res.Diagnostics.Samples
			So(len(s), ShouldEqual, 3)
			So(s[0].Row, ShouldEqual, 3)
			So(s[0].Reason, ShouldEqual, normalize.ReasonUnknownOrg)
			So(errors.Is(s[1], normalize.ErrRecordParse), ShouldBeTrue)
		})

		Convey("Then Scores lists every accepted value", func() {
			So(len(res.Scores()), ShouldEqual, 3)
		})
	})

	Convey("Given a sample limit of zero", t, func() {
		tbl, _ := normalize.ParseTable("Score,Date,Organization\n1,2023-01-01,Nobody\n")
		cols := schema.Columns{Score: "Score", Date: "Date", Organization: "Organization"}

		res := normalize.New(catalog.Default(), normalize.WithMaxSamples(0)).Normalize(tbl, cols)

		Convey("Then counts are kept without samples", func() {
			So(res.Diagnostics.UnknownOrg, ShouldEqual, 1)
			So(res.Diagnostics.Samples, ShouldBeEmpty)
		})
	})
}
