package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/benchtrack/internal/app"
	"github.com/okian/benchtrack/internal/fixtures"
)

// cleanEnv removes configuration the host may carry.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BENCHTRACK_CONFIG", "BENCHTRACK_STORE_DRIVER", "BENCHTRACK_STORE_URL", "BENCHTRACK_STORE_KEY",
		"BENCHTRACK_ARCHIVE_URL", "BENCHTRACK_PUSHGATEWAY_URL", "SUPABASE_URL", "SUPABASE_SERVICE_KEY",
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestQuartersCommand(t *testing.T) {
	cleanEnv(t)

	convey.Convey("Given the quarters command", t, func() {
		code, out, _ := execute("quarters")

		convey.Convey("Then the default grid is printed with cutoffs", func() {
			convey.So(code, convey.ShouldEqual, 0)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			convey.So(len(lines), convey.ShouldEqual, 13)
			convey.So(lines[0], convey.ShouldContainSubstring, "Q1 2023")
			convey.So(lines[0], convey.ShouldContainSubstring, "2023-03-31T23:59:59.999999999Z")
			convey.So(lines[12], convey.ShouldContainSubstring, "Q1 2026")
		})
	})
}

func TestUpdateCommand(t *testing.T) {
	cleanEnv(t)

	convey.Convey("Given no store credentials", t, func() {
		code, _, errOut := execute("update")

		convey.Convey("Then the update exits non-zero naming the missing settings", func() {
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "SUPABASE_URL")
			convey.So(errOut, convey.ShouldContainSubstring, "SUPABASE_SERVICE_KEY")
		})
	})

	convey.Convey("Given a dry run against a local archive", t, func() {
		data, err := fixtures.SampleArchive()
		convey.So(err, convey.ShouldBeNil)
		srv := httptest.NewServer(fixtures.Handler(data))
		defer srv.Close()

		code, out, errOut := execute("update", "--dry-run", "--json", "--workers", "3",
			"--archive-url", srv.URL+"/"+fixtures.ArchiveName)

		convey.Convey("Then the report lists every benchmark", func() {
			convey.So(code, convey.ShouldEqual, 0)
			var rep service.Report
			convey.So(json.Unmarshal([]byte(out), &rep), convey.ShouldBeNil)
			convey.So(rep.RowsWritten, convey.ShouldEqual, 455)
			convey.So(rep.Processed(), convey.ShouldEqual, 7)
			convey.So(errOut, convey.ShouldContainSubstring, "update complete")
		})
	})

	convey.Convey("Given an archive URL that fails", t, func() {
		srv := httptest.NewServer(nil)
		defer srv.Close()

		code, _, errOut := execute("update", "--dry-run", "--archive-url", srv.URL+"/nothing.zip")

		convey.Convey("Then the update exits non-zero", func() {
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "status 404")
		})
	})
}

func TestUpdateCommandSQLite(t *testing.T) {
	cleanEnv(t)
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	t.Setenv("BENCHTRACK_STORE_DRIVER", "sqlite")
	t.Setenv("BENCHTRACK_STORE_URL", dbPath)

	convey.Convey("Given the sqlite driver", t, func() {
		data, _ := fixtures.SampleArchive()
		srv := httptest.NewServer(fixtures.Handler(data))
		defer srv.Close()

		code, _, errOut := execute("update", "--archive-url", srv.URL+"/"+fixtures.ArchiveName)

		convey.Convey("Then rows are persisted to the database file", func() {
			convey.So(code, convey.ShouldEqual, 0)
			convey.So(errOut, convey.ShouldNotContainSubstring, "level=ERROR")
			info, err := os.Stat(dbPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("Then a chart can be rendered from the stored rows", func() {
			png := filepath.Join(t.TempDir(), "mmlu.png")
			code, _, errOut := execute("chart", "--benchmark", "mmlu", "--out", png)
			convey.So(code, convey.ShouldEqual, 0)
			convey.So(errOut, convey.ShouldContainSubstring, "chart written")
			raw, err := os.ReadFile(png)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw[1:4]), convey.ShouldEqual, "PNG")

			code, _, errOut = execute("chart", "--benchmark", "nope")
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "unknown benchmark")
		})
	})
}

func TestFixtureCommand(t *testing.T) {
	cleanEnv(t)

	convey.Convey("Given the fixture command", t, func() {
		out := filepath.Join(t.TempDir(), "sample.zip")

		code, _, _ := execute("fixture", "--out", out, "--rows", "25", "--seed", "3")

		convey.Convey("Then a zip archive is written", func() {
			convey.So(code, convey.ShouldEqual, 0)
			raw, err := os.ReadFile(out)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw[:2]), convey.ShouldEqual, "PK")
		})

		convey.Convey("Then it refuses to run without a target", func() {
			code, _, errOut := execute("fixture")
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(errOut, convey.ShouldContainSubstring, "--out")
		})
	})
}
