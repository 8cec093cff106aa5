package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.runsTotal.WithLabelValues("success").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_runs_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording dropped rows", func() {
			before := testutil.ToFloat64(globalManager.rowsDropped.WithLabelValues("mmlu", "bad_date"))
			RecordRowsDropped("mmlu", "bad_date", 3)
			RecordRowsDropped("mmlu", "bad_date", 0)

			Convey("Then only positive counts are added", func() {
				after := testutil.ToFloat64(globalManager.rowsDropped.WithLabelValues("mmlu", "bad_date"))
				So(after-before, ShouldEqual, 3)
			})
		})

		Convey("When recording a failed upsert", func() {
			errsBefore := testutil.ToFloat64(globalManager.upsertErrors)
			rowsBefore := testutil.ToFloat64(globalManager.rowsUpserted)
			RecordUpsert(10, 5*time.Millisecond, errors.New("down"))

			Convey("Then the error counter moves and rows do not", func() {
				So(testutil.ToFloat64(globalManager.upsertErrors)-errsBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.rowsUpserted), ShouldEqual, rowsBefore)
			})
		})

		Convey("When recording run level metrics", func() {
			So(func() {
				RecordRun("success", 2*time.Second)
				SetLastSuccess(time.Unix(1700000000, 0))
				SetArchiveBytes(1024)
				RecordFile("hle", "processed")
				RecordRowsAccepted(12)
				RecordUpsert(12, time.Millisecond, nil)
				RecordHTTPRequest("/api/scores", "GET", "200")
				RecordHTTPRequestDuration("/api/scores", "GET", "200", 4)
			}, ShouldNotPanic)

			Convey("Then the last success gauge holds the timestamp", func() {
				So(testutil.ToFloat64(globalManager.lastSuccessUnix), ShouldEqual, 1700000000)
			})
		})
	})
}

func TestPush(t *testing.T) {
	Convey("Given a pushgateway", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		Convey("When pushing the registry", func() {
			err := Push(context.Background(), srv.URL, "ci")

			Convey("Then the job and instance are in the URL", func() {
				So(err, ShouldBeNil)
				So(strings.Contains(gotPath, "/metrics/job/"+pushJobName), ShouldBeTrue)
				So(strings.Contains(gotPath, "/instance/ci"), ShouldBeTrue)
			})
		})

		Convey("When the gateway URL is empty", func() {
			Convey("Then push is a no-op", func() {
				So(Push(context.Background(), "", ""), ShouldBeNil)
			})
		})
	})

	Convey("Given a failing pushgateway", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		Convey("Then push reports ErrPush", func() {
			err := Push(context.Background(), srv.URL, "")
			So(errors.Is(err, ErrPush), ShouldBeTrue)
		})
	})
}
