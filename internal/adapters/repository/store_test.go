package repository_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/benchtrack/internal/adapters/repository"
	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func row(benchmark, lab, quarter string, score *float64) model.ScoreRow {
	return model.ScoreRow{Benchmark: benchmark, Lab: lab, Quarter: quarter, Score: score}
}

func TestCollapse(t *testing.T) {
	in := []model.ScoreRow{
		row("mmlu", "openai", "Q1 2023", model.Score(1)),
		row("mmlu", "meta", "Q1 2023", model.Score(2)),
		row("mmlu", "openai", "Q1 2023", model.Score(3)),
	}
	want := []model.ScoreRow{
		row("mmlu", "openai", "Q1 2023", model.Score(3)),
		row("mmlu", "meta", "Q1 2023", model.Score(2)),
	}
	if diff := cmp.Diff(want, repository.Collapse(in)); diff != "" {
		t.Errorf("Collapse mismatch (-want +got):\n%s", diff)
	}
}

// storeContract runs the behavior every backend shares.
func storeContract(store repository.Store) {
	ctx := context.Background()

	Convey("When the same key is upserted twice", func() {
		So(store.Upsert(ctx, []model.ScoreRow{row("mmlu", "openai", "Q1 2023", model.Score(70))}), ShouldBeNil)
		So(store.Upsert(ctx, []model.ScoreRow{row("mmlu", "openai", "Q1 2023", model.Score(85.5))}), ShouldBeNil)

		Convey("Then one row holds the later value", func() {
			rows, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(*rows[0].Score, ShouldEqual, 85.5)
		})
	})

	Convey("When a present score is overwritten with an absent one", func() {
		So(store.Upsert(ctx, []model.ScoreRow{row("hle", "xai", "Q2 2024", model.Score(9))}), ShouldBeNil)
		So(store.Upsert(ctx, []model.ScoreRow{row("hle", "xai", "Q2 2024", nil)}), ShouldBeNil)

		Convey("Then the stored score is null", func() {
			rows, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Score, ShouldBeNil)
		})
	})

	Convey("When a batch repeats a key", func() {
		err := store.Upsert(ctx, []model.ScoreRow{
			row("gpqa", "google", "Q1 2025", model.Score(1)),
			row("gpqa", "google", "Q1 2025", model.Score(2)),
		})

		Convey("Then the last value wins", func() {
			So(err, ShouldBeNil)
			rows, _ := store.List(ctx)
			So(len(rows), ShouldEqual, 1)
			So(*rows[0].Score, ShouldEqual, 2)
		})
	})

	Convey("When rows arrive out of order", func() {
		So(store.Upsert(ctx, []model.ScoreRow{
			row("mmlu", "openai", "Q2 2023", model.Score(2)),
			row("aime", "meta", "Q1 2023", nil),
			row("mmlu", "anthropic", "Q1 2023", model.Score(3)),
			row("mmlu", "openai", "Q1 2023", model.Score(1)),
		}), ShouldBeNil)

		Convey("Then List orders by benchmark, lab and quarter", func() {
			rows, err := store.List(ctx)
			So(err, ShouldBeNil)
			keys := make([]string, len(rows))
			for i, r := range rows {
				keys[i] = r.Benchmark + "/" + r.Lab + "/" + r.Quarter
			}
			So(keys, ShouldResemble, []string{
				"aime/meta/Q1 2023",
				"mmlu/anthropic/Q1 2023",
				"mmlu/openai/Q1 2023",
				"mmlu/openai/Q2 2023",
			})
		})
	})

	Convey("When the batch is empty", func() {
		So(store.Upsert(ctx, nil), ShouldBeNil)

		Convey("Then nothing is stored", func() {
			rows, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}

func TestMemStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		store := repository.NewMemStore()
		storeContract(store)

		Convey("When a failure is injected", func() {
			store.FailNextUpsert("boom")
			err := store.Upsert(context.Background(), []model.ScoreRow{row("mmlu", "openai", "Q1 2023", model.Score(1))})

			Convey("Then an UpsertError carries the message and nothing is written", func() {
				So(errors.Is(err, repository.ErrUpsert), ShouldBeTrue)
				var ue *repository.UpsertError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Message, ShouldEqual, "boom")
				So(store.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	Convey("Given driver settings", t, func() {
		Convey("When the driver is unknown", func() {
			_, err := repository.Open(ctx, repository.Settings{Driver: "mongo"})
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})

		Convey("When supabase has no key", func() {
			_, err := repository.Open(ctx, repository.Settings{Driver: repository.DriverSupabase, URL: "https://x.supabase.co"})
			So(errors.Is(err, repository.ErrMissingSettings), ShouldBeTrue)
		})

		Convey("When sqlite has no path", func() {
			_, err := repository.Open(ctx, repository.Settings{Driver: repository.DriverSQLite})
			So(errors.Is(err, repository.ErrMissingSettings), ShouldBeTrue)
		})

		Convey("When memory is selected", func() {
			s, err := repository.Open(ctx, repository.Settings{Driver: repository.DriverMemory})
			So(err, ShouldBeNil)
			So(s, ShouldHaveSameTypeAs, &repository.MemStore{})
		})
	})
}
