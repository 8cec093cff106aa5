package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/benchtrack/internal/adapters/repository"
	"github.com/okian/benchtrack/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openSQLite(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.Settings{
		Driver: repository.DriverSQLite,
		URL:    ":memory:",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return store
}

func TestSQLStore(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		store := openSQLite(t)
		defer store.Close()
		storeContract(store)
	})

	Convey("Given more rows than one statement holds", t, func() {
		store := openSQLite(t)
		defer store.Close()
		sqlStore := store.(*repository.SQLStore)
		repository.WithChunkSize(2)(sqlStore)

		var rows []model.ScoreRow
		for _, lab := range []string{"openai", "anthropic", "google", "xai", "meta"} {
			rows = append(rows, row("swe-bench", lab, "Q3 2024", model.Score(50)))
		}
		err := store.Upsert(context.Background(), rows)

		Convey("Then every chunk is written", func() {
			So(err, ShouldBeNil)
			got, _ := store.List(context.Background())
			So(len(got), ShouldEqual, 5)
		})
	})

	Convey("Given a closed database", t, func() {
		store := openSQLite(t)
		So(store.Close(), ShouldBeNil)

		err := store.Upsert(context.Background(), []model.ScoreRow{row("mmlu", "openai", "Q1 2023", nil)})

		Convey("Then the write fails as an UpsertError", func() {
			So(errors.Is(err, repository.ErrUpsert), ShouldBeTrue)
			var ue *repository.UpsertError
			So(errors.As(err, &ue), ShouldBeTrue)
			So(ue.Driver, ShouldEqual, repository.DriverSQLite)
			So(ue.Message, ShouldNotBeBlank)
		})
	})

	Convey("Given an unsupported dialect", t, func() {
		_, err := repository.NewSQLStore(nil, "oracle")
		So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
	})
}
