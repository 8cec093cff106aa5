package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithWriter(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("fetcher").With(String("run_id", "abc")).Info(ctx, "downloaded", Int("bytes", 42))

			Convey("Then the record carries component, bound and call fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=downloaded")
				So(out, ShouldContainSubstring, "component=fetcher")
				So(out, ShouldContainSubstring, "run_id=abc")
				So(out, ShouldContainSubstring, "bytes=42")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info records are suppressed", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When an unknown level is given", func() {
			err := SetLevelString("loud")

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestLeveledAdapter(t *testing.T) {
	Convey("Given a leveled adapter over the global logger", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		So(SetLevelString("debug"), ShouldBeNil)
		adapter := NewLeveled(Get())

		Convey("When logging key/value pairs", func() {
			adapter.Error("request failed", "url", "https://example.com", "error", errors.New("boom"))
			adapter.Debug("odd pairs", "dangling")

			Convey("Then pairs become fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "url=https://example.com")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "extra=dangling")
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}
