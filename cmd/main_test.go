package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/okian/gauntlet/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApplyFlags(t *testing.T) {
	Convey("Given the root command", t, func() {
		fv := &flagValues{}
		cmd := buildRootCommand(fv)

		Convey("When no flags are set", func() {
			So(cmd.ParseFlags(nil), ShouldBeNil)
			cfg := config.New()
			cfg.TopN = 7 // e.g. from GAUNTLET_TOP_N

			applyFlags(cmd, fv, cfg)

			Convey("Then configuration values are kept", func() {
				So(cfg.TopN, ShouldEqual, 7)
				So(cfg.OutputPath, ShouldEqual, "top_crew.csv")
			})
		})

		Convey("When flags are set", func() {
			So(cmd.ParseFlags([]string{
				"--url", "http://localhost:9000/crew.json",
				"-n", "10",
				"--pairs", "4",
				"--timeout", "5s",
				"--metrics-file", "/tmp/g.prom",
				"--log-level", "debug",
			}), ShouldBeNil)
			cfg := config.New()

			applyFlags(cmd, fv, cfg)

			Convey("Then they override the configuration", func() {
				So(cfg.SourceURL, ShouldEqual, "http://localhost:9000/crew.json")
				So(cfg.TopN, ShouldEqual, 10)
				So(cfg.TopPairs, ShouldEqual, 4)
				So(cfg.HTTPTimeoutMS, ShouldEqual, 5000)
				So(cfg.MetricsPath, ShouldEqual, "/tmp/g.prom")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Validate(), ShouldBeNil)
			})
		})

		Convey("When --stdout is set alongside --output", func() {
			So(cmd.ParseFlags([]string{"-o", "x.csv", "--stdout"}), ShouldBeNil)
			cfg := config.New()

			applyFlags(cmd, fv, cfg)

			Convey("Then stdout wins", func() {
				So(cfg.OutputPath, ShouldBeEmpty)
			})
		})
	})
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestResolveConfig(t *testing.T) {
	Convey("Given an out-of-range top_pairs in the environment", t, func() {
		t.Setenv("GAUNTLET_TOP_PAIRS", "20")
		fv := &flagValues{}
		cmd := buildRootCommand(fv)

		Convey("When --pairs sets a valid value", func() {
			So(cmd.ParseFlags([]string{"--pairs", "3", "--stdout"}), ShouldBeNil)
			cfg, err := resolveConfig(context.Background(), cmd, fv)

			Convey("Then the flag wins and the config validates", func() {
				So(err, ShouldBeNil)
				So(cfg.TopPairs, ShouldEqual, 3)
				So(cfg.OutputPath, ShouldBeEmpty)
			})
		})

		Convey("When no flag overrides it", func() {
			So(cmd.ParseFlags(nil), ShouldBeNil)
			cfg, err := resolveConfig(context.Background(), cmd, fv)

			Convey("Then validation rejects it", func() {
				So(cfg, ShouldBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestRunFailureIsReportedOnce(t *testing.T) {
	t.Setenv("GAUNTLET_TOP_PAIRS", "20")
	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(io.Discard)

	runErr := cmd.Execute()

	if !errors.Is(runErr, config.ErrInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", runErr)
	}
	if !cmd.SilenceErrors {
		t.Error("errors returned from run should not be printed again by cobra")
	}
	if stderr.Len() != 0 {
		t.Errorf("cobra printed to its error writer: %q", stderr.String())
	}
}
