package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/madrasahweb/site/internal/platform/logging"
)

type siteTestConfig struct {
	HTTPAddr string        `env:"ENTRYPOINT_TEST_HTTP_ADDR" envDefault:":8080"`
	Dataset  string        `env:"ENTRYPOINT_TEST_DATASET" envDefault:"production"`
	TTL      time.Duration `env:"ENTRYPOINT_TEST_TTL" envDefault:"60s"`
}

func TestParseConfigThenFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ENTRYPOINT_TEST_HTTP_ADDR", ":9000")
	t.Setenv("ENTRYPOINT_TEST_DATASET", "staging")

	var cfg siteTestConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listen address")
	fs.StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "dataset")
	if err := ParseArgs(fs, []string{"-http-addr", ":9001"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	if cfg.HTTPAddr != ":9001" {
		t.Fatalf("HTTPAddr = %q, want flag value", cfg.HTTPAddr)
	}
	if cfg.Dataset != "staging" {
		t.Fatalf("Dataset = %q, want env value", cfg.Dataset)
	}
	if cfg.TTL != time.Minute {
		t.Fatalf("TTL = %v, want default", cfg.TTL)
	}
}

func TestParseConfigFromArgs(t *testing.T) {
	t.Setenv("ENTRYPOINT_TEST_TTL", "5m")

	var cfg siteTestConfig
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.StringVar(&cfg.Dataset, "dataset", "", "dataset")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-dataset", "fixtures"}); err != nil {
		t.Fatalf("ParseConfigFromArgs() error = %v", err)
	}
	if cfg.Dataset != "fixtures" || cfg.TTL != 5*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[siteTestConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil parser error")
	}
}

func TestRunWithTelemetryValidatesInputs(t *testing.T) {
	noop := func(context.Context) error { return nil }
	tests := []struct {
		name    string
		ctx     context.Context
		service string
		run     func(context.Context) error
	}{
		{name: "service", ctx: context.Background(), service: " ", run: noop},
		{name: "run", ctx: context.Background(), service: ServiceWeb},
		{name: "context", service: ServiceWeb, run: noop},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := RunWithTelemetry(tc.ctx, tc.service, tc.run); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("SITE_OTEL_ENDPOINT", "")

	want := errors.New("seed failed")
	err := RunWithTelemetryAndOptions(context.Background(), ServiceSeed, RunOptions{
		Logging: &logging.Settings{Level: "error", Format: "json"},
	}, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
