package web

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8501" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SpecialNumber != 47 || cfg.SpecialMinute != 47 {
		t.Fatalf("special = %d/%d", cfg.SpecialNumber, cfg.SpecialMinute)
	}
	if cfg.Storage.DataDir != "data" || cfg.Storage.Backend != "json" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("MVM_HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("MVM_SPECIAL_NUMBER", "7")
	t.Setenv("MVM_STORAGE", "sqlite")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:8600", "-data-dir", "/tmp/mvm"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:8600" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SpecialNumber != 7 {
		t.Fatalf("SpecialNumber = %d", cfg.SpecialNumber)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.DataDir != "/tmp/mvm" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestParseConfigRejectsBadMinute(t *testing.T) {
	t.Setenv("MVM_SPECIAL_MINUTE", "75")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected special minute error")
	}
}

func TestRunRejectsUnknownStorage(t *testing.T) {
	t.Setenv("MVM_OTEL_ENDPOINT", "")

	cfg := Config{HTTPAddr: "127.0.0.1:0"}
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.Backend = "redis"
	cfg.Log.Format = "json"

	var logs bytes.Buffer
	err := run(context.Background(), cfg, &logs)
	if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Setenv("MVM_OTEL_ENDPOINT", "")

	cfg := Config{HTTPAddr: "127.0.0.1:0", SpecialNumber: 47, SpecialMinute: 47}
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.Backend = "json"
	cfg.Log.Format = "json"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var logs bytes.Buffer
	if err := run(ctx, cfg, &logs); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(logs.String(), "serving dashboard") {
		t.Fatalf("logs = %q", logs.String())
	}
}
