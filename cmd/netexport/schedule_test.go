package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dna-hq/netexport/pkg/cli"
)

func TestRunSchedule_RunNow(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "actors.yaml"), []byte(actorsSetting), 0644); err != nil {
		t.Fatal(err)
	}
	metricsFile := filepath.Join(t.TempDir(), "netexport.prom")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	opts := scheduleOptions{schedule: "@hourly", runNow: true, metricsFile: metricsFile, metricsAddr: "127.0.0.1:0"}
	go func() {
		done <- runSchedule(ctx, cfg, dir, opts, &bytes.Buffer{})
	}()

	out := filepath.Join(cfg.Export.OutputDir, "actors.csv")
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(metricsFile); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runSchedule() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runSchedule() did not return after cancel")
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("--run-now should export immediately: %v", err)
	}
	if _, err := os.Stat(metricsFile); err != nil {
		t.Errorf("metrics textfile not written: %v", err)
	}
}

func TestRunSchedule_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)

	err := runSchedule(context.Background(), cfg, t.TempDir(), scheduleOptions{schedule: "every tuesday"}, &bytes.Buffer{})
	if code := cli.ExitCode(err); code != cli.ExitUsage {
		t.Errorf("ExitCode() = %d for error %v, want %d", code, err, cli.ExitUsage)
	}
}
