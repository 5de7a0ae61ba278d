package core

import (
	"testing"
	"time"

	"goping/config"
	"goping/internal/errors"
	"goping/internal/metrics"
)

func TestBuild_ListenMode(t *testing.T) {
	cfg := &config.Config{Listen: true, LocalPort: 9000}

	mode, err := Build(cfg, testLogger(), metrics.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	lm, ok := mode.(*ListenMode)
	if !ok {
		t.Fatalf("mode type = %T, want *ListenMode", mode)
	}
	if lm.Address != ":9000" {
		t.Errorf("address = %q, want %q", lm.Address, ":9000")
	}
	if lm.AcceptBackoff == nil {
		t.Error("accept backoff not set")
	}
}

func TestBuild_ConnectMode(t *testing.T) {
	cfg := &config.Config{Host: "example.com", Port: 9000}

	mode, err := Build(cfg, testLogger(), metrics.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cm, ok := mode.(*ConnectMode)
	if !ok {
		t.Fatalf("mode type = %T, want *ConnectMode", mode)
	}
	if cm.Address != "example.com:9000" {
		t.Errorf("address = %q", cm.Address)
	}
	if cm.Interval != config.DefaultInterval {
		t.Errorf("interval = %v, want default %v", cm.Interval, config.DefaultInterval)
	}
}

func TestBuild_ConnectOverrides(t *testing.T) {
	cfg := &config.Config{
		Host:     "127.0.0.1",
		Port:     9000,
		Interval: 250 * time.Millisecond,
		Count:    5,
	}

	mode, err := Build(cfg, testLogger(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cm := mode.(*ConnectMode)
	if cm.Interval != 250*time.Millisecond {
		t.Errorf("interval = %v", cm.Interval)
	}
	if cm.Count != 5 {
		t.Errorf("count = %d", cm.Count)
	}
}

func TestBuild_NoDNSRejectsHostname(t *testing.T) {
	cfg := &config.Config{Host: "example.com", Port: 9000, NoDNS: true}

	_, err := Build(cfg, testLogger(), nil)
	if err == nil {
		t.Fatal("expected error for hostname with DNS disabled")
	}
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error type = %T, want *errors.ConfigError", err)
	}
}

func TestBuild_NoDNSAcceptsLiteralIP(t *testing.T) {
	cfg := &config.Config{Host: "192.0.2.1", Port: 9000, NoDNS: true}

	if _, err := Build(cfg, testLogger(), nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
}
