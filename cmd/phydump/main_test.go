//go:build linux

package main

import (
	"log/slog"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig([]byte("netdev: eth0\nphyaddr: 3\nreset: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Netdev != "eth0" || cfg.PHYAddr != 3 || !cfg.Reset {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Driver != "dp83826" || cfg.LogLevel != "debug" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	if _, err := loadConfig([]byte("phyaddr: 1\n")); err == nil {
		t.Fatal("expected error for config without netdev")
	}
	if _, err := loadConfig([]byte(":\n:bad yaml")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("warn")
	if err != nil || lvl != slog.LevelWarn {
		t.Fatal(lvl, err)
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
