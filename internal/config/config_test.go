package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Mode != "local" {
		t.Errorf("Store.Mode = %q, want local", cfg.Store.Mode)
	}
	if cfg.Store.TableName != "intervals" {
		t.Errorf("Store.TableName = %q, want intervals", cfg.Store.TableName)
	}
	if cfg.Pipeline.GapMinutes != 30 {
		t.Errorf("Pipeline.GapMinutes = %d, want 30", cfg.Pipeline.GapMinutes)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
}

func TestLoad_RejectsUnknownConnMode(t *testing.T) {
	t.Setenv("FISHTRACK_CONN", "bogus")
	if _, err := Load(); err == nil {
		t.Error("Load() with unknown FISHTRACK_CONN returned nil error")
	}
}

func TestLoad_GapMinutesFromEnv(t *testing.T) {
	t.Setenv("GAP_MINUTES", "45")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.GapMinutes != 45 {
		t.Errorf("Pipeline.GapMinutes = %d, want 45", cfg.Pipeline.GapMinutes)
	}
}
