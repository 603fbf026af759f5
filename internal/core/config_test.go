package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ContactThreshold != 0.5 {
		t.Fatalf("unexpected threshold %v", cfg.ContactThreshold)
	}
	if cfg.MaxPassFactor != 10 {
		t.Fatalf("unexpected pass factor %d", cfg.MaxPassFactor)
	}
	if cfg.ContactTimeout != 0 {
		t.Fatalf("unexpected timeout %v", cfg.ContactTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := writeConfig(t, "contact_threshold: 0.7\ncontact_timeout: 250ms\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContactThreshold != 0.7 {
		t.Fatalf("expected threshold 0.7, got %v", cfg.ContactThreshold)
	}
	if cfg.ContactTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms timeout, got %v", cfg.ContactTimeout)
	}
	// Absent keys keep their defaults.
	if cfg.MaxPassFactor != DefaultMaxPassFactor {
		t.Fatalf("expected default pass factor, got %d", cfg.MaxPassFactor)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"threshold range": "contact_threshold: 1.5\n",
		"pass factor":     "max_pass_factor: 0\n",
		"timeout format":  "contact_timeout: soon\n",
		"yaml shape":      "contact_threshold: [\n",
	}
	for name, contents := range cases {
		if _, err := LoadConfig(writeConfig(t, contents)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
