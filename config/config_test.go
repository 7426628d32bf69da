package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.json")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := m.Get()
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("PollInterval = %v, want 60s", cfg.PollInterval())
	}
	if cfg.TutorialSeen {
		t.Error("TutorialSeen true on a fresh settings file")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not created: %v", err)
	}
}

func TestManagerReloadsSavedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.json")

	m1, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m1.SetTutorialSeen(true); err != nil {
		t.Fatalf("SetTutorialSeen: %v", err)
	}

	m2, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if !m2.Get().TutorialSeen {
		t.Error("TutorialSeen not persisted across managers")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_API_URL", "http://10.0.0.5:9000")
	t.Setenv("ASSISTANT_POLL_SECONDS", "15")

	m, err := NewManager(filepath.Join(t.TempDir(), "assistant.json"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()
	if cfg.APIBaseURL != "http://10.0.0.5:9000" {
		t.Errorf("APIBaseURL = %q, want the env override", cfg.APIBaseURL)
	}
	if cfg.PollInterval() != 15*time.Second {
		t.Errorf("PollInterval = %v, want 15s", cfg.PollInterval())
	}
}

func TestEnvOverrideIgnoresBadPollValue(t *testing.T) {
	t.Setenv("ASSISTANT_POLL_SECONDS", "not-a-number")

	m, err := NewManager(filepath.Join(t.TempDir(), "assistant.json"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Get().PollInterval() != 60*time.Second {
		t.Errorf("PollInterval = %v, want the 60s default", m.Get().PollInterval())
	}
}

func TestPollIntervalDefaultsWhenUnset(t *testing.T) {
	var c Config
	if c.PollInterval() != 60*time.Second {
		t.Errorf("zero-value PollInterval = %v, want 60s", c.PollInterval())
	}
	c.PollIntervalSeconds = -5
	if c.PollInterval() != 60*time.Second {
		t.Errorf("negative PollInterval = %v, want 60s", c.PollInterval())
	}
}
