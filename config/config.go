package config

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "http://localhost:8000"

// Config is the client's settings file plus environment overrides.
type Config struct {
	APIBaseURL          string `json:"apiBaseUrl"`
	PollIntervalSeconds int    `json:"pollIntervalSeconds"`
	TokenPath           string `json:"tokenPath"`
	LogPath             string `json:"logPath"`
	TutorialSeen        bool   `json:"tutorialSeen"`
}

// PollInterval is the meeting-notification poll period.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Manager handles loading, saving, and accessing the settings file.
type Manager struct {
	filePath string
	cfg      *Config
	mu       sync.RWMutex
}

// NewManager loads the settings file, creating it with defaults when
// missing. A .env file in the working directory and ASSISTANT_*
// environment variables override the stored values.
func NewManager(filePath string) (*Manager, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	m := &Manager{
		filePath: filePath,
		cfg:      defaults(),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	m.applyEnv()
	return m, nil
}

func defaults() *Config {
	return &Config{
		APIBaseURL:          defaultAPIBaseURL,
		PollIntervalSeconds: 60,
		TokenPath:           "token.json",
		LogPath:             "assistant.log",
	}
}

func (m *Manager) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return m.save() // Create the file with defaults
		}
		return err
	}

	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func (m *Manager) applyEnv() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v := os.Getenv("ASSISTANT_API_URL"); v != "" {
		m.cfg.APIBaseURL = v
	}
	if v := os.Getenv("ASSISTANT_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			m.cfg.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("ASSISTANT_TOKEN_PATH"); v != "" {
		m.cfg.TokenPath = v
	}
	if v := os.Getenv("ASSISTANT_LOG_PATH"); v != "" {
		m.cfg.LogPath = v
	}
}

// save writes the current settings. Callers hold the lock.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.cfg
}

// SetTutorialSeen records that the onboarding tutorial was completed.
func (m *Manager) SetTutorialSeen(seen bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.TutorialSeen == seen {
		return nil
	}
	m.cfg.TutorialSeen = seen
	return m.save()
}
