// Package config provides the YAML application configuration with first-run
// creation and 0600 permissions.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CalendarConfig holds Google Calendar sync settings.
type CalendarConfig struct {
	// CalendarID is the target calendar; "primary" targets the account default.
	CalendarID string `yaml:"calendar_id"`
	// SyncIntervalMinutes controls how often the poller runs.
	SyncIntervalMinutes int `yaml:"sync_interval_minutes"`
	// ClientID and ClientSecret are the OAuth application credentials.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	// RedirectURL is the loopback address used during the OAuth flow.
	RedirectURL string `yaml:"redirect_url"`
}

// VoiceConfig selects and configures the speech providers.
type VoiceConfig struct {
	// Provider is "openai", "google" or "fishaudio".
	Provider string `yaml:"provider"`
	// Language is the default recognition/synthesis language code.
	Language string `yaml:"language"`
	// WakeWords are the trigger phrases scanned for in transcripts.
	WakeWords []string `yaml:"wake_words"`
}

// Config is the top-level application configuration.
type Config struct {
	// DataDir holds the SQLite database and cached OAuth token.
	DataDir string `yaml:"data_dir"`

	// Timezone is the IANA timezone lessons are scheduled in.
	Timezone string `yaml:"timezone"`

	Calendar CalendarConfig `yaml:"calendar"`
	Voice    VoiceConfig    `yaml:"voice"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Timezone: "Local",
		Calendar: CalendarConfig{
			CalendarID:          "primary",
			SyncIntervalMinutes: 15,
			RedirectURL:         "http://127.0.0.1:8913/oauth/callback",
		},
		Voice: VoiceConfig{
			Provider: "openai",
			Language: "en",
		},
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = "primary"
	}
	if c.Calendar.SyncIntervalMinutes <= 0 {
		c.Calendar.SyncIntervalMinutes = 15
	}
	if c.Calendar.RedirectURL == "" {
		c.Calendar.RedirectURL = "http://127.0.0.1:8913/oauth/callback"
	}
	switch c.Voice.Provider {
	case "openai", "google", "fishaudio":
	default:
		c.Voice.Provider = "openai"
	}
	if c.Voice.Language == "" {
		c.Voice.Language = "en"
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "teachassist-data"
	}
	return filepath.Join(base, "teachassist")
}

// Load loads configuration from the given YAML path. A missing file is
// treated as a first run: a default config is written with 0600 perms and
// returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// final permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".teachassist-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
