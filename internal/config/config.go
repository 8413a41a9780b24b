package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"flacsort/internal/shared"
)

const (
	UserAgent         = "flacsort/1.0"
	DefaultMaxRetries = 3

	// MusicBrainz asks anonymous clients for at most one request per second.
	DefaultRateLimitMs = 1000

	DefaultBaseURL = "https://musicbrainz.org/ws/2/"
)

// Configuration structure
type Config struct {
	LibraryDir         string `json:"LibraryDir"`
	CheckDir           string `json:"CheckDir"`
	Extension          string `json:"Extension"`
	MusicBrainzURL     string `json:"MusicBrainzURL"`
	UserAgent          string `json:"UserAgent"`
	RateLimitMs        int    `json:"RateLimitMs"`
	LookupTimeoutSec   int    `json:"LookupTimeoutSec"`
	MaxRetryAttempts   int    `json:"MaxRetryAttempts"`
	SaveAlbumArt       bool   `json:"SaveAlbumArt"`
	ASCIINames         bool   `json:"ASCIINames"`
	SubsonicURL        string `json:"SubsonicURL"`
	SubsonicUsername   string `json:"SubsonicUsername"`
	SubsonicPassword   string `json:"SubsonicPassword"`
	WarningBehavior    string `json:"WarningBehavior"` // "immediate", "summary", or "silent"
	DisableUpdateCheck bool   `json:"DisableUpdateCheck"`
	UpdateRepo         string `json:"UpdateRepo,omitempty"`
	DryRun             bool   `json:"-"` // Not saved to config.json
	Debug              bool   `json:"-"` // Not saved to config.json
}

// GetDefaultConfig returns a config populated with defaults
func GetDefaultConfig() *Config {
	return &Config{
		LibraryDir:       "./library",
		CheckDir:         "./check",
		Extension:        ".flac",
		MusicBrainzURL:   DefaultBaseURL,
		UserAgent:        UserAgent,
		RateLimitMs:      DefaultRateLimitMs,
		LookupTimeoutSec: 10,
		MaxRetryAttempts: DefaultMaxRetries,
		SaveAlbumArt:     true,
		WarningBehavior:  "summary",
	}
}

// ApplyDefaults fills empty fields with default values
func (cfg *Config) ApplyDefaults() {
	defaults := GetDefaultConfig()

	if cfg.LibraryDir == "" {
		cfg.LibraryDir = defaults.LibraryDir
	}
	if cfg.CheckDir == "" {
		cfg.CheckDir = defaults.CheckDir
	}
	if cfg.Extension == "" {
		cfg.Extension = defaults.Extension
	}
	if cfg.MusicBrainzURL == "" {
		cfg.MusicBrainzURL = defaults.MusicBrainzURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.RateLimitMs <= 0 {
		cfg.RateLimitMs = defaults.RateLimitMs
	}
	if cfg.LookupTimeoutSec <= 0 {
		cfg.LookupTimeoutSec = defaults.LookupTimeoutSec
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = defaults.MaxRetryAttempts
	}
	if cfg.WarningBehavior == "" {
		cfg.WarningBehavior = defaults.WarningBehavior
	}
}

// LoadConfig loads configuration from a JSON file. A missing file is not
// an error; the caller gets the defaults.
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			*config = *GetDefaultConfig()
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ApplyDefaults()
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := shared.CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
