// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
)

// Prefix is the environment variable prefix every setting is read under.
const Prefix = "COSTUMEDESK"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	AuthScheme     string        `envconfig:"AUTH_SCHEME" default:"Basic"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3"`
	ListenAddr     string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8080"`
	DBPath         string        `envconfig:"DB_PATH" default:"~/.costumedesk/costumedesk.db"`
	SecretKeyHex   string        `envconfig:"SECRET_KEY"`
	DownloadDir    string        `envconfig:"DOWNLOAD_DIR" default:"."`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`
	HTTPCache      bool          `envconfig:"HTTP_CACHE" default:"true"`

	// SecretKey is the decoded SecretKeyHex; nil stores credentials unencrypted.
	SecretKey []byte `ignored:"true"`
}

// HasSecretKey returns true when credentials will be encrypted at rest.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// SlogLevel returns the configured log level. Load has already validated it.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads COSTUMEDESK_* environment variables and returns a validated
// Config. Every variable is optional; see the struct tags for defaults.
// COSTUMEDESK_SECRET_KEY, when set, must be 64 hex characters (AES-256).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dbPath, err := homedir.Expand(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%s_DB_PATH %q: %w", Prefix, cfg.DBPath, err)
	}
	cfg.DBPath = dbPath

	downloadDir, err := homedir.Expand(cfg.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("%s_DOWNLOAD_DIR %q: %w", Prefix, cfg.DownloadDir, err)
	}
	cfg.DownloadDir = downloadDir

	if cfg.SecretKeyHex != "" {
		key, err := hex.DecodeString(cfg.SecretKeyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("%s_SECRET_KEY must be 64 hex characters", Prefix)
		}
		cfg.SecretKey = key
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s_API_BASE_URL must be an absolute http(s) URL, got %q", Prefix, c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s_REQUEST_TIMEOUT must be positive, got %s", Prefix, c.RequestTimeout)
	}
	if strings.TrimSpace(c.AuthScheme) == "" {
		return fmt.Errorf("%s_AUTH_SCHEME must not be empty", Prefix)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%s_MAX_RETRIES must be at least 1, got %d", Prefix, c.MaxRetries)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("%s_LISTEN_ADDR must not be empty", Prefix)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL %q: %w", Prefix, c.LogLevel, err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be json or text, got %q", Prefix, c.LogFormat)
	}

	return nil
}
