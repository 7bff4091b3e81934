package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the upload UI.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration. Values come from
// the YAML file first, then environment overrides, then CLI flags.
// Environment variables are read exactly once, at Load time; nothing
// downstream consults the environment directly.
type Config struct {
	// Listen is the HTTP listen address for the upload UI.
	Listen string `yaml:"listen" json:"listen" envconfig:"TRIPGEN_LISTEN"`

	// Timezone is the display timezone tier below a per-request user
	// choice (IANA name, e.g. "Europe/Paris"). Empty means the trip's
	// own destination timezone decides.
	Timezone string `yaml:"timezone" json:"timezone" envconfig:"TZ"`

	// GotenbergURL is the HTML-to-PDF conversion endpoint. Empty
	// selects the local headless-Chromium converter.
	GotenbergURL string `yaml:"gotenberg_url" json:"gotenberg_url" envconfig:"TRIPGEN_GOTENBERG_URL"`

	// TemplatePath overrides the embedded default itinerary template.
	TemplatePath string `yaml:"template_path" json:"template_path" envconfig:"TRIPGEN_TEMPLATE_PATH"`

	// ArtifactDir is where uploaded inputs and generated outputs are
	// written in server mode.
	ArtifactDir string `yaml:"artifact_dir" json:"artifact_dir" envconfig:"TRIPGEN_ARTIFACT_DIR"`

	// CleanupCron is a cron-style schedule for expiring old artifacts.
	CleanupCron string `yaml:"cleanup" json:"cleanup"`

	// ArtifactTTLMinutes is how long generated artifacts are kept.
	ArtifactTTLMinutes int `yaml:"artifact_ttl_minutes" json:"artifact_ttl_minutes"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             "127.0.0.1:8080",
		Timezone:           "",
		GotenbergURL:       "",
		ArtifactDir:        "./artifacts",
		CleanupCron:        "*/15 * * * *",
		ArtifactTTLMinutes: 60,
		BasicAuth:          nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.ArtifactDir == "" {
		c.ArtifactDir = "./artifacts"
	}
	if c.CleanupCron == "" {
		c.CleanupCron = "*/15 * * * *"
	}
	if c.ArtifactTTLMinutes <= 0 {
		c.ArtifactTTLMinutes = 60
	}
}

// Load loads configuration from the given YAML path and applies
// environment overrides.
//
// Behavior:
//   - path == "": defaults plus environment only, no file access.
//   - file does not exist: create parent dir, write a default config
//     with 0600 perms, return it (with environment applied).
//   - file exists: read YAML, apply environment, normalize.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		if err := envconfig.Process("tripgen", cfg); err != nil {
			return nil, err
		}
		cfg.Normalize()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create a default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			if err := envconfig.Process("tripgen", cfg); err != nil {
				return nil, err
			}
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("tripgen", &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Final file permissions are 0600 (basic auth credentials).
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

	tmp, err := os.CreateTemp(dir, ".tripgen-config-*.tmp")
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
