// internal/config/config.go
//
// This package handles configuration and the ~/.researchmatch directory.
// The directory holds the config file, the stored session and the logbook.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/researchmatch/internal/domain"
)

const (
	// HomeDirName is the directory created under the user's home.
	HomeDirName = ".researchmatch"

	// Environment variables that override the config file.
	EnvHome        = "RESEARCHMATCH_HOME"
	EnvEnvironment = "RESEARCHMATCH_ENV"
	EnvAPIOrigin   = "RESEARCHMATCH_API_ORIGIN"
	EnvDevURL      = "RESEARCHMATCH_DEV_URL"

	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"

	defaultDevelopmentURL = "http://localhost:8000"
	defaultSandboxAddr    = "127.0.0.1:8000"
	defaultSeedProfiles   = 24
	defaultTokenTTL       = 30 * time.Minute
)

const defaultConfigYAML = `# researchmatch client configuration
version: 1

# development talks to api.development_url directly.
# production talks to <api.origin>/api.
environment: development

api:
  origin: ""
  development_url: http://localhost:8000

# Organizations offered at registration and in the results filter.
# "Other" is always appended.
organizations:
  - Carilion Clinic - Department of Medicine
  - Virginia Tech
  - Virginia Tech - FBRI

# Local stand-in for the matching API (researchmatch sandbox).
sandbox:
  addr: 127.0.0.1:8000
  seed_profiles: 24
  token_ttl: 30m
`

// APIConfig locates the remote API.
type APIConfig struct {
	Origin         string `yaml:"origin"`
	DevelopmentURL string `yaml:"development_url"`
}

// SandboxConfig configures the local sandbox server.
type SandboxConfig struct {
	Addr         string        `yaml:"addr"`
	SeedProfiles int           `yaml:"seed_profiles"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// FileConfig models ~/.researchmatch/config.yaml.
type FileConfig struct {
	Version       int           `yaml:"version"`
	Environment   string        `yaml:"environment"`
	API           APIConfig     `yaml:"api"`
	Organizations []string      `yaml:"organizations"`
	Sandbox       SandboxConfig `yaml:"sandbox"`
}

// Config holds the runtime configuration.
type Config struct {
	// HomeDir is ~/.researchmatch or $RESEARCHMATCH_HOME.
	HomeDir string

	File FileConfig
}

// Load resolves the home directory, creates it with a default config file on
// first run, reads the file and applies .env and environment overrides.
func Load() (*Config, error) {
	home, err := ResolveHome()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home)
}

// ResolveHome returns the configured home directory.
func ResolveHome() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvHome)); dir != "" {
		return filepath.Clean(dir), nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home: %w", err)
	}
	return filepath.Join(userHome, HomeDirName), nil
}

// LoadFrom is Load with an explicit home directory.
func LoadFrom(home string) (*Config, error) {
	if err := InitHomeDir(home); err != nil {
		return nil, err
	}
	// A missing .env is the common case.
	_ = godotenv.Load()

	cfg := &Config{HomeDir: home, File: defaultFileConfig()}
	if err := cfg.loadFileConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitHomeDir creates the directory structure and the default config file.
//
// Structure created:
// ~/.researchmatch/
// ├── config.yaml
// ├── session.yaml   <- written on login
// └── logs/
func InitHomeDir(home string) error {
	if err := os.MkdirAll(filepath.Join(home, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure home dir: %w", err)
	}
	return ensureConfigFile(filepath.Join(home, "config.yaml"))
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.HomeDir, "config.yaml")
}

// SessionPath returns where the session store persists the token.
func (c *Config) SessionPath() string {
	return filepath.Join(c.HomeDir, "session.yaml")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, "logs")
}

// LogPath returns the logbook file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "researchmatch.log")
}

// Environment returns the deployment environment.
func (c *Config) Environment() string {
	return c.File.Environment
}

// Organizations returns the organization options without the "Other" sentinel.
func (c *Config) Organizations() []string {
	return c.File.Organizations
}

// Sandbox returns the sandbox settings.
func (c *Config) Sandbox() SandboxConfig {
	return c.File.Sandbox
}

func (c *Config) loadFileConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	parsed.applyDefaults()
	parsed.applyEnv()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version:       1,
		Environment:   EnvironmentDevelopment,
		API:           APIConfig{DevelopmentURL: defaultDevelopmentURL},
		Organizations: append([]string(nil), domain.DefaultOrganizations...),
		Sandbox: SandboxConfig{
			Addr:         defaultSandboxAddr,
			SeedProfiles: defaultSeedProfiles,
			TokenTTL:     defaultTokenTTL,
		},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Environment) == "" {
		fc.Environment = EnvironmentDevelopment
	}
	if strings.TrimSpace(fc.API.DevelopmentURL) == "" {
		fc.API.DevelopmentURL = defaultDevelopmentURL
	}
	if len(fc.Organizations) == 0 {
		fc.Organizations = append([]string(nil), domain.DefaultOrganizations...)
	}
	if strings.TrimSpace(fc.Sandbox.Addr) == "" {
		fc.Sandbox.Addr = defaultSandboxAddr
	}
	if fc.Sandbox.SeedProfiles == 0 {
		fc.Sandbox.SeedProfiles = defaultSeedProfiles
	}
	if fc.Sandbox.TokenTTL == 0 {
		fc.Sandbox.TokenTTL = defaultTokenTTL
	}
}

func (fc *FileConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEnvironment)); v != "" {
		fc.Environment = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIOrigin)); v != "" {
		fc.API.Origin = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDevURL)); v != "" {
		fc.API.DevelopmentURL = v
	}
}

func (fc *FileConfig) normalize() {
	fc.Environment = strings.ToLower(strings.TrimSpace(fc.Environment))
	fc.API.Origin = strings.TrimRight(strings.TrimSpace(fc.API.Origin), "/")
	fc.API.DevelopmentURL = strings.TrimRight(strings.TrimSpace(fc.API.DevelopmentURL), "/")
	orgs := make([]string, 0, len(fc.Organizations))
	for _, org := range fc.Organizations {
		org = strings.TrimSpace(org)
		if org == "" || org == domain.OrganizationOther || contains(orgs, org) {
			continue
		}
		orgs = append(orgs, org)
	}
	fc.Organizations = orgs
	fc.Sandbox.Addr = strings.TrimSpace(fc.Sandbox.Addr)
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch fc.Environment {
	case EnvironmentDevelopment:
	case EnvironmentProduction:
		if err := validateAbsoluteURL(fc.API.Origin); err != nil {
			return fmt.Errorf("api.origin: %w", err)
		}
	default:
		return fmt.Errorf("environment must be 'development' or 'production'")
	}
	if err := validateAbsoluteURL(fc.API.DevelopmentURL); err != nil {
		return fmt.Errorf("api.development_url: %w", err)
	}
	if fc.Sandbox.SeedProfiles < 0 {
		return fmt.Errorf("sandbox.seed_profiles must be >= 0")
	}
	if fc.Sandbox.TokenTTL < 0 {
		return fmt.Errorf("sandbox.token_ttl must be positive")
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// SetEnvironment switches the deployment environment and persists it back
// to config.yaml.
func (c *Config) SetEnvironment(env string) error {
	prev := c.File.Environment
	c.File.Environment = env
	if err := c.saveFileConfig(); err != nil {
		c.File.Environment = prev
		return err
	}
	return nil
}

func (c *Config) saveFileConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure home dir: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
