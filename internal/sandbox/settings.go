package sandbox

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/researchmatch/internal/config"
)

const (
	// DefaultHost is the loopback interface used when no host override is provided.
	DefaultHost = "127.0.0.1"
	// DefaultPort matches the development API address the client expects.
	DefaultPort = 8000
	// DefaultMaxBodyBytes limits request payloads to 1 MB.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds handler writes.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
	// DefaultTokenTTL is the lifetime of issued access tokens.
	DefaultTokenTTL = 30 * time.Minute
	// DefaultMatchLimit caps the candidates returned by a match request.
	DefaultMatchLimit = 10
)

// Settings captures runtime configuration for the sandbox API server.
type Settings struct {
	Host         string
	Port         int
	Secret       string
	TokenTTL     time.Duration
	SeedProfiles int
	Seed         int64
	MatchLimit   int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig builds Settings from the sandbox section of the config
// and environment overrides.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Host:         DefaultHost,
		Port:         DefaultPort,
		TokenTTL:     DefaultTokenTTL,
		MatchLimit:   DefaultMatchLimit,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	if cfg != nil {
		raw := cfg.Sandbox()
		settings.SetAddress(raw.Addr)
		settings.SeedProfiles = raw.SeedProfiles
		if raw.TokenTTL > 0 {
			settings.TokenTTL = raw.TokenTTL
		}
	}
	settings.applyEnvOverrides()
	settings.normalize()
	return settings
}

// SetAddress applies a host:port string; unparsable parts are ignored.
func (s *Settings) SetAddress(addr string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host = strings.TrimSpace(host); host != "" {
		s.Host = host
	}
	if parsed, err := strconv.Atoi(port); err == nil && isValidPort(parsed) {
		s.Port = parsed
	}
}

func (s *Settings) applyEnvOverrides() {
	if s == nil {
		return
	}
	if secret := strings.TrimSpace(os.Getenv("RESEARCHMATCH_SANDBOX_SECRET")); secret != "" {
		s.Secret = secret
	}
	if addr := strings.TrimSpace(os.Getenv("RESEARCHMATCH_SANDBOX_ADDR")); addr != "" {
		s.SetAddress(addr)
	}
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port != 0 && !isValidPort(s.Port) {
		s.Port = DefaultPort
	}
	if s.TokenTTL <= 0 {
		s.TokenTTL = DefaultTokenTTL
	}
	if s.SeedProfiles < 0 {
		s.SeedProfiles = 0
	}
	if s.MatchLimit <= 0 {
		s.MatchLimit = DefaultMatchLimit
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
