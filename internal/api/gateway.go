// Package api reaches the matching service: the gateway maps logical
// endpoints to absolute URLs for the deployment environment and the client
// performs the typed calls.
package api

import (
	"fmt"
	"strings"
)

// Endpoint paths, relative to the gateway base.
const (
	EndpointLogin        = "/auth/login"
	EndpointRegister     = "/auth/register"
	EndpointProfileMe    = "/profile/me"
	EndpointMatch        = "/api/match"
	EndpointSavedMatches = "/matches/saved"
)

// EndpointProfile is the path of another researcher's profile.
func EndpointProfile(id int) string { return fmt.Sprintf("/profile/%d", id) }

// EndpointSaveMatch is the path that saves profile id to the caller's list.
func EndpointSaveMatch(id int) string { return fmt.Sprintf("/matches/save/%d", id) }

// EndpointDeleteSavedMatch is the path that removes profile id from the
// caller's list.
func EndpointDeleteSavedMatch(id int) string { return fmt.Sprintf("/matches/saved/%d", id) }

// Environments understood by NewGateway.
const (
	Development = "development"
	Production  = "production"
)

// DefaultDevelopmentURL is where the API listens during development.
const DefaultDevelopmentURL = "http://localhost:8000"

// Gateway resolves endpoint paths to absolute URLs.
type Gateway struct {
	base string
}

// NewGateway picks the base URL for env. Production serves the API under
// /api on origin; development talks to devURL (DefaultDevelopmentURL when
// empty).
func NewGateway(env, origin, devURL string) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case Production:
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			return Gateway{}, fmt.Errorf("api: production gateway needs an origin")
		}
		return Gateway{base: origin + "/api"}, nil
	case Development, "":
		devURL = strings.TrimRight(strings.TrimSpace(devURL), "/")
		if devURL == "" {
			devURL = DefaultDevelopmentURL
		}
		return Gateway{base: devURL}, nil
	default:
		return Gateway{}, fmt.Errorf("api: unknown environment %q", env)
	}
}

// FixedGateway uses base as-is. Tests point it at an httptest server.
func FixedGateway(base string) Gateway {
	return Gateway{base: strings.TrimRight(base, "/")}
}

// Base returns the base URL.
func (g Gateway) Base() string { return g.base }

// URL returns the absolute URL of endpoint.
func (g Gateway) URL(endpoint string) string { return g.base + endpoint }
