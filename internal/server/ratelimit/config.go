package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/talent-match/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds the limiter configuration from the rate-limit config section.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Whole-pool operations
		{Path: "/match/rank", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/talent-pool", Method: http.MethodGet, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/talent-pool/export", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},

		// Single-candidate scoring falls through to the default limit
	}
}

// toSet turns a list of client addresses into a lookup set.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
