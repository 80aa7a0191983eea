package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier limits the requests matching one route pattern. Pattern is "METHOD /path";
// a path ending in "/" matches every path below it.
type Tier struct {
	Name    string
	Pattern string
	Limit   int           // requests per Window; 0 means unlimited
	Window  time.Duration
	Burst   int // defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	IdleTimeout   time.Duration // buckets unused this long are dropped
	Exempt        map[string]bool
	Blocked       map[string]bool
	Tiers         []Tier
}

// DefaultTiers returns the per-route limits. Routes that reach the generation
// collaborator or the hosting provider are the scarcest; local rendering is cheap.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "health", Pattern: "GET /health"},
		{Name: "deploy", Pattern: "POST /v1/deploy", Limit: 10, Window: time.Hour, Burst: 2},
		{Name: "extract", Pattern: "POST /v1/profiles/extract", Limit: 30, Window: time.Hour, Burst: 5},
		{Name: "analyze", Pattern: "POST /v1/analyze", Limit: 30, Window: time.Hour, Burst: 5},
		{Name: "render", Pattern: "POST /v1/render/", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// LoadConfig reads BLYN_RATE_LIMIT_* environment variables over the defaults.
func LoadConfig() *Config {
	if !envBool("BLYN_RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:       true,
		DefaultLimit:  envInt("BLYN_RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow: envDuration("BLYN_RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		IdleTimeout:   envDuration("BLYN_RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Exempt:        clientSet(os.Getenv("BLYN_RATE_LIMIT_EXEMPT")),
		Blocked:       clientSet(os.Getenv("BLYN_RATE_LIMIT_BLOCKED")),
		Tiers:         DefaultTiers(),
	}
}

// Match returns the tier for a request, or nil when only the default limit applies.
// Exact patterns win over prefix patterns.
func Match(method, path string, tiers []Tier) *Tier {
	var prefix *Tier
	for i := range tiers {
		tierMethod, tierPath, ok := strings.Cut(tiers[i].Pattern, " ")
		if !ok || tierMethod != method {
			continue
		}
		if tierPath == path {
			return &tiers[i]
		}
		if prefix == nil && strings.HasSuffix(tierPath, "/") && strings.HasPrefix(path, tierPath) {
			prefix = &tiers[i]
		}
	}
	return prefix
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// clientSet parses a comma-separated list of client addresses.
func clientSet(list string) map[string]bool {
	set := map[string]bool{}
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}
