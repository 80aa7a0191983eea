package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func deployTierConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  5,
		DefaultWindow: time.Minute,
		Tiers: []Tier{
			{Name: "deploy", Pattern: "POST /v1/deploy", Limit: 10, Window: time.Hour, Burst: 2},
			{Name: "health", Pattern: "GET /health"},
		},
	}
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, deployTierConfig())

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("10.0.0.1", "POST", "/v1/deploy")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, "deploy", info.Tier)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("10.0.0.1", "POST", "/v1/deploy")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Minute, info.RetryAfter.Round(time.Second), "one token per six minutes")
}

func TestAllow_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, deployTierConfig())

	l.Allow("10.0.0.1", "POST", "/v1/deploy")
	l.Allow("10.0.0.1", "POST", "/v1/deploy")
	allowed, _ := l.Allow("10.0.0.1", "POST", "/v1/deploy")
	require.False(t, allowed)

	clock.Advance(7 * time.Minute)
	allowed, _ = l.Allow("10.0.0.1", "POST", "/v1/deploy")
	assert.True(t, allowed)
}

func TestAllow_IsolatesClientsAndTiers(t *testing.T) {
	l, _ := newTestLimiter(t, deployTierConfig())

	l.Allow("10.0.0.1", "POST", "/v1/deploy")
	l.Allow("10.0.0.1", "POST", "/v1/deploy")

	allowed, _ := l.Allow("10.0.0.2", "POST", "/v1/deploy")
	assert.True(t, allowed, "other clients have their own bucket")

	allowed, info := l.Allow("10.0.0.1", "POST", "/v1/profiles/normalize")
	assert.True(t, allowed, "other tiers have their own bucket")
	assert.Equal(t, "default", info.Tier)
	assert.Equal(t, 4, info.Remaining)
}

func TestAllow_Unlimited(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		clientID string
		method   string
		path     string
		want     bool
	}{
		{name: "disabled", cfg: &Config{Enabled: false}, clientID: "a", method: "POST", path: "/v1/deploy", want: true},
		{name: "health tier", cfg: deployTierConfig(), clientID: "a", method: "GET", path: "/health", want: true},
		{name: "exempt client", cfg: &Config{Enabled: true, Exempt: map[string]bool{"a": true}}, clientID: "a", method: "POST", path: "/v1/deploy", want: true},
		{name: "blocked client", cfg: &Config{Enabled: true, Blocked: map[string]bool{"a": true}}, clientID: "a", method: "GET", path: "/health", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLimiter(t, tt.cfg)
			for i := 0; i < 20; i++ {
				allowed, info := l.Allow(tt.clientID, tt.method, tt.path)
				require.Equal(t, tt.want, allowed)
				assert.Zero(t, info.Limit)
			}
		})
	}
}

func TestAllow_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "POST", "/v1/analyze"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestSweep_DropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, deployTierConfig())

	l.Allow("10.0.0.1", "POST", "/v1/deploy")
	clock.Advance(2 * time.Hour)
	l.Allow("10.0.0.2", "POST", "/v1/deploy")

	l.sweep(clock.Now().Add(-time.Hour))
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "10.0.0.2|deploy")
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, IdleTimeout: time.Minute})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatch_DefaultTiers(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		name     string
		method   string
		path     string
		wantTier string
	}{
		{name: "deploy", method: "POST", path: "/v1/deploy", wantTier: "deploy"},
		{name: "extraction", method: "POST", path: "/v1/profiles/extract", wantTier: "extract"},
		{name: "analysis", method: "POST", path: "/v1/analyze", wantTier: "analyze"},
		{name: "render prefix", method: "POST", path: "/v1/render/portfolio", wantTier: "render"},
		{name: "health", method: "GET", path: "/health", wantTier: "health"},
		{name: "normalize uses default", method: "POST", path: "/v1/profiles/normalize"},
		{name: "method must match", method: "GET", path: "/v1/deploy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.method, tt.path, tiers)
			if tt.wantTier == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantTier, got.Name)
		})
	}
}

func TestMatch_ExactBeatsPrefix(t *testing.T) {
	tiers := []Tier{
		{Name: "all", Pattern: "POST /v1/render/"},
		{Name: "portfolio", Pattern: "POST /v1/render/portfolio"},
	}
	assert.Equal(t, "portfolio", Match("POST", "/v1/render/portfolio", tiers).Name)
	assert.Equal(t, "all", Match("POST", "/v1/render/resume", tiers).Name)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("BLYN_RATE_LIMIT_ENABLED", "")
	t.Setenv("BLYN_RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("BLYN_RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("BLYN_RATE_LIMIT_EXEMPT", "10.0.0.1, 10.0.0.2")
	t.Setenv("BLYN_RATE_LIMIT_BLOCKED", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, time.Hour, cfg.IdleTimeout)
	assert.True(t, cfg.Exempt["10.0.0.2"])
	assert.Empty(t, cfg.Blocked)
	assert.NotEmpty(t, cfg.Tiers)

	t.Setenv("BLYN_RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
