// Package ratelimit throttles API clients per route tier with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the bucket state after a request.
type Info struct {
	Allowed    bool
	Tier       string
	Limit      int // 0 when the request was not limited
	Remaining  int
	ResetTime  time.Time // when the bucket is full again
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client and tier. It is safe for concurrent use.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop chan struct{}
	once sync.Once
}

// NewLimiter creates a limiter and starts sweeping idle buckets. A nil config
// allows 1000 requests per minute per client.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute}
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: map[string]*bucket{},
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.IdleTimeout > 0 {
		go l.sweepLoop(config.IdleTimeout)
	}
	return l
}

// Allow takes a token for clientID on the route's tier.
func (l *Limiter) Allow(clientID, method, path string) (bool, Info) {
	cfg := l.config
	switch {
	case !cfg.Enabled, cfg.Exempt[clientID]:
		return true, Info{Allowed: true}
	case cfg.Blocked[clientID]:
		return false, Info{}
	}

	tier := Match(method, path, cfg.Tiers)
	if tier == nil {
		tier = &Tier{Name: "default", Limit: cfg.DefaultLimit, Window: cfg.DefaultWindow, Burst: cfg.DefaultLimit}
	}
	if tier.Limit <= 0 || tier.Window <= 0 {
		return true, Info{Allowed: true, Tier: tier.Name}
	}

	now := l.now()
	b := l.bucket(clientID+"|"+tier.Name, tier, now)
	allowed := b.limiter.AllowN(now, 1)

	tokens := b.limiter.TokensAt(now)
	perSecond := float64(b.limiter.Limit())
	burst := float64(b.limiter.Burst())
	info := Info{
		Allowed:   allowed,
		Tier:      tier.Name,
		Limit:     tier.Limit,
		Remaining: max(0, int(tokens)),
		ResetTime: now.Add(seconds((burst - tokens) / perSecond)),
	}
	if !allowed {
		info.RetryAfter = seconds((1 - tokens) / perSecond)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, tier *Tier, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := tier.Burst
		if burst <= 0 {
			burst = tier.Limit
		}
		every := tier.Window / time.Duration(tier.Limit)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func (l *Limiter) sweepLoop(idle time.Duration) {
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(l.now().Add(-idle))
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets last used before cutoff.
func (l *Limiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
