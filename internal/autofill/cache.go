package autofill

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
)

// DefaultCacheTTL is how long a lookup result remains valid
const DefaultCacheTTL = 24 * time.Hour

// DefaultLookupTimeout bounds a shared upstream lookup, which is detached from
// the cancellation of whichever caller started it.
const DefaultLookupTimeout = time.Minute

type cacheEntry struct {
	suggestion *Suggestion
	timestamp  time.Time
}

// CachedLookup memoizes another Lookup. Identical lookups running at the same
// time share one upstream request. Failures are not cached.
type CachedLookup struct {
	next    Lookup
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// Ensure CachedLookup implements the interface at compile time.
var _ Lookup = (*CachedLookup)(nil)

// NewCachedLookup wraps next with a cache holding results for ttl.
func NewCachedLookup(next Lookup, ttl time.Duration) *CachedLookup {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedLookup{
		next:    next,
		ttl:     ttl,
		timeout: DefaultLookupTimeout,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(roaster, beanName string) string {
	return strings.ToLower(strings.TrimSpace(roaster)) + "\x00" + strings.ToLower(strings.TrimSpace(beanName))
}

func (c *CachedLookup) Lookup(ctx context.Context, roaster, beanName string) (*Suggestion, error) {
	key := cacheKey(roaster, beanName)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.timestamp) < c.ttl {
		metrics.AutofillCacheHitsTotal.Inc()
		return entry.suggestion, nil
	}
	metrics.AutofillCacheMissesTotal.Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		s, err := c.next.Lookup(lookupCtx, roaster, beanName)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{suggestion: s, timestamp: c.now()}
		c.mu.Unlock()
		return s, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Suggestion), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of cached results, expired ones included.
func (c *CachedLookup) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired results (call periodically)
func (c *CachedLookup) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.timestamp) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is cancelled.
func (c *CachedLookup) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
}
