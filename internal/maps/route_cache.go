// README: In-memory TTL cache for computed routes.
package maps

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"

	"covoit/internal/types"
)

const routeCacheCapacity = 10_000

type routeCache struct {
	cache *otter.Cache[string, Route]
	ttl   time.Duration
}

func newRouteCache(ttl time.Duration) *routeCache {
	cache := otter.Must(&otter.Options[string, Route]{
		MaximumSize:      routeCacheCapacity,
		ExpiryCalculator: otter.ExpiryWriting[string, Route](ttl),
	})
	return &routeCache{cache: cache, ttl: ttl}
}

func (c *routeCache) get(key string) (Route, bool) {
	return c.cache.GetIfPresent(key)
}

func (c *routeCache) set(key string, r Route) {
	c.cache.Set(key, r)
}

// cacheKey hashes the ordered coordinate tuple of a directions request.
func cacheKey(origin, destination types.Point, waypoints []types.Point) string {
	var b strings.Builder
	b.WriteString(formatPoint(origin))
	b.WriteByte('|')
	b.WriteString(formatPoint(destination))
	for _, w := range waypoints {
		b.WriteByte('|')
		b.WriteString(formatPoint(w))
	}
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}
