package nominatim

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
)

// CachedGeocoder wraps a Geocoder with a TTL cache keyed by query string.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Entries
// expire after ttl; the reference data behind an address never changes
// mid-session, so a hit is always safe to reuse.
func NewCachedGeocoder(inner domain.Geocoder, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	if cached, ok := c.cache.Get(query); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return cached.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, query)
	if err != nil {
		return result, err
	}

	// Only cache matches so a transient "not found" can be retried later.
	if result.Found() {
		c.cache.SetDefault(query, result)
	}
	return result, nil
}
