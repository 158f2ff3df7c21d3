package source

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/figquilt/figquilt/pkg/cache"
	"github.com/figquilt/figquilt/pkg/layout"
)

// DefaultTTL is how long cached measurements live. Keys already embed the
// file size and mtime, so the TTL only bounds growth of the cache itself.
const DefaultTTL = 30 * 24 * time.Hour

// CachedMeasurer wraps a Measurer with a cache. The cache key includes the
// source's size and modification time, so a changed file is re-measured.
type CachedMeasurer struct {
	inner layout.Measurer
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedMeasurer wraps inner with the given cache backend.
func NewCachedMeasurer(inner layout.Measurer, c cache.Cache) *CachedMeasurer {
	return &CachedMeasurer{inner: inner, cache: c, ttl: DefaultTTL}
}

type measurement struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measure returns cached dimensions when available, measuring and storing
// otherwise. Cache failures degrade to a plain measurement.
func (m *CachedMeasurer) Measure(source string) (float64, float64, error) {
	info, err := os.Stat(source)
	if err != nil {
		// Let the inner measurer produce its usual error.
		return m.inner.Measure(source)
	}

	ctx := context.Background()
	key := cache.MeasureKey(source, info.Size(), info.ModTime().UnixNano())

	if data, hit, err := m.cache.Get(ctx, key); err == nil && hit {
		var cached measurement
		if json.Unmarshal(data, &cached) == nil && cached.Width > 0 && cached.Height > 0 {
			return cached.Width, cached.Height, nil
		}
	}

	w, h, err := m.inner.Measure(source)
	if err != nil {
		return 0, 0, err
	}

	if data, err := json.Marshal(measurement{Width: w, Height: h}); err == nil {
		_ = m.cache.Set(ctx, key, data, m.ttl)
	}
	return w, h, nil
}

// Ensure CachedMeasurer satisfies the layout oracle contract.
var _ layout.Measurer = (*CachedMeasurer)(nil)
