package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/observability"
)

// DefaultTTL is how long a composed weather response stays fresh.
const DefaultTTL = 30 * time.Minute

// ResponseCache stores WeatherResponses keyed by city and unit system.
// Reads never fail: absent, expired, undecodable and unreachable all count as a miss.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewResponseCache(store Store, ttl time.Duration, logger *zap.SugaredLogger) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ResponseCache{store: store, ttl: ttl, logger: logger}
}

// Key returns "{city}_{units}". City is used verbatim, so lookups are case-sensitive.
func Key(city, units string) string {
	return city + "_" + units
}

func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached response with Cached set, or false on a miss.
func (c *ResponseCache) Get(ctx context.Context, city, units string) (*model.WeatherResponse, bool) {
	key := Key(city, units)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warnw("Cache read failed", "key", key, "error", err)
		}
		observability.ObserveCache(false)
		return nil, false
	}

	var weather model.WeatherResponse
	if err := json.Unmarshal(raw, &weather); err != nil {
		c.logger.Warnw("Discarding undecodable cache entry", "key", key, "error", err)
		observability.ObserveCache(false)
		return nil, false
	}
	observability.ObserveCache(true)
	weather.Cached = true
	return &weather, true
}

// Put stores the response for the configured TTL, counted from now.
func (c *ResponseCache) Put(ctx context.Context, city, units string, weather *model.WeatherResponse) error {
	b, err := json.Marshal(weather)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, Key(city, units), b, c.ttl)
}

func (c *ResponseCache) Close() error {
	return c.store.Close()
}
