package server

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/cache"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/config"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/handler"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/middleware"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/provider/openweathermap"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/provider/unsplash"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/redis"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/repository"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/service"
)

const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

// Settings is everything NewApp needs to wire the process.
type Settings struct {
	OpenWeatherAPIKey string
	OpenWeatherGeoURL string
	OpenWeatherURL    string
	UnsplashAccessKey string
	UnsplashURL       string
	UpstreamTimeout   time.Duration

	CacheDriver string
	CacheTTL    time.Duration
	CachePrefix string
	Redis       redis.Options

	// RateLimit is nil when rate limiting is disabled.
	RateLimit      *middleware.RateLimiterConfig
	AllowedOrigins []string
}

// SettingsFromConfig reads Settings from the viper-backed config package.
func SettingsFromConfig() Settings {
	s := Settings{
		OpenWeatherAPIKey: config.GetOpenWeatherMapAPIKey(),
		OpenWeatherGeoURL: config.GetOpenWeatherGeoURL(),
		OpenWeatherURL:    config.GetOpenWeatherDataURL(),
		UnsplashAccessKey: config.GetUnsplashAccessKey(),
		UnsplashURL:       config.GetUnsplashAPIURL(),
		UpstreamTimeout:   config.GetUpstreamTimeout(),
		CacheDriver:       config.GetCacheDriver(),
		CacheTTL:          config.GetCacheExpiration(),
		CachePrefix:       config.GetCachePrefix(),
		Redis: redis.Options{
			Addr:     config.GetRedisAddr(),
			Password: config.GetRedisPassword(),
			DB:       config.GetRedisDB(),
		},
		AllowedOrigins: config.GetCORSAllowedOrigins(),
	}
	if config.RateLimiterEnabled() {
		globalRate, globalBurst := config.GetGlobalRateLimiterConfig()
		paramRate, paramBurst := config.GetParamRateLimiterConfig()
		s.RateLimit = &middleware.RateLimiterConfig{
			GlobalPerMinute: globalRate,
			GlobalBurst:     globalBurst,
			ParamPerMinute:  paramRate,
			ParamBurst:      paramBurst,
			ParamKey:        middleware.DefaultParamKey,
			CleanupTimeout:  config.GetRateLimiterCleanupTimeout(),
		}
	}
	return s
}

// App owns the long-lived pieces of the process: cache, services and router deps.
type App struct {
	Cache           *cache.ResponseCache
	WeatherService  *service.WeatherService
	LandmarkService *service.LandmarkService
	RateLimiter     *middleware.RateLimiter
	Deps            Deps

	logger *zap.SugaredLogger
}

// NewApp builds the cache store, upstream clients and services described by s.
func NewApp(ctx context.Context, s Settings, logger *zap.SugaredLogger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	store, err := newStore(ctx, s, logger)
	if err != nil {
		return nil, err
	}
	responseCache := cache.NewResponseCache(store, s.CacheTTL, logger)

	owm := openweathermap.NewClient(openweathermap.Options{
		APIKey:  s.OpenWeatherAPIKey,
		GeoURL:  s.OpenWeatherGeoURL,
		DataURL: s.OpenWeatherURL,
		Timeout: s.UpstreamTimeout,
		Logger:  logger,
	})
	photos := unsplash.NewClient(unsplash.Options{
		AccessKey: s.UnsplashAccessKey,
		BaseURL:   s.UnsplashURL,
		Timeout:   s.UpstreamTimeout,
		Logger:    logger,
	})
	if s.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}
	if s.UnsplashAccessKey == "" {
		logger.Warn("UNSPLASH_ACCESS_KEY is not set; landmark lookups will fail")
	}

	weatherRepo := repository.NewWeatherRepository(responseCache, owm, owm, logger)
	weatherService := service.NewWeatherService(weatherRepo)
	landmarkService := service.NewLandmarkService(photos, logger)

	app := &App{
		Cache:           responseCache,
		WeatherService:  weatherService,
		LandmarkService: landmarkService,
		logger:          logger,
	}
	if s.RateLimit != nil {
		app.RateLimiter = middleware.NewRateLimiter(*s.RateLimit)
	}
	app.Deps = Deps{
		WeatherHandler:  handler.NewWeatherHandler(weatherService, logger),
		LandmarkHandler: handler.NewLandmarkHandler(landmarkService),
		RateLimiter:     app.RateLimiter,
		AllowedOrigins:  s.AllowedOrigins,
		Logger:          logger,
	}
	return app, nil
}

func newStore(ctx context.Context, s Settings, logger *zap.SugaredLogger) (cache.Store, error) {
	switch s.CacheDriver {
	case CacheDriverMemory:
		logger.Infow("Using in-memory cache store")
		return cache.NewMemoryStore(time.Minute), nil
	case CacheDriverRedis, "":
		client := redis.NewClient(s.Redis)
		if err := redis.Ping(ctx, client); err != nil {
			// Reads and writes degrade to misses until Redis comes back.
			logger.Warnw("Redis is unreachable", "addr", s.Redis.Addr, "error", err)
		} else {
			logger.Infow("Connected to Redis", "addr", s.Redis.Addr)
		}
		return cache.NewRedisStore(client, s.CachePrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", s.CacheDriver)
	}
}

// Close releases the cache store.
func (a *App) Close() error {
	if a.Cache == nil {
		return nil
	}
	if err := a.Cache.Close(); err != nil {
		a.logger.Warnw("Failed to close cache", "error", err)
		return err
	}
	return nil
}
