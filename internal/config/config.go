package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var loadErrs []error
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(loadConfig)
}

func loadConfig() {
	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("server.port", "SERVER_PORT", "PORT")

	root, err := getProjectRoot()
	if err != nil {
		loadErrs = append(loadErrs, err)
		return
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.AddConfigPath(root)
	if err = viper.ReadInConfig(); err != nil {
		loadErrs = append(loadErrs, err)
	}

	if isTestRun() {
		viper.SetConfigName("config_test")
		if err = viper.MergeInConfig(); err != nil {
			loadErrs = append(loadErrs, err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("openweathermap.geo_url", "https://api.openweathermap.org/geo/1.0")
	viper.SetDefault("openweathermap.data_url", "https://api.openweathermap.org/data/2.5")
	viper.SetDefault("unsplash.api_url", "https://api.unsplash.com")
	viper.SetDefault("upstream.timeout", "10s")
	viper.SetDefault("cache.driver", "redis")
	viper.SetDefault("cache.expiration", "30m")
	viper.SetDefault("cache.prefix", "weather:")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("rate_limiter.enabled", true)
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("log.mode", "development")
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// getDuration parses a duration key, falling back to def when unset or invalid.
func getDuration(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return def
	}
	return dur
}

func GetOpenWeatherGeoURL() string {
	initConfig()
	return strings.TrimRight(viper.GetString("openweathermap.geo_url"), "/")
}

func GetOpenWeatherDataURL() string {
	initConfig()
	return strings.TrimRight(viper.GetString("openweathermap.data_url"), "/")
}

// GetOpenWeatherMapAPIKey reads OPENWEATHER_API_KEY, falling back to the
// older OPENWEATHERMAP_API_KEY name.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

func GetUnsplashAPIURL() string {
	initConfig()
	return strings.TrimRight(viper.GetString("unsplash.api_url"), "/")
}

func GetUnsplashAccessKey() string {
	_ = godotenv.Load()
	return os.Getenv("UNSPLASH_ACCESS_KEY")
}

// GetUpstreamTimeout bounds every call to a third-party API. Zero disables the timeout.
func GetUpstreamTimeout() time.Duration {
	return getDuration("upstream.timeout", 10*time.Second)
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetRedisPassword() string {
	initConfig()
	return viper.GetString("redis.password")
}

func GetRedisDB() int {
	initConfig()
	return viper.GetInt("redis.db")
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetCacheDriver returns "redis" or "memory".
func GetCacheDriver() string {
	initConfig()
	return strings.ToLower(viper.GetString("cache.driver"))
}

// GetCacheExpiration returns the response cache TTL. Defaults to 30m.
func GetCacheExpiration() time.Duration {
	return getDuration("cache.expiration", 30*time.Minute)
}

func GetCachePrefix() string {
	initConfig()
	return viper.GetString("cache.prefix")
}

// GetServerTimeout returns server.<key> as a duration, or def when unset.
func GetServerTimeout(key string, def time.Duration) time.Duration {
	return getDuration("server."+key, def)
}

func GetCORSAllowedOrigins() []string {
	initConfig()
	return viper.GetStringSlice("cors.allowed_origins")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	loadErrs = nil
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		initConfig()
		var l *zap.Logger
		var err error
		if viper.GetString("log.mode") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
		for _, e := range loadErrs {
			logger.Warnw("Error reading config", "error", e)
		}
	})
	return logger
}

// RateLimiterEnabled reports whether the rate limiting middleware is mounted.
func RateLimiterEnabled() bool {
	initConfig()
	return viper.GetBool("rate_limiter.enabled")
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the global rate limiter.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the per-city rate limiter.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
