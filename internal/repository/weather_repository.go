package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/cache"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/provider/openweathermap"
)

// Pipeline outcomes other than success. Any other error is internal.
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrForecastUnavailable = errors.New("failed to retrieve weather data")
)

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (*model.GeoResult, error)
}

// Forecaster fetches the raw forecast for coordinates.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64, units string) (model.ForecastBundle, error)
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetWeather(ctx context.Context, city, units string) (*model.WeatherResponse, error)
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	cache      *cache.ResponseCache
	geocoder   Geocoder
	forecaster Forecaster
	logger     *zap.SugaredLogger
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(responseCache *cache.ResponseCache, geocoder Geocoder, forecaster Forecaster, logger *zap.SugaredLogger) WeatherRepository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &weatherRepository{
		cache:      responseCache,
		geocoder:   geocoder,
		forecaster: forecaster,
		logger:     logger,
	}
}

// GetWeather retrieves weather data, checking cache first, then the upstream APIs
func (r *weatherRepository) GetWeather(ctx context.Context, city, units string) (*model.WeatherResponse, error) {
	if cached, ok := r.cache.Get(ctx, city, units); ok {
		return cached, nil
	}

	weather, err := r.fetchFromUpstream(ctx, city, units)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Put(ctx, city, units, weather); err != nil {
		r.logger.Warnw("Failed to cache weather", "city", city, "units", units, "error", err)
	}
	return weather, nil
}

// fetchFromUpstream geocodes the city then fetches its forecast. The first failure aborts.
func (r *weatherRepository) fetchFromUpstream(ctx context.Context, city, units string) (*model.WeatherResponse, error) {
	geo, err := r.geocoder.Geocode(ctx, city)
	if err != nil {
		return nil, classifyGeocodeError(err)
	}
	r.logger.Debugw("Resolved city", "query", city, "name", geo.Name, "country", geo.Country,
		"lat", geo.Latitude, "lon", geo.Longitude)

	forecast, err := r.forecaster.Forecast(ctx, geo.Latitude, geo.Longitude, units)
	if err != nil {
		return nil, classifyForecastError(err)
	}

	return &model.WeatherResponse{
		City:    geo.Name,
		Current: forecast,
	}, nil
}

func classifyGeocodeError(err error) error {
	var statusErr *openweathermap.StatusError
	if errors.Is(err, openweathermap.ErrNoMatch) || errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %v", ErrCityNotFound, err)
	}
	return err
}

func classifyForecastError(err error) error {
	var statusErr *openweathermap.StatusError
	if errors.Is(err, openweathermap.ErrEmptyForecast) || errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	return err
}
