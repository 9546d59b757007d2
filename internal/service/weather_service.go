package service

import (
	"context"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/repository"
)

// WeatherServiceInterface is what the handler and the CLI depend on.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, city, units string) (*model.WeatherResponse, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
}

func NewWeatherService(repo repository.WeatherRepository) *WeatherService {
	return &WeatherService{WeatherRepo: repo}
}

// GetWeather validates the raw query parameters and runs the weather pipeline.
// Invalid input yields a *ValidationError before any cache or upstream access.
func (s *WeatherService) GetWeather(ctx context.Context, city, units string) (*model.WeatherResponse, error) {
	q, err := ValidateWeatherQuery(city, units)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.WeatherRepo.GetWeather(ctx, q.City, q.Units)
}
