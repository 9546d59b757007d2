package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
)

var (
	ErrCityRequired         = errors.New("city parameter is required")
	ErrLandmarkSearchFailed = errors.New("landmark search failed")
	ErrNoLandmark           = errors.New("no landmark found")
)

// PhotoSearcher is implemented by the Unsplash client.
type PhotoSearcher interface {
	SearchPhotos(ctx context.Context, query string, perPage int) (*model.UnsplashSearchResponse, error)
}

type LandmarkServiceInterface interface {
	GetLandmark(ctx context.Context, city string) (*model.LandmarkResult, error)
}

type LandmarkService struct {
	Searcher PhotoSearcher
	logger   *zap.SugaredLogger
}

func NewLandmarkService(searcher PhotoSearcher, logger *zap.SugaredLogger) *LandmarkService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LandmarkService{Searcher: searcher, logger: logger}
}

// GetLandmark searches "{city} landmark" and returns the first photo's regular-size URL.
func (s *LandmarkService) GetLandmark(ctx context.Context, city string) (*model.LandmarkResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	resp, err := s.Searcher.SearchPhotos(ctx, city+" landmark", 1)
	if err != nil {
		s.logger.Warnw("Landmark search failed", "city", city, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLandmarkSearchFailed, err)
	}
	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		return nil, ErrNoLandmark
	}
	return &model.LandmarkResult{ImageURL: resp.Results[0].URLs.Regular}, nil
}
