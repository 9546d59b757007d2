package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/repository"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/service"
)

const (
	msgValidationFailed = "Validation failed"
	msgCityNotFound     = "City not found"
	msgForecastFailed   = "Failed to retrieve weather data"
	msgInternalPrefix   = "An error occurred: "
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	logger         *zap.SugaredLogger
}

func NewWeatherHandler(svc service.WeatherServiceInterface, logger *zap.SugaredLogger) *WeatherHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WeatherHandler{
		WeatherService: svc,
		logger:         logger,
	}
}

// HandleWeather serves GET /weather?city=&units=.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	weather, err := h.WeatherService.GetWeather(r.Context(), query.Get("city"), query.Get("units"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if weather.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSONResponse(w, http.StatusOK, weather)
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSONResponse(w, http.StatusUnprocessableEntity, model.MessageResponse{
			Message: msgValidationFailed,
			Errors:  verr.Fields,
		})
	case errors.Is(err, repository.ErrCityNotFound):
		h.logger.Infow("City not found", "error", err)
		writeJSONResponse(w, http.StatusNotFound, model.MessageResponse{Message: msgCityNotFound})
	case errors.Is(err, repository.ErrForecastUnavailable):
		h.logger.Warnw("Forecast fetch failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, model.MessageResponse{Message: msgForecastFailed})
	default:
		h.logger.Errorw("Weather lookup failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, model.MessageResponse{Message: msgInternalPrefix + err.Error()})
	}
}
