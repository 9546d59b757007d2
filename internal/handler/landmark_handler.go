package handler

import (
	"errors"
	"net/http"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/service"
)

const (
	msgCityRequired       = "City parameter is required"
	msgLandmarkSearchFail = "Unsplash search failed"
	msgNoLandmark         = "No landmark found"
)

type LandmarkHandler struct {
	LandmarkService service.LandmarkServiceInterface
}

func NewLandmarkHandler(svc service.LandmarkServiceInterface) *LandmarkHandler {
	return &LandmarkHandler{LandmarkService: svc}
}

// HandleLandmark serves GET /api/landmark?city=. Every failure is a 400.
func (h *LandmarkHandler) HandleLandmark(w http.ResponseWriter, r *http.Request) {
	result, err := h.LandmarkService.GetLandmark(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		msg := msgLandmarkSearchFail
		switch {
		case errors.Is(err, service.ErrCityRequired):
			msg = msgCityRequired
		case errors.Is(err, service.ErrNoLandmark):
			msg = msgNoLandmark
		}
		writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse{Error: msg})
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}
