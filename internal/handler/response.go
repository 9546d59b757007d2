package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// NotFound answers unknown routes with the generic envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	errMsg := "Route not found"
	writeJSONResponse(w, http.StatusNotFound, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

// MethodNotAllowed answers non-GET requests on known routes.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	errMsg := "Method not allowed"
	w.Header().Set("Allow", http.MethodGet)
	writeJSONResponse(w, http.StatusMethodNotAllowed, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}
