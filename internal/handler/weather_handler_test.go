package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/cache"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/provider/openweathermap"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/repository"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/service"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/testutil"
)

// Mock service for testing
type mockWeatherService struct {
	err      error
	mockData *model.WeatherResponse
}

func (m *mockWeatherService) GetWeather(ctx context.Context, city, units string) (*model.WeatherResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.mockData, nil
}

// Ensure mockWeatherService implements WeatherServiceInterface
var _ service.WeatherServiceInterface = (*mockWeatherService)(nil)

func TestWeatherHandler_HandleWeather(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		mockData       *model.WeatherResponse
		expectedStatus int
		expectedBody   string
		expectedCache  string
	}{
		{
			name:           "Successful weather request",
			mockData:       &model.WeatherResponse{City: "Paris", Current: model.ForecastBundle(`{"list":[{"dt":1}]}`)},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"city":"Paris","current":{"list":[{"dt":1}]}}`,
			expectedCache:  "MISS",
		},
		{
			name:           "Cached weather request",
			mockData:       &model.WeatherResponse{City: "Paris", Current: model.ForecastBundle(`{"list":[{"dt":1}]}`), Cached: true},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"city":"Paris","current":{"list":[{"dt":1}]}}`,
			expectedCache:  "HIT",
		},
		{
			name:           "Validation error",
			err:            &service.ValidationError{Fields: map[string][]string{"city": {service.MsgCityRequired}}},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"message":"Validation failed","errors":{"city":["City parameter is required"]}}`,
		},
		{
			name:           "City not found",
			err:            fmt.Errorf("%w: no geocoding match", repository.ErrCityNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"City not found"}`,
		},
		{
			name:           "Forecast failure",
			err:            fmt.Errorf("%w: status 502", repository.ErrForecastUnavailable),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"Failed to retrieve weather data"}`,
		},
		{
			name:           "Unexpected error",
			err:            errors.New("dial tcp: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"An error occurred: dial tcp: connection refused"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWeatherHandler(&mockWeatherService{err: tt.err, mockData: tt.mockData}, nil)

			req := httptest.NewRequest(http.MethodGet, "/weather?city=Paris", nil)
			rr := httptest.NewRecorder()
			h.HandleWeather(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			assert.Equal(t, tt.expectedCache, rr.Header().Get("X-Cache"))
		})
	}
}

// newPipelineHandler wires the real service, repository and cache against fake upstreams.
func newPipelineHandler(t *testing.T) (*WeatherHandler, *testutil.FakeOpenWeather) {
	t.Helper()
	fake := testutil.NewFakeOpenWeather()
	t.Cleanup(fake.Close)

	client := openweathermap.NewClient(openweathermap.Options{
		APIKey:  "testkey",
		GeoURL:  fake.GeoURL(),
		DataURL: fake.DataURL(),
	})
	rc := cache.NewResponseCache(cache.NewMemoryStore(time.Minute), 30*time.Minute, nil)
	repo := repository.NewWeatherRepository(rc, client, client, nil)
	return NewWeatherHandler(service.NewWeatherService(repo), nil), fake
}

func doWeather(h *WeatherHandler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/weather?"+params.Encode(), nil)
	rr := httptest.NewRecorder()
	h.HandleWeather(rr, req)
	return rr
}

func TestWeatherHandler_Pipeline_CacheHitIsByteIdentical(t *testing.T) {
	h, fake := newPipelineHandler(t)
	params := url.Values{"city": {"Paris"}, "units": {"metric"}}

	first := doWeather(h, params)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := doWeather(h, params)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	geoCalls, forecastCalls := fake.Calls()
	assert.Equal(t, 1, geoCalls)
	assert.Equal(t, 1, forecastCalls)
}

func TestWeatherHandler_Pipeline_ValidationMakesNoUpstreamCalls(t *testing.T) {
	h, fake := newPipelineHandler(t)

	rr := doWeather(h, url.Values{"city": {""}, "units": {"kelvin"}})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body model.MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "city")
	assert.Contains(t, body.Errors, "units")

	geoCalls, forecastCalls := fake.Calls()
	assert.Zero(t, geoCalls)
	assert.Zero(t, forecastCalls)
}

func TestWeatherHandler_Pipeline_CityNotFound(t *testing.T) {
	h, fake := newPipelineHandler(t)
	fake.SetGeo(http.StatusOK, `[]`)

	rr := doWeather(h, url.Values{"city": {"Zzzzznotacity"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"City not found"}`, rr.Body.String())
}

func TestWeatherHandler_Pipeline_ForecastFailure(t *testing.T) {
	h, fake := newPipelineHandler(t)
	fake.SetForecast(http.StatusServiceUnavailable, `{"cod":503}`)

	rr := doWeather(h, url.Values{"city": {"Paris"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"Failed to retrieve weather data"}`, rr.Body.String())
}

func TestWeatherHandler_Pipeline_UndecodableGeocodeIsInternal(t *testing.T) {
	h, fake := newPipelineHandler(t)
	fake.SetGeo(http.StatusOK, `<html>oops</html>`)

	rr := doWeather(h, url.Values{"city": {"Paris"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body model.MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "An error occurred: ")
}

func TestWeatherHandler_TransportFailureDoesNotExposeAPIKey(t *testing.T) {
	client := openweathermap.NewClient(openweathermap.Options{
		APIKey:  "SECRET_OWM_KEY",
		GeoURL:  "http://127.0.0.1:1",
		DataURL: "http://127.0.0.1:1",
		Timeout: 2 * time.Second,
	})
	rc := cache.NewResponseCache(cache.NewMemoryStore(time.Minute), 30*time.Minute, nil)
	repo := repository.NewWeatherRepository(rc, client, client, nil)
	h := NewWeatherHandler(service.NewWeatherService(repo), nil)

	rr := doWeather(h, url.Values{"city": {"Paris"}})
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var body model.MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.Message, "An error occurred: geocoding request: "), body.Message)
	assert.NotContains(t, rr.Body.String(), "SECRET_OWM_KEY")
	assert.NotContains(t, rr.Body.String(), "appid")
}
