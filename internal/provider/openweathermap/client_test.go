package openweathermap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/testutil"
)

func newTestClient(fake *testutil.FakeOpenWeather) *Client {
	return NewClient(Options{
		APIKey:  "testkey",
		GeoURL:  fake.GeoURL(),
		DataURL: fake.DataURL(),
	})
}

func TestGeocode_Success(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()

	geo, err := newTestClient(fake).Geocode(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", geo.Name)
	assert.Equal(t, "FR", geo.Country)
	assert.InDelta(t, 48.8588897, geo.Latitude, 1e-9)
	assert.InDelta(t, 2.3200410, geo.Longitude, 1e-9)

	q := fake.LastGeoQuery()
	assert.Equal(t, "paris", q.Get("q"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, "testkey", q.Get("appid"))
}

func TestGeocode_EmptyArray(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()
	fake.SetGeo(http.StatusOK, `[]`)

	_, err := newTestClient(fake).Geocode(context.Background(), "Zzzzznotacity")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGeocode_NonSuccessStatus(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()
	fake.SetGeo(http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`)

	_, err := newTestClient(fake).Geocode(context.Background(), "Paris")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestGeocode_DecodeError(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()
	fake.SetGeo(http.StatusOK, `not-json`)

	_, err := newTestClient(fake).Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestGeocode_TransportError(t *testing.T) {
	c := NewClient(Options{
		APIKey:    "testkey",
		GeoURL:    "http://owm.invalid/geo/1.0",
		Transport: testutil.FailingTransport{},
	})
	_, err := c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotContains(t, err.Error(), "testkey")
	assert.NotContains(t, err.Error(), "owm.invalid")
}

func TestForecast_TransportErrorHidesAPIKey(t *testing.T) {
	c := NewClient(Options{
		APIKey:    "SECRET_OWM_KEY",
		DataURL:   "http://owm.invalid/data/2.5",
		Transport: testutil.FailingTransport{},
	})
	_, err := c.Forecast(context.Background(), 48.85, 2.35, "metric")
	require.Error(t, err)
	assert.Equal(t, "forecast request: connection refused", err.Error())
}

func TestGeocode_MissingAPIKey(t *testing.T) {
	c := NewClient(Options{GeoURL: "http://owm.invalid"})
	_, err := c.Geocode(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestForecast_Success(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()

	bundle, err := newTestClient(fake).Forecast(context.Background(), 48.8588897, 2.320041, "imperial")
	require.NoError(t, err)
	assert.JSONEq(t, testutil.ParisForecastJSON, string(bundle))

	q := fake.LastForecastQuery()
	assert.Equal(t, "48.8588897", q.Get("lat"))
	assert.Equal(t, "2.320041", q.Get("lon"))
	assert.Equal(t, "imperial", q.Get("units"))
	assert.Equal(t, "minutely,hourly,alerts", q.Get("exclude"))
	assert.Equal(t, "testkey", q.Get("appid"))
}

func TestForecast_NonSuccessStatus(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()
	fake.SetForecast(http.StatusBadGateway, `upstream down`)

	_, err := newTestClient(fake).Forecast(context.Background(), 1, 2, "metric")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "forecast", statusErr.Operation)
}

func TestForecast_EmptyList(t *testing.T) {
	fake := testutil.NewFakeOpenWeather()
	defer fake.Close()
	fake.SetForecast(http.StatusOK, `{"cod":"200","list":[]}`)

	_, err := newTestClient(fake).Forecast(context.Background(), 1, 2, "metric")
	assert.ErrorIs(t, err, ErrEmptyForecast)
}

func TestForecast_ViaRoundTripper(t *testing.T) {
	c := NewClient(Options{
		APIKey:  "testkey",
		DataURL: "http://owm.test/data/2.5",
		Transport: testutil.RoundTripperFunc(func(req *http.Request) *http.Response {
			assert.Equal(t, "/data/2.5/forecast", req.URL.Path)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader([]byte(testutil.ParisForecastJSON))),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Request:    req,
			}
		}),
	})

	bundle, err := c.Forecast(context.Background(), 48.85, 2.32, "metric")
	require.NoError(t, err)
	assert.NotEmpty(t, bundle)
}
