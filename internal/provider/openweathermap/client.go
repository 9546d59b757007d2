// Package openweathermap talks to the OpenWeatherMap geocoding and forecast APIs.
//
// Geocoding: GET {geo_url}/direct?q={city}&limit=1&appid={key}
// Forecast:  GET {data_url}/forecast?lat=&lon=&exclude=minutely,hourly,alerts&units=&appid={key}
package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/observability"
)

const (
	providerName = "openweathermap"
	userAgent    = "weather-landmark-proxy/1.0"
)

var (
	ErrAPIKeyMissing = errors.New("API key missing")
	ErrNoMatch       = errors.New("no geocoding match")
	ErrEmptyForecast = errors.New("forecast list is empty")
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Operation string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API returned status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s API returned status %d: %s", e.Operation, e.Status, e.Body)
}

type Options struct {
	APIKey  string
	GeoURL  string
	DataURL string
	Timeout time.Duration
	// Transport replaces the default HTTP transport; used by tests.
	Transport http.RoundTripper
	Logger    *zap.SugaredLogger
}

type Client struct {
	geo    *resty.Client
	data   *resty.Client
	apiKey string
}

func NewClient(opts Options) *Client {
	return &Client{
		geo:    newResty(opts.GeoURL, opts),
		data:   newResty(opts.DataURL, opts),
		apiKey: opts.APIKey,
	}
}

func newResty(baseURL string, opts Options) *resty.Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout)
	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}
	if opts.Logger != nil {
		c.SetLogger(opts.Logger)
	}
	return c
}

// Geocode resolves a city name to the first matching location.
func (c *Client) Geocode(ctx context.Context, city string) (*model.GeoResult, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := c.geo.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"limit": "1",
			"appid": c.apiKey,
		}).
		Get("/direct")
	if err != nil {
		observability.ObserveUpstream(providerName, "geocode", 0, err)
		return nil, fmt.Errorf("geocoding request: %w", stripURL(err))
	}
	observability.ObserveUpstream(providerName, "geocode", resp.StatusCode(), nil)
	if !resp.IsSuccess() {
		return nil, &StatusError{Operation: "geocoding", Status: resp.StatusCode(), Body: resp.String()}
	}

	var results []model.GeoResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	return &results[0], nil
}

// Forecast fetches the multi-day forecast for the coordinates. The payload is
// returned verbatim once its list is known to be non-empty.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, units string) (model.ForecastBundle, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := c.data.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":     strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":     strconv.FormatFloat(lon, 'f', -1, 64),
			"exclude": "minutely,hourly,alerts",
			"units":   units,
			"appid":   c.apiKey,
		}).
		Get("/forecast")
	if err != nil {
		observability.ObserveUpstream(providerName, "forecast", 0, err)
		return nil, fmt.Errorf("forecast request: %w", stripURL(err))
	}
	observability.ObserveUpstream(providerName, "forecast", resp.StatusCode(), nil)
	if !resp.IsSuccess() {
		return nil, &StatusError{Operation: "forecast", Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload struct {
		List []json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}
	if len(payload.List) == 0 {
		return nil, ErrEmptyForecast
	}
	return model.ForecastBundle(resp.Body()), nil
}

// stripURL drops the request URL from transport errors so the appid query
// parameter never reaches logs or response bodies.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
