package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Unit systems accepted by the forecast provider.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// GeoResult is the first match of a geocoding lookup.
type GeoResult struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

// ForecastBundle is the forecast provider payload, passed through untouched.
type ForecastBundle = json.RawMessage

// WeatherResponse is returned to the UI and stored in the response cache.
type WeatherResponse struct {
	City    string         `json:"city"`
	Current ForecastBundle `json:"current"`
	Cached  bool           `json:"-"`
}

// ForecastEntry is a typed view over one element of a ForecastBundle list.
type ForecastEntry struct {
	Timestamp int64 `json:"dt"`
	Main      struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (e ForecastEntry) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// Description returns the first weather description, if any.
func (e ForecastEntry) Description() string {
	if len(e.Weather) == 0 {
		return ""
	}
	return e.Weather[0].Description
}

var ErrMalformedForecast = errors.New("malformed forecast payload")

// ForecastEntries decodes the list of a ForecastBundle.
func ForecastEntries(bundle ForecastBundle) ([]ForecastEntry, error) {
	var payload struct {
		List []ForecastEntry `json:"list"`
	}
	if err := json.Unmarshal(bundle, &payload); err != nil {
		return nil, errors.Join(ErrMalformedForecast, err)
	}
	return payload.List, nil
}
