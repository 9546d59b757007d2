package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
)

const MaxCityLength = 255

// Validation messages, keyed by field in ValidationError.Fields.
const (
	MsgCityRequired = "City parameter is required"
	MsgCityTooLong  = "City must not be greater than 255 characters"
	MsgUnitsInvalid = "Units must be either metric or imperial"
)

// ValidationError lists every failing input field with its messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// WeatherQuery is a validated weather request.
type WeatherQuery struct {
	City  string
	Units string
}

// ValidateWeatherQuery trims both inputs and defaults empty units to metric.
func ValidateWeatherQuery(city, units string) (WeatherQuery, error) {
	q := WeatherQuery{
		City:  strings.TrimSpace(city),
		Units: strings.TrimSpace(units),
	}
	var verr ValidationError

	switch {
	case q.City == "":
		verr.add("city", MsgCityRequired)
	case utf8.RuneCountInString(q.City) > MaxCityLength:
		verr.add("city", MsgCityTooLong)
	}

	switch q.Units {
	case "":
		q.Units = model.UnitsMetric
	case model.UnitsMetric, model.UnitsImperial:
	default:
		verr.add("units", MsgUnitsInvalid)
	}

	if len(verr.Fields) > 0 {
		return WeatherQuery{}, &verr
	}
	return q, nil
}
