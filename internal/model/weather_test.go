package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastEntries(t *testing.T) {
	bundle := ForecastBundle(`{"cod":"200","list":[
		{"dt":1760950800,"main":{"temp":12.5,"humidity":81},"wind":{"speed":3.2},"weather":[{"description":"light rain","icon":"10d"}]},
		{"dt":1760961600,"main":{"temp":14.1,"humidity":70},"wind":{"speed":2.1},"weather":[]}
	]}`)

	entries, err := ForecastEntries(bundle)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 12.5, entries[0].Main.Temp)
	assert.Equal(t, 81, entries[0].Main.Humidity)
	assert.Equal(t, 3.2, entries[0].Wind.Speed)
	assert.Equal(t, "light rain", entries[0].Description())
	assert.Equal(t, int64(1760950800), entries[0].Time().Unix())
	assert.Empty(t, entries[1].Description())
}

func TestForecastEntries_Malformed(t *testing.T) {
	_, err := ForecastEntries(ForecastBundle(`not-json`))
	assert.True(t, errors.Is(err, ErrMalformedForecast))
}

func TestWeatherResponse_CachedFlagNotSerialised(t *testing.T) {
	b, err := json.Marshal(WeatherResponse{City: "Paris", Current: ForecastBundle(`{"list":[]}`), Cached: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Paris","current":{"list":[]}}`, string(b))
}
