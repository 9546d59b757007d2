// Package testutil holds fakes shared by the package tests.
package testutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// FailingTransport fails every request before it reaches the network.
type FailingTransport struct {
	Err error
}

func (f FailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	if f.Err == nil {
		return nil, errors.New("connection refused")
	}
	return nil, f.Err
}

const (
	ParisGeoJSON      = `[{"name":"Paris","lat":48.8588897,"lon":2.3200410,"country":"FR","state":"Ile-de-France"}]`
	ParisForecastJSON = `{"cod":"200","message":0,"cnt":2,"list":[` +
		`{"dt":1760950800,"main":{"temp":12.5,"humidity":81},"wind":{"speed":3.2},"weather":[{"id":500,"main":"Rain","description":"light rain","icon":"10d"}],"dt_txt":"2025-10-20 09:00:00"},` +
		`{"dt":1760961600,"main":{"temp":14.1,"humidity":70},"wind":{"speed":2.1},"weather":[{"id":803,"main":"Clouds","description":"broken clouds","icon":"04d"}],"dt_txt":"2025-10-20 12:00:00"}` +
		`],"city":{"name":"Paris","country":"FR"}}`
	LandmarkJSON = `{"total":1,"total_pages":1,"results":[{"id":"abc","urls":{"raw":"https://images.unsplash.com/photo-1?raw","regular":"https://images.unsplash.com/photo-1?w=1080","small":"https://images.unsplash.com/photo-1?w=400"}}]}`
	EmptySearchJSON = `{"total":0,"total_pages":0,"results":[]}`
)

// FakeOpenWeather imitates the OpenWeatherMap geocoding and forecast endpoints.
type FakeOpenWeather struct {
	Server *httptest.Server

	mu             sync.Mutex
	geoStatus      int
	geoBody        string
	forecastStatus int
	forecastBody   string
	geoCalls       int
	forecastCalls  int
	lastGeo        url.Values
	lastForecast   url.Values
}

// NewFakeOpenWeather answers every city with Paris until told otherwise.
func NewFakeOpenWeather() *FakeOpenWeather {
	f := &FakeOpenWeather{
		geoStatus:      http.StatusOK,
		geoBody:        ParisGeoJSON,
		forecastStatus: http.StatusOK,
		forecastBody:   ParisForecastJSON,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.geoCalls++
		f.lastGeo = r.URL.Query()
		status, body := f.geoStatus, f.geoBody
		f.mu.Unlock()
		writeJSON(w, status, body)
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.forecastCalls++
		f.lastForecast = r.URL.Query()
		status, body := f.forecastStatus, f.forecastBody
		f.mu.Unlock()
		writeJSON(w, status, body)
	})
	f.Server = httptest.NewServer(mux)
	return f
}

func (f *FakeOpenWeather) GeoURL() string  { return f.Server.URL + "/geo/1.0" }
func (f *FakeOpenWeather) DataURL() string { return f.Server.URL + "/data/2.5" }
func (f *FakeOpenWeather) Close()          { f.Server.Close() }

func (f *FakeOpenWeather) SetGeo(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geoStatus, f.geoBody = status, body
}

func (f *FakeOpenWeather) SetForecast(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastStatus, f.forecastBody = status, body
}

// Calls returns the number of geocoding and forecast requests served.
func (f *FakeOpenWeather) Calls() (geo, forecast int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.geoCalls, f.forecastCalls
}

func (f *FakeOpenWeather) LastGeoQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastGeo
}

func (f *FakeOpenWeather) LastForecastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForecast
}

// FakeUnsplash imitates the Unsplash photo search endpoint.
type FakeUnsplash struct {
	Server *httptest.Server

	mu        sync.Mutex
	status    int
	body      string
	calls     int
	lastQuery url.Values
}

func NewFakeUnsplash() *FakeUnsplash {
	f := &FakeUnsplash{status: http.StatusOK, body: LandmarkJSON}
	mux := http.NewServeMux()
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.lastQuery = r.URL.Query()
		status, body := f.status, f.body
		f.mu.Unlock()
		writeJSON(w, status, body)
	})
	f.Server = httptest.NewServer(mux)
	return f
}

func (f *FakeUnsplash) URL() string { return f.Server.URL }
func (f *FakeUnsplash) Close()      { f.Server.Close() }

func (f *FakeUnsplash) Set(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *FakeUnsplash) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeUnsplash) LastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
