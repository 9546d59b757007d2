// Package unsplash searches the Unsplash photo API.
package unsplash

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

const providerName = "unsplash"

var ErrAPIKeyMissing = errors.New("Unsplash access key missing")

type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("photo search returned status %d: %s", e.Status, e.Body)
}

type Options struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *zap.SugaredLogger
}

type Client struct {
	http      *resty.Client
	accessKey string
}

func NewClient(opts Options) *Client {
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept-Version", "v1").
		SetTimeout(opts.Timeout)
	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}
	if opts.Logger != nil {
		c.SetLogger(opts.Logger)
	}
	return &Client{http: c, accessKey: opts.AccessKey}
}

// SearchPhotos runs GET /search/photos for query, returning at most perPage results.
func (c *Client) SearchPhotos(ctx context.Context, query string, perPage int) (*model.UnsplashSearchResponse, error) {
	if c.accessKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":     query,
			"per_page":  strconv.Itoa(perPage),
			"client_id": c.accessKey,
		}).
		Get("/search/photos")
	if err != nil {
		observability.ObserveUpstream(providerName, "search_photos", 0, err)
		return nil, fmt.Errorf("photo search request: %w", stripURL(err))
	}
	observability.ObserveUpstream(providerName, "search_photos", resp.StatusCode(), nil)
	if !resp.IsSuccess() {
		return nil, &StatusError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var out model.UnsplashSearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decoding photo search response: %w", err)
	}
	return &out, nil
}

// stripURL drops the request URL, and with it client_id, from transport errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
