// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package places is a client for the Google Maps web services used by
// discovery: nearby search, place details, distance matrix and geocoding.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/utils/httputils"
)

const (
	// DefaultBaseURL is the Google Maps web services root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	// DefaultTimeout bounds every provider request.
	DefaultTimeout = 10 * time.Second
	// UserAgent is sent on every request.
	UserAgent = "donar/1.0"
)

var (
	_ discovery.PlaceProvider    = (*Client)(nil)
	_ discovery.DistanceProvider = (*Client)(nil)
)

// ErrMissingAPIKey is returned when the client has no key to sign requests.
var ErrMissingAPIKey = errors.New("missing Google Maps API key")

// Client talks to the Google Maps web services.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	region     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another root, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLanguage sets the language of returned texts.
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithRegion biases geocoding towards a ccTLD region code.
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

// NewClient creates a Client signing requests with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: httputils.NewClient(DefaultTimeout, UserAgent, nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type apiStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (s apiStatus) check(op string) error {
	if err := ClassifyStatus(s.Status, s.ErrorMessage, op); err != nil {
		return err
	}

	return nil
}

// get calls path with params and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return &ProviderError{Type: ErrorTypeDenied, Op: op, Message: "request not signed", Err: ErrMissingAPIKey}
	}

	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &ProviderError{Type: ErrorTypeInvalidRequest, Op: op, Message: "building request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return &ProviderError{Type: ErrorTypeTimeout, Op: op, Message: "request timed out", Err: err}
		}

		return &ProviderError{Type: ErrorTypeNetworkError, Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPError(resp.StatusCode, op)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Type: ErrorTypeUnknown, Op: op, Message: "decoding response", Err: err}
	}

	return nil
}
