// Package googlebooks queries the public Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://www.googleapis.com"
	DefaultTimeout = 10 * time.Second

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "ja,en-US;q=0.9,en;q=0.8"
)

type Client struct {
	httpClient *resty.Client
	limiter    *rate.Limiter
	apiKey     string
	country    string
}

type Option func(*Client)

// WithAPIKey attaches a key; anonymous calls work but share a lower quota.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithCountry(country string) Option {
	return func(c *Client) { c.country = country }
}

// NewClient makes one attempt per call. rps paces outbound calls.
func NewClient(baseURL string, timeout time.Duration, rps int, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if rps <= 0 {
		rps = 1
	}
	c := &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeaders(map[string]string{
				"User-Agent":      userAgent,
				"Accept":          "application/json",
				"Accept-Language": acceptLanguage,
			}),
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		country: "JP",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

// VolumesResponse matches /books/v1/volumes
type VolumesResponse struct {
	TotalItems int       `json:"totalItems"`
	Items      []Volume  `json:"items"`
	Error      *APIError `json:"error,omitempty"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title      string      `json:"title"`
	Authors    []string    `json:"authors"`
	ImageLinks *ImageLinks `json:"imageLinks,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// APIError is the error object the API reports in its body.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google books: %d %s", e.Code, e.Message)
}

// SearchVolumes runs a free-text volumes query. An error payload from the API is
// returned as *APIError; transport and decoding failures are plain errors.
func (c *Client) SearchVolumes(ctx context.Context, q string, maxResults int) (*VolumesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := map[string]string{
		"q":          q,
		"maxResults": strconv.Itoa(maxResults),
	}
	if c.country != "" {
		params["country"] = c.country
	}
	if c.apiKey != "" {
		params["key"] = c.apiKey
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&VolumesResponse{}).
		Get("/books/v1/volumes")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}

	if response.IsError() {
		var body VolumesResponse
		if jsonErr := json.Unmarshal([]byte(response.String()), &body); jsonErr == nil && body.Error != nil && body.Error.Message != "" {
			return nil, body.Error
		}
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode())
	}

	res, ok := response.Result().(*VolumesResponse)
	if !ok || res == nil {
		return nil, fmt.Errorf("empty response body")
	}
	if res.Error != nil && res.Error.Message != "" {
		return nil, res.Error
	}
	return res, nil
}
