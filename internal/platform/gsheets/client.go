// Package gsheets is a minimal client for the Google Sheets v4 values API.
package gsheets

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"resty.dev/v3"
)

const (
	baseURL = "https://sheets.googleapis.com"
	scope   = "https://www.googleapis.com/auth/spreadsheets"
)

type Client struct {
	httpClient    *resty.Client
	spreadsheetID string
}

// NewClient authenticates with a service-account (or other Google) credentials JSON.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string, timeout time.Duration) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, scope)
	if err != nil {
		return nil, fmt.Errorf("google.CredentialsFromJSON > %w", err)
	}
	httpClient := resty.NewWithClient(oauth2.NewClient(ctx, creds.TokenSource)).
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return NewWithResty(httpClient, spreadsheetID), nil
}

// NewWithResty wires an already configured resty client, e.g. one pointed at a test server.
func NewWithResty(httpClient *resty.Client, spreadsheetID string) *Client {
	httpClient.SetHeader("Accept", "application/json")
	return &Client{httpClient: httpClient, spreadsheetID: spreadsheetID}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

// ValueRange mirrors the API resource of the same name.
type ValueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
	} `json:"updates"`
}

// QuoteSheet returns a worksheet name usable in A1 notation.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// Get reads a range with formatted values, so every cell arrives as a string.
func (c *Client) Get(ctx context.Context, rng string) (ValueRange, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetPathParam("range", rng).
		SetQueryParam("valueRenderOption", "FORMATTED_VALUE").
		SetResult(&ValueRange{}).
		Get("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return ValueRange{}, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return ValueRange{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	vr, ok := response.Result().(*ValueRange)
	if !ok || vr == nil {
		return ValueRange{}, fmt.Errorf("empty response body: %s", response.String())
	}
	return *vr, nil
}

// Update overwrites the cells starting at rng.
func (c *Client) Update(ctx context.Context, rng string, values [][]string) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetPathParam("range", rng).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(ValueRange{Range: rng, MajorDimension: "ROWS", Values: values}).
		Put("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return fmt.Errorf("httpClient.Put > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return nil
}

// Append inserts rows after the table found at rng and returns the 1-based sheet row
// number of the first inserted row.
func (c *Client) Append(ctx context.Context, rng string, values [][]string) (int, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetPathParam("range", rng).
		SetQueryParams(map[string]string{
			"valueInputOption": "RAW",
			"insertDataOption": "INSERT_ROWS",
		}).
		SetBody(ValueRange{MajorDimension: "ROWS", Values: values}).
		SetResult(&appendResponse{}).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:append")
	if err != nil {
		return 0, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return 0, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	res, ok := response.Result().(*appendResponse)
	if !ok || res == nil {
		return 0, fmt.Errorf("empty response body: %s", response.String())
	}
	return firstRow(res.Updates.UpdatedRange)
}

var a1Row = regexp.MustCompile(`![A-Za-z]*(\d+)`)

func firstRow(a1 string) (int, error) {
	m := a1Row.FindStringSubmatch(a1)
	if m == nil {
		return 0, fmt.Errorf("unexpected updated range %q", a1)
	}
	return strconv.Atoi(m[1])
}

// DeleteRows removes sheet rows [start, end) using 0-based indexes.
func (c *Client) DeleteRows(ctx context.Context, sheetID int64, start, end int) error {
	body := map[string]any{
		"requests": []any{
			map[string]any{
				"deleteDimension": map[string]any{
					"range": map[string]any{
						"sheetId":    sheetID,
						"dimension":  "ROWS",
						"startIndex": start,
						"endIndex":   end,
					},
				},
			},
		},
	}
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("spreadsheetId", c.spreadsheetID).
		SetBody(body).
		Post("/v4/spreadsheets/{spreadsheetId}:batchUpdate")
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return nil
}
