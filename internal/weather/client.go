package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yegors/co-wx/pkg/logger"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 4 << 20

// ClientConfig is the transport configuration handed to NewClient
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string
	Timeout      time.Duration
}

// Client handles HTTP requests to the CheckWX API
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(config ClientConfig, log *logger.Logger) *Client {
	if config.APIKeyHeader == "" {
		config.APIKeyHeader = "X-API-Key"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log.Named("weather-client"),
	}
}

// URL builds the decoded-report endpoint for the given kind and stations
func (c *Client) URL(kind Kind, stations []string) string {
	escaped := make([]string, len(stations))
	for i, s := range stations {
		escaped[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s/decoded", c.config.BaseURL, kind, strings.Join(escaped, ","))
}

// Fetch performs a single GET for the given stations.
// A non-2xx response is returned together with an *HTTPStatusError so the body can be shown.
func (c *Client) Fetch(ctx context.Context, kind Kind, stations []string) (*RawReport, error) {
	reqURL := c.URL(kind, stations)
	requestID := uuid.NewString()
	joined := strings.Join(stations, ",")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{Kind: kind, Stations: joined, Err: err}
	}
	req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching weather data",
		logger.String("type", string(kind)),
		logger.String("airport", joined),
		logger.String("request_id", requestID),
		logger.String("url", reqURL))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Weather API request failed",
			logger.String("type", string(kind)),
			logger.String("airport", joined),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, &TransportError{Kind: kind, Stations: joined, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Warn("Failed to read weather API response",
			logger.String("type", string(kind)),
			logger.String("airport", joined),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, &TransportError{Kind: kind, Stations: joined, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	raw := &RawReport{
		Kind:       kind,
		Stations:   stations,
		URL:        reqURL,
		RequestID:  requestID,
		StatusCode: resp.StatusCode,
		Body:       body,
		FetchedAt:  time.Now().UTC(),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Weather API returned non-OK status",
			logger.String("type", string(kind)),
			logger.String("airport", joined),
			logger.String("request_id", requestID),
			logger.Int("status_code", resp.StatusCode))
		return raw, &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	c.logger.Info("Weather data fetched",
		logger.String("type", string(kind)),
		logger.String("airport", joined),
		logger.String("request_id", requestID),
		logger.Int("bytes", len(body)),
		logger.Duration("duration", time.Since(start)))

	return raw, nil
}
