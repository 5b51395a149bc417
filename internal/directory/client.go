package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/domain"
)

const (
	listPath   = "/api/staff/all"
	deletePath = "/api/staff/"

	// maxErrorBody caps how much of a failed response is kept for diagnostics.
	maxErrorBody = 4 << 10
)

// Client talks to the staff backend. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:    logger,
		userAgent: "worker-directory/1.0",
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAll fetches every staff record.
func (c *Client) ListAll(ctx context.Context) ([]domain.StaffRecord, error) {
	const op = "list staff"

	body, err := c.do(ctx, op, http.MethodGet, listPath)
	if err != nil {
		return nil, err
	}

	var records []domain.StaffRecord
	if err := json.Unmarshal(body, &records); err != nil {
		c.logger.Error("undecodable staff list", zap.Error(err))
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if records == nil {
		records = []domain.StaffRecord{}
	}
	return records, nil
}

// Delete removes the staff record identified by internalID.
func (c *Client) Delete(ctx context.Context, internalID string) error {
	_, err := c.do(ctx, "delete staff", http.MethodDelete, deletePath+url.PathEscape(internalID))
	return err
}

// Ping checks that the backend answers the list endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping staff backend", http.MethodGet, listPath)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string) ([]byte, error) {
	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("staff backend unreachable",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Error("staff backend error",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("staff backend request",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
	)
	return body, nil
}
