package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ErrPaymentNotRegistered indicates the processor doesn't know the transaction yet.
var ErrPaymentNotRegistered = errors.New("payment not registered")

// ErrDisabled is returned by the client when no processor address is configured.
var ErrDisabled = errors.New("payment processor is not configured")

// TooManyRequestsError represents rate limiting signal from the processor.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

const defaultRetryAfter = 5 * time.Second

// Client exposes operations to query the payment processor.
type Client interface {
	Status(ctx context.Context, transactionID string) (*model.PaymentReport, error)
	// Enabled reports whether a processor is configured at all.
	Enabled() bool
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type response struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// NewHTTPClient creates HTTP payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment processor url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment processor url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Enabled is always true for a configured processor.
func (c *HTTPClient) Enabled() bool { return true }

// Status queries the processor for the state of a transaction.
func (c *HTTPClient) Status(ctx context.Context, transactionID string) (*model.PaymentReport, error) {
	// The transaction id is a single escaped segment; it never adds path levels.
	endpoint := c.baseURL.JoinPath("api", "payments")
	endpoint.RawPath = strings.TrimSuffix(endpoint.EscapedPath(), "/") + "/" + url.PathEscape(transactionID)
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + "/" + transactionID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data response
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode payment status: %w", err)
		}
		status, err := model.ParsePaymentStatus(data.Status)
		if err != nil {
			return nil, err
		}
		if data.TransactionID == "" {
			data.TransactionID = transactionID
		}
		return &model.PaymentReport{TransactionID: data.TransactionID, Status: status}, nil
	case http.StatusNoContent:
		return nil, ErrPaymentNotRegistered
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("payment processor request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("payment processor error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}

// DisabledClient answers every query with ErrDisabled.
type DisabledClient struct{}

func (DisabledClient) Status(context.Context, string) (*model.PaymentReport, error) {
	return nil, ErrDisabled
}

func (DisabledClient) Enabled() bool { return false }
