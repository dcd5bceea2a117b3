package posclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/pos"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response

	catalogLoadPath = "/api/v1/pos/catalog/load"
	ordersPath      = "/api/v1/pos/orders"
)

// Errors for backend communication
var (
	// ErrBackendUnavailable means the backend could not be reached at all
	ErrBackendUnavailable = errors.New("posclient: backend unavailable")
	// ErrRequestFailed means the backend answered with a non-success status
	ErrRequestFailed = errors.New("posclient: request failed")
)

// Client talks to the backend POS API. One client serves one terminal
// and is safe for concurrent use
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new backend API client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// apiEnvelope mirrors the backend's response wrapper
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

// apiError mirrors the backend's error details
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// loadRequest is the wire form of a bulk-load request
type loadRequest struct {
	EntityKind   string       `json:"entity_kind"`
	DomainFilter []loadFilter `json:"domain_filter,omitempty"`
	Fields       []string     `json:"fields"`
}

// loadFilter is one clause of a bulk-load domain filter
type loadFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// loadData is the payload inside a successful bulk-load response
type loadData struct {
	EntityKind string               `json:"entity_kind"`
	Records    []catalog.FlatRecord `json:"records"`
	Count      int                  `json:"count"`
}

// Fetch pulls flat catalog records from the backend for the given load
// params. It implements pos.CatalogFetcher
func (c *Client) Fetch(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error) {
	req := loadRequest{
		EntityKind: string(params.Kind),
		Fields:     params.Fields,
	}
	for _, clause := range params.Filter {
		req.DomainFilter = append(req.DomainFilter, loadFilter{
			Field:    clause.Field,
			Operator: clause.Operator,
			Value:    clause.Value,
		})
	}

	data, err := c.doRequest(ctx, http.MethodPost, catalogLoadPath, req)
	if err != nil {
		return nil, err
	}

	var payload loadData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("posclient: failed to parse load payload: %w", err)
	}

	return payload.Records, nil
}

// Submit delivers a capture envelope to the backend. It implements
// pos.OrderSubmitter. Submitting the same envelope again is safe; the
// backend treats capture as an idempotent upsert keyed by the order UID
func (c *Client) Submit(ctx context.Context, envelope pos.CaptureEnvelope) error {
	_, err := c.doRequest(ctx, http.MethodPost, ordersPath, envelope)
	return err
}

// doRequest performs one JSON request against the backend and unwraps
// the response envelope
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("posclient: failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("posclient: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Terminal-ID", c.config.Terminal)
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("posclient: failed to read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBytes, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
		}
		return nil, fmt.Errorf("posclient: failed to parse response: %w", err)
	}

	if !envelope.Success {
		if envelope.Error != nil {
			return nil, fmt.Errorf("%w: %s - %s", ErrRequestFailed, envelope.Error.Code, envelope.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return envelope.Data, nil
}

// Ensure Client implements the terminal session ports
var (
	_ pos.CatalogFetcher = (*Client)(nil)
	_ pos.OrderSubmitter = (*Client)(nil)
)
