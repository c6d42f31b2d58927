package virtfusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// apiPrefix is the fixed versioned prefix of the VirtFusion REST API.
const apiPrefix = "/api/v1"

// Settings supplies the admin-configured panel connection details. They are
// read on every call so a saved change takes effect without a restart.
type Settings interface {
	PanelHostname(ctx context.Context) (string, error)
	PanelAPIKey(ctx context.Context) (string, error)
}

// Client is the single choke point for outbound VirtFusion panel calls. It
// holds no per-call state and is safe for concurrent use.
type Client struct {
	settings   Settings
	httpClient *http.Client
}

// NewClient creates a panel client reading its connection details from settings.
func NewClient(settings Settings) *Client {
	return &Client{
		settings: settings,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Response is the parsed panel envelope. All successful panel responses wrap
// their payload in a `data` field.
type Response struct {
	Data json.RawMessage `json:"data"`
}

// DecodeData unmarshals the `data` payload into v.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode panel data: %w", err)
	}
	return nil
}

// Call issues a panel request against the versioned API and returns the
// parsed envelope. Endpoint is relative to /api/v1. Every failure is mapped
// onto the panel error taxonomy; Call never recovers an error itself.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	host, err := c.settings.PanelHostname(ctx)
	if err != nil {
		return nil, fmt.Errorf("read panel hostname: %w", err)
	}
	apiKey, err := c.settings.PanelAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("read panel api key: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, host+apiPrefix+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		var parsed Response
		if len(respBody) > 0 {
			if err := json.Unmarshal(respBody, &parsed); err != nil {
				return nil, &ConnectivityError{Err: fmt.Errorf("decode response: %w", err)}
			}
		}
		return &parsed, nil
	}

	return nil, classifyFailure(resp.StatusCode, respBody)
}

// classifyFailure maps a non-success panel response onto the error taxonomy.
// A panel-reported errors/message payload wins over the status code.
func classifyFailure(status int, body []byte) error {
	var envelope struct {
		Errors  json.RawMessage `json:"errors"`
		Message string          `json:"message"`
	}
	// Best effort: a non-JSON body falls through to the status checks.
	_ = json.Unmarshal(body, &envelope)

	switch {
	case len(envelope.Errors) > 0 && string(envelope.Errors) != "null":
		return &ValidationError{Errors: string(envelope.Errors)}
	case envelope.Message != "":
		return &RemoteMessageError{Message: envelope.Message}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthorizationError{StatusCode: status}
	case status >= 500:
		return &RemoteServerError{StatusCode: status}
	default:
		return &ConnectivityError{Err: fmt.Errorf("unexpected status %d", status)}
	}
}

// TestConnection validates the stored hostname and API key against the
// panel's connect endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Call(ctx, http.MethodGet, "/connect", nil)
	return err
}
