// Package client calls a running gateway over HTTP. It mirrors the in-process gateway's
// typed methods so either can drive the ad-copy workflow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/types"
)

// GatewayPath is the generation endpoint relative to the server base URL.
const GatewayPath = "/api/gemini-proxy"

// Error is returned for a non-2xx gateway response. Message is the server's error text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Options configures the client.
type Options struct {
	// Timeout of zero leaves the call bounded only by the context.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client posts {action, payload} envelopes to a gateway.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the server at baseURL (for example http://localhost:8080).
func New(baseURL string, opts *Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway URL %q", baseURL)
	}
	if opts == nil {
		opts = &Options{}
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{endpoint: u.String() + GatewayPath, http: hc}, nil
}

type envelope struct {
	Action  gateway.Action `json:"action"`
	Payload any            `json:"payload"`
}

// Invoke sends one action and decodes the response body into out.
func (c *Client) Invoke(ctx context.Context, action gateway.Action, payload any, out any) error {
	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return nil
}

func responseError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &Error{StatusCode: status, Message: payload.Error}
	}
	return &Error{StatusCode: status, Message: "Error from server: " + http.StatusText(status)}
}

// GenerateHooks calls generateHooks.
func (c *Client) GenerateHooks(ctx context.Context, req gateway.HooksRequest) ([]string, error) {
	var out []string
	if err := c.Invoke(ctx, gateway.ActionGenerateHooks, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateScript calls generateScriptForHook.
func (c *Client) GenerateScript(ctx context.Context, req gateway.ScriptRequest) (types.Script, error) {
	var out types.Script
	err := c.Invoke(ctx, gateway.ActionGenerateScript, req, &out)
	return out, err
}

// DiagnoseAdScript calls diagnoseAdScript.
func (c *Client) DiagnoseAdScript(ctx context.Context, req gateway.DiagnoseRequest) (types.Diagnosis, error) {
	var out types.Diagnosis
	if err := c.Invoke(ctx, gateway.ActionDiagnoseAdScript, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImproveAdCopyAnswer calls improveAdCopyAnswer.
func (c *Client) ImproveAdCopyAnswer(ctx context.Context, req gateway.ImproveRequest) (string, error) {
	var out string
	err := c.Invoke(ctx, gateway.ActionImproveAdCopyAnswer, req, &out)
	return out, err
}

// GenerateAdCopy calls generateAdCopy.
func (c *Client) GenerateAdCopy(ctx context.Context, req gateway.AdCopyRequest) (types.AdCopyResult, error) {
	var out types.AdCopyResult
	err := c.Invoke(ctx, gateway.ActionGenerateAdCopy, req, &out)
	return out, err
}
