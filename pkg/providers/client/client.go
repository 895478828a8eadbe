package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/wire"
)

// DefaultTimeout bounds an invocation when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// Options tunes the shared HTTP client.
type Options struct {
	// Timeout is the default per-invocation deadline. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxIdleConns caps the connection pool. Zero means 100.
	MaxIdleConns int

	// MaxIdleConnsPerHost caps per-host idle connections. Zero means 10.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections stay pooled. Zero means 90s.
	IdleConnTimeout time.Duration

	// Logger receives per-attempt debug logs. Nil means slog.Default.
	Logger *slog.Logger
}

// Client performs provider invocations over a pooled HTTP transport.
// A single Client is safe for concurrent use and should be shared between
// the fallback orchestrator and the health prober.
type Client struct {
	http           *http.Client
	defaultTimeout time.Duration
	log            *slog.Logger
}

// New creates a Client with a pooled transport.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 100
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 10
	}
	if opts.IdleConnTimeout == 0 {
		opts.IdleConnTimeout = 90 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		// No client-level timeout: each call carries its own context
		// deadline so per-call overrides work.
		http:           &http.Client{Transport: transport},
		defaultTimeout: opts.Timeout,
		log:            opts.Logger,
	}
}

// Invoke performs exactly one chat-completion call against the instance.
// On failure the returned error is always a *providers.ProviderError; no
// transport or parse error escapes unclassified.
func (c *Client) Invoke(ctx context.Context, inst providers.Instance, msgs []providers.Message, opts providers.ChatOptions) (*providers.ChatResponse, error) {
	provider := inst.ID()

	body, err := wire.BuildBody(inst, msgs, opts)
	if err != nil {
		return nil, providers.WrapProviderError(provider, providers.KindUnknown, err.Error(), err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, providers.WrapProviderError(provider, providers.KindUnknown,
			fmt.Sprintf("encoding request body: %v", err), err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := uuid.NewString()
	c.log.Debug("invoking provider",
		"request_id", requestID,
		"provider", provider,
		"model", inst.EffectiveModel(),
		"timeout", timeout,
	)

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, wire.Endpoint(inst), bytes.NewReader(payload))
	if err != nil {
		return nil, providers.WrapProviderError(provider, providers.KindUnknown,
			fmt.Sprintf("building request: %v", err), err)
	}
	for k, v := range wire.BuildHeaders(inst) {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, providers.WrapProviderError(provider, providers.KindNetwork,
				fmt.Sprintf("request timed out after %s", timeout), err)
		}
		return nil, providers.WrapProviderError(provider, providers.KindNetwork,
			fmt.Sprintf("request failed: %v", err), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, providers.WrapProviderError(provider, providers.KindNetwork,
				fmt.Sprintf("request timed out after %s", timeout), err)
		}
		return nil, providers.WrapProviderError(provider, providers.KindNetwork,
			fmt.Sprintf("reading response: %v", err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(provider, resp, raw)
	}

	normalized, err := wire.NormalizeResponse(inst, raw)
	if err != nil {
		return nil, providers.WrapProviderError(provider, providers.KindInvalidResponse, err.Error(), err)
	}

	c.log.Debug("provider responded",
		"request_id", requestID,
		"provider", provider,
		"latency", time.Since(start),
		"finish_reason", finishReason(normalized),
	)
	return normalized, nil
}

// CheckReachable issues a GET against the instance's models-listing endpoint
// with a short deadline. It answers "is anything listening there" and is used
// by the health prober for local backends before spending a chat call.
func (c *Client) CheckReachable(ctx context.Context, inst providers.Instance, timeout time.Duration) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, wire.ModelsEndpoint(inst), nil)
	if err != nil {
		return providers.WrapProviderError(inst.ID(), providers.KindUnknown,
			fmt.Sprintf("building request: %v", err), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return providers.WrapProviderError(inst.ID(), providers.KindNetwork,
			fmt.Sprintf("endpoint unreachable: %v", err), err)
	}
	resp.Body.Close()
	return nil
}

// classifyStatus maps a non-2xx response into the closed error taxonomy.
func classifyStatus(provider string, resp *http.Response, raw []byte) *providers.ProviderError {
	message := vendorErrorMessage(raw)
	if message == "" {
		message = fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return providers.NewProviderError(provider, providers.KindAuth, message)

	case resp.StatusCode == http.StatusTooManyRequests:
		perr := providers.NewProviderError(provider, providers.KindRateLimit, message)
		perr.RetryAfter = retryAfter(resp.Header.Get("Retry-After"), raw)
		return perr

	case resp.StatusCode >= 500:
		return providers.NewProviderError(provider, providers.KindNetwork, message)

	default:
		return providers.NewProviderError(provider, providers.KindInvalidResponse, message)
	}
}

// vendorErrorMessage pulls the message out of the nested error object most
// vendors return: {"error": {"message": "..."}} or {"error": "..."}.
func vendorErrorMessage(raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}

	var plain string
	if err := json.Unmarshal(envelope.Error, &plain); err == nil {
		return plain
	}
	return ""
}

// retryAfter resolves the backoff hint for a 429: the body's retry_after
// field in seconds first, then the Retry-After header, then the default.
func retryAfter(header string, raw []byte) time.Duration {
	var body struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.RetryAfter > 0 {
		return time.Duration(body.RetryAfter * float64(time.Second))
	}

	if header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		if t, err := http.ParseTime(header); err == nil {
			if d := time.Until(t); d > 0 {
				return d
			}
		}
	}
	return providers.DefaultRetryAfter
}

func finishReason(resp *providers.ChatResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].FinishReason
}
