// Package rc is the client for the rclone remote-control HTTP API.
package rc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/constants"
	rchttp "github.com/rcpanes/rcpanes/internal/http"
	"github.com/rcpanes/rcpanes/internal/logging"
)

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// Client performs rc calls. Each call is one HTTP POST; the client keeps no
// per-call state and is safe for concurrent use.
type Client struct {
	httpClient  *nethttp.Client // used for every call that must not be repeated
	retryClient *nethttp.Client // read-only calls when retry_max > 0, else nil
	baseURL     string
	auth        string
	logger      *logging.Logger
}

// NewClient creates a client for cfg. When httpClient is nil one is built
// from the proxy settings in cfg.
func NewClient(cfg *config.Config, httpClient *nethttp.Client, logger *logging.Logger) (*Client, error) {
	if cfg.BaseURL() == "" {
		return nil, config.ErrMissingHost
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Component("rc")

	if httpClient == nil {
		var err error
		httpClient, err = rchttp.ConfigureHTTPClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL(),
		auth:       AuthHeader(cfg),
		logger:     logger,
	}

	if cfg.RetryMax > 0 {
		retryClient := retryablehttp.NewClient()
		retryClient.HTTPClient = httpClient
		retryClient.RetryMax = cfg.RetryMax
		retryClient.RetryWaitMin = constants.RetryWaitMin
		retryClient.RetryWaitMax = constants.RetryWaitMax
		retryClient.Logger = &retryLogger{logger: logger}
		// Hand the final response back so the caller can build an APIError
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
		c.retryClient = retryClient.StandardClient()
	}

	return c, nil
}

// Call posts params as JSON to endpoint and decodes the response into out
// (when out is non-nil). Async endpoints get "_async": true added to the body.
func (c *Client) Call(ctx context.Context, endpoint string, params interface{}, out interface{}) error {
	body, err := encodeParams(endpoint, params)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}

	client := c.httpClient
	if c.retryClient != nil && readOnlyEndpoints[endpoint] {
		client = c.retryClient
	}

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("rc call failed")
		return fmt.Errorf("%s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", endpoint, err)
	}

	if resp.StatusCode != nethttp.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Endpoint: endpoint}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Message = eb.Error
		}
		c.logger.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error", apiErr.Message).
			Msg("rc call returned an error")
		return apiErr
	}

	c.logger.Debug().Str("endpoint", endpoint).Int("bytes", len(respBody)).Msg("rc call ok")

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", endpoint, err)
	}
	return nil
}

// encodeParams marshals params and marks async calls. A nil params on a
// synchronous endpoint produces no body.
func encodeParams(endpoint string, params interface{}) ([]byte, error) {
	if !IsAsync(endpoint) {
		if params == nil {
			return nil, nil
		}
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return data, nil
	}

	fields := map[string]interface{}{}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("async params must be a JSON object: %w", err)
		}
		if fields == nil {
			fields = map[string]interface{}{}
		}
	}
	fields["_async"] = true
	return json.Marshal(fields)
}
