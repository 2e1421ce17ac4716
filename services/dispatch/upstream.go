package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/services"
)

// maxUpstreamBodyBytes caps how much of a provider response is read.
const maxUpstreamBodyBytes = 4 << 20

// maxErrorBodyBytes caps how much provider error text is carried in details.
const maxErrorBodyBytes = 512

// UpstreamClient performs one provider HTTP call. Implementations make
// exactly one attempt; there is no retry layer.
type UpstreamClient interface {
	Call(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error)
}

// HTTPUpstreamClient is the production UpstreamClient backed by net/http.
type HTTPUpstreamClient struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPUpstreamClient creates an upstream client with the given per-call timeout
func NewHTTPUpstreamClient(timeout time.Duration, logger *zap.Logger) *HTTPUpstreamClient {
	return &HTTPUpstreamClient{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Call POSTs the translated payload to the provider endpoint and returns the
// raw response body. Timeouts map to the upstream_timeout error type, any
// other transport failure or non-2xx status maps to upstream_error.
func (c *HTTPUpstreamClient) Call(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, services.WrapInternal("failed to build provider request", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("provider call timed out",
				zap.String("endpoint", endpoint),
				zap.Duration("elapsed", time.Since(start)))
			return nil, services.WrapError(services.ErrorTypeUpstreamTimeout, "provider did not respond in time", err)
		}
		return nil, services.WrapUpstream("provider request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodyBytes))
	if err != nil {
		return nil, services.WrapUpstream("failed to read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("provider returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode))
		return nil, services.NewDomainError(services.ErrorTypeUpstream,
			fmt.Sprintf("provider returned status %d", resp.StatusCode), nil).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("provider_error", truncate(raw, maxErrorBodyBytes))
	}

	return raw, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(body []byte, max int) string {
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
