package telegram

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/9304065865a/podolog/core/telegram/netutil"
)

const (
	httpDialTimeout   = 5 * time.Second
	httpTLSTimeout    = 5 * time.Second
	httpHeaderTimeout = 5 * time.Second
	httpIdleTimeout   = 30 * time.Second
	httpClientTimeout = 30 * time.Second
	httpKeepAlive     = 30 * time.Second
	transportRetries  = 3
	transportBackoff  = 2 * time.Second
)

// BuildHTTPClient returns the client handed to telebot for Bot API calls.
// Timeouts are set on every phase of the request, and transient network
// errors are retried at the transport layer so telebot sees fewer failures.
func BuildHTTPClient() *http.Client {
	return &http.Client{
		Timeout: httpClientTimeout,
		Transport: &retryTransport{
			base: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   httpDialTimeout,
					KeepAlive: httpKeepAlive,
				}).DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       httpIdleTimeout,
				TLSHandshakeTimeout:   httpTLSTimeout,
				ResponseHeaderTimeout: httpHeaderTimeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
			retries: transportRetries,
			backoff: transportBackoff,
		},
	}
}

// retryTransport retries requests that failed with a retryable network
// error. A request whose body cannot be replayed via GetBody is never
// retried.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		r, err := t.cloneForAttempt(req, attempt)
		if err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}
		if r == nil {
			// Body is not replayable.
			return nil, lastErr
		}

		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt >= t.retries || !netutil.ShouldRetry(err) {
			return nil, lastErr
		}
		if err := sleepCtx(req.Context(), t.backoff*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
	}
}

func (t *retryTransport) cloneForAttempt(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, nil
	}
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
