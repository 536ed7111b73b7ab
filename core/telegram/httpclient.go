package telegram

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/tourbot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 2 * time.Second
)

// ClientOption tweaks BuildHTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	retries int
	backoff time.Duration
	timeout time.Duration
}

// WithRetries sets how many times a failed round trip is retried. Zero disables retries.
func WithRetries(n int) ClientOption {
	return func(o *clientOptions) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithTimeout bounds the whole request, including retries.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// BuildHTTPClient returns an HTTP client for Telegram API calls and outbound checks
// such as tour image probing.
func BuildHTTPClient(opts ...ClientOption) *http.Client {
	o := clientOptions{
		retries: defaultRetryAttempts,
		backoff: defaultRetryBackoff,
		timeout: defaultClientTimeout,
	}
	for _, fn := range opts {
		fn(&o)
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if o.retries > 0 {
		rt = &retryTransport{base: rt, maxRetries: o.retries, backoff: o.backoff}
	}
	return &http.Client{Timeout: o.timeout, Transport: rt}
}

// retryTransport repeats round trips that failed with a transient transport
// error, waiting backoff*attempt between tries.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.maxRetries && netutil.ShouldRetry(err); attempt++ {
		retry, rewindErr := rewind(req)
		if rewindErr != nil {
			return nil, err
		}
		if waitErr := sleepCtx(req.Context(), t.backoff*time.Duration(attempt)); waitErr != nil {
			return nil, waitErr
		}
		resp, err = t.base.RoundTrip(retry)
	}
	return resp, err
}

// rewind clones req with a fresh body. Requests whose body cannot be
// replayed are not retried.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("telegram: request body is not replayable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
