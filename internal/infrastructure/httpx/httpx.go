// Package httpx wraps outbound provider calls with retries, backoff and a
// steady-state request budget.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sablier-labs/price-data/internal/domain"
)

// Client performs one logical JSON GET per call, surviving transient provider
// failure. 429, 5xx and network errors are retried up to MaxRetries times;
// anything else returns immediately.
//
// The Limiter charges the inter-request budget, so consecutive successful
// calls are spaced automatically without an explicit post-call sleep.
type Client struct {
	HTTP       *http.Client
	Limiter    *rate.Limiter
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // backoff schedule seed, doubles per attempt
	FloorDelay time.Duration // minimum wait, even when Retry-After says less
	Log        *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error // test seam
}

type statusError struct {
	code       int
	kind       error
	retryAfter time.Duration
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.code) }
func (e *statusError) Unwrap() error { return e.kind }

// GetJSON fetches u and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, u string, header http.Header, out any) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	doSleep := c.sleep
	if doSleep == nil {
		doSleep = sleepCtx
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.BaseDelay
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = 500 * time.Millisecond
	}
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = 2 * time.Minute
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := c.do(ctx, u, header, out)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= c.MaxRetries {
			return &domain.RetryExhaustedError{Attempts: attempt + 1, Last: err}
		}

		delay := exp.NextBackOff()
		var se *statusError
		if errors.As(err, &se) && se.retryAfter > 0 {
			delay = se.retryAfter
		}
		if delay < c.FloorDelay {
			delay = c.FloorDelay
		}
		log.Warn("retry_wait",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := doSleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) do(ctx context.Context, u string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &statusError{
			code:       resp.StatusCode,
			kind:       domain.ErrRateLimited,
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		return &statusError{code: resp.StatusCode, kind: domain.ErrServer}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrServer) ||
		errors.Is(err, domain.ErrNetwork)
}

// parseRetryAfter reads the delay-seconds form of a Retry-After header.
// The HTTP-date form is rare on rate limiters and is ignored.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
