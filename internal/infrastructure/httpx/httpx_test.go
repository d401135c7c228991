package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sablier-labs/price-data/internal/domain"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func response(code int, body string, header http.Header) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body)), Header: header}
}

// testClient records sleeps instead of waiting.
func testClient(rt http.RoundTripper, maxRetries int, base, floor time.Duration) (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := &Client{
		HTTP:       &http.Client{Transport: rt, Timeout: 2 * time.Second},
		MaxRetries: maxRetries,
		BaseDelay:  base,
		FloorDelay: floor,
		sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}
	return c, &slept
}

func TestGetJSON_RetryCeiling_Always429(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return response(429, "slow down", nil), nil
	})
	c, _ := testClient(rt, 3, 10*time.Millisecond, 0)

	var out any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 4 {
		t.Fatalf("expected MaxRetries+1 = 4 attempts, got %d", calls)
	}
	var exhausted *domain.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 4 {
		t.Fatalf("expected 4 attempts recorded, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited in chain, got %v", err)
	}
}

func TestGetJSON_RetryAfterHintHonored(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			h := make(http.Header)
			h.Set("Retry-After", "7")
			return response(429, "", h), nil
		}
		return response(200, `{"ok":true}`, nil), nil
	})
	c, slept := testClient(rt, 3, 10*time.Millisecond, time.Second)

	var out map[string]bool
	if err := c.GetJSON(context.Background(), "http://example.com", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 7*time.Second {
		t.Fatalf("expected one 7s wait, got %v", *slept)
	}
}

func TestGetJSON_FloorAppliesToZeroHint(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			h := make(http.Header)
			h.Set("Retry-After", "0")
			return response(429, "", h), nil
		}
		return response(200, `{}`, nil), nil
	})
	c, slept := testClient(rt, 3, time.Millisecond, 2*time.Second)

	var out any
	if err := c.GetJSON(context.Background(), "http://example.com", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] < 2*time.Second {
		t.Fatalf("expected floor wait of 2s, got %v", *slept)
	}
}

func TestGetJSON_BackoffDoubles(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return response(500, "boom", nil), nil
	})
	c, slept := testClient(rt, 3, 100*time.Millisecond, 0)

	var out any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("wait %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestGetJSON_ServerErrorThenSuccess(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return response(503, "unavailable", nil), nil
		}
		return response(200, `{"ok":true}`, nil), nil
	})
	c, _ := testClient(rt, 3, time.Millisecond, 0)

	var out map[string]bool
	if err := c.GetJSON(context.Background(), "http://example.com", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out["ok"] {
		t.Fatal("expected decoded body")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGetJSON_NetworkErrorRetried(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return response(200, `{}`, nil), nil
	})
	c, _ := testClient(rt, 3, time.Millisecond, 0)

	var out any
	if err := c.GetJSON(context.Background(), "http://example.com", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGetJSON_NoRetryOn404(t *testing.T) {
	var calls int
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return response(404, "nope", nil), nil
	})
	c, slept := testClient(rt, 3, time.Millisecond, 0)

	var out any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no waits, got %v", *slept)
	}
}

func TestGetJSON_HeaderForwarded(t *testing.T) {
	rt := rtFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Fatalf("missing api key header")
		}
		return response(200, `{}`, nil), nil
	})
	c, _ := testClient(rt, 0, time.Millisecond, 0)

	header := make(http.Header)
	header.Set("x-api-key", "secret")
	var out any
	if err := c.GetJSON(context.Background(), "http://example.com", header, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
