package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// RetryPolicy is the single retry/backoff knob injected into adapters; no
// adapter carries its own inline sleeps.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	attempts := uint64(p.MaxAttempts)
	if attempts == 0 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx)
}

// Fetcher is the shared plain-network fetch path for adapters that do not
// need a rendering session: paced per source, retried with jittered backoff,
// and wrapped in a circuit breaker so a platform outage stops burning the
// rate budget.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   RetryPolicy
	logger  *logrus.Logger
}

func NewFetcher(source string, timeout time.Duration, requestsPerSecond float64, retry RetryPolicy, logger *logrus.Logger) *Fetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    source,
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker: breaker,
		retry:   retry,
		logger:  logger,
	}
}

// Get fetches url and returns the response body.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		result, err := f.breaker.Execute(func() (interface{}, error) {
			return f.doGet(ctx, url)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body = result.([]byte)
		return nil
	}
	if err := backoff.Retry(op, f.retry.backoff(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
