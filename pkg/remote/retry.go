package remote

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy bounds how an outbound call is retried. A call is attempted
// once and then retried up to MaxRetries times, waiting Delay between
// attempts, as long as Retryable accepts the outcome.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
	Retryable  func(resp *http.Response, err error) bool
}

// DefaultRetryPolicy retries only when the collaborator answers 503 Service
// Unavailable. Transport errors and any other status are final.
func DefaultRetryPolicy(maxRetries int, delay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		Delay:      delay,
		Retryable: func(resp *http.Response, err error) bool {
			return err == nil && resp != nil && resp.StatusCode == http.StatusServiceUnavailable
		},
	}
}

// Do executes the request produced by build under the policy. The build
// function is invoked once per attempt so the request body is fresh each
// time. The caller owns the returned response body.
func (p RetryPolicy) Do(ctx context.Context, client *http.Client, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		var req *http.Request
		req, err = build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err = client.Do(req)
		if !p.Retryable(resp, err) || attempt >= p.MaxRetries {
			return resp, err
		}

		// Drain the retryable response before the next attempt
		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.Delay):
		}
	}
}
