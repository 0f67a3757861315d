package distance

import (
	"context"
	"eld-trip-planner/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryPolicy bounds how hard the client leans on ORS before reporting the
// routing service as unavailable.
type retryPolicy struct {
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
}

var defaultRetry = retryPolicy{attempts: 4, backoff: 200 * time.Millisecond, maxBackoff: 5 * time.Second}

// orsAPIError is a non-2xx ORS response. ORS bodies look like
// {"error":{"code":2010,"message":"..."}} or {"error":"..."}; Message holds
// whichever was present, else the raw body.
type orsAPIError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *orsAPIError) Error() string {
	return fmt.Sprintf("ors status %d: %s", e.Status, e.Message)
}

// transient reports whether another attempt may succeed.
func (e *orsAPIError) transient() bool {
	switch e.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (o *ORSDistanceProvider) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (o *ORSDistanceProvider) send(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return nil, &orsAPIError{
		Status:     resp.StatusCode,
		Message:    orsMessage(raw),
		RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
	}
}

// doWithRetry retries network errors and transient ORS statuses with
// exponential backoff, honouring Retry-After when ORS sends one.
// Errors other than context cancellation wrap domain.ErrServiceUnavailable.
func (o *ORSDistanceProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	policy := o.retry
	if policy.attempts < 1 {
		policy = defaultRetry
	}
	wait := policy.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := o.send(req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var apiErr *orsAPIError
		var netErr net.Error
		retry := errors.As(err, &netErr)
		if errors.As(err, &apiErr) {
			retry = apiErr.transient()
			if apiErr.RetryAfter > wait {
				wait = apiErr.RetryAfter
			}
		}

		if !retry || attempt >= policy.attempts {
			return nil, fmt.Errorf("%w: after %d attempt(s): %w", domain.ErrServiceUnavailable, attempt, err)
		}

		if policy.maxBackoff > 0 && wait > policy.maxBackoff {
			wait = policy.maxBackoff
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

func orsMessage(raw []byte) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && len(body.Error) > 0 {
		var detailed struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &detailed) == nil && detailed.Message != "" {
			return detailed.Message
		}
		var plain string
		if json.Unmarshal(body.Error, &plain) == nil && plain != "" {
			return plain
		}
	}
	return strings.TrimSpace(string(raw))
}

// retryAfter parses the delta-seconds form of Retry-After; dates are ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
