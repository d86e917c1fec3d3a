// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

const defaultMaxRetries = 3

// retrying wraps a ChatModel with exponential backoff.
type retrying struct {
	next       ChatModel
	maxRetries int
	logger     *slog.Logger
}

// WithRetry retries failed completions up to maxRetries times (default 3),
// doubling the wait from backoffBase each attempt. Client errors other than
// 429 are returned at once, as are context errors.
func WithRetry(next ChatModel, maxRetries int, logger *slog.Logger) ChatModel {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &retrying{next: next, maxRetries: maxRetries, logger: logger}
}

func (r *retrying) Complete(ctx context.Context, req Request) (Response, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			r.logger.Warn("retrying model call", "attempt", attempt, "backoff", backoff, "err", lastErr)
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := r.next.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return Response{}, err
		}
		lastErr = err
	}
	return Response{}, fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}

// retryable reports whether err may succeed on another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := StatusCode(err)
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}

// StatusCode returns the HTTP status carried by a backend error, or 0 when
// there is none.
func StatusCode(err error) int {
	if s := openAIStatus(err); s != 0 {
		return s
	}
	return anthropicStatus(err)
}
