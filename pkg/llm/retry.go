package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// maxCompleteRetries bounds provider call attempts per request.
const maxCompleteRetries = 3

// retryBaseDelay is the first backoff step; doubled per attempt.
var retryBaseDelay = time.Second

// completeWithRetry calls the provider with exponential backoff on transient
// failures. Permanent errors return immediately.
func completeWithRetry(ctx context.Context, provider Provider, request Request, logger zerolog.Logger) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < maxCompleteRetries; attempt++ {
		response, err := provider.Complete(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		// Don't retry on permanent errors
		if !IsRetryableError(err) {
			return nil, err
		}

		// Last attempt - don't wait
		if attempt == maxCompleteRetries-1 {
			break
		}

		delay := retryBaseDelay * (1 << attempt)
		logger.Info().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(err).
			Msg("Retrying provider call after transient error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxCompleteRetries, lastErr)
}
