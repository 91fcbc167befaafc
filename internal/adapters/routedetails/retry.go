package routedetails

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"time"
)

// isTransient reports whether a transport error is a connection reset or a
// timeout. A peer closing the connection before answering counts as a reset.
func isTransient(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// retryable classifies a failed attempt, ignoring the attempt limit.
func retryable(err error) bool {
	var transient *TransientNetworkError
	if errors.As(err, &transient) {
		return true
	}

	var remote *RemoteServiceError
	if errors.As(err, &remote) {
		return remote.Retryable()
	}

	return false
}

// shouldRetry combines the error class with the attempt limit.
func (c *Client) shouldRetry(err error, attempt int) bool {
	return retryable(err) && attempt < c.maxAttempts
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
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
