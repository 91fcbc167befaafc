package routedetails

import (
	"fmt"
)

// TransientNetworkError is a connection reset or timeout talking to the
// route service. It is retried.
type TransientNetworkError struct {
	URL string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error: GET %s: %v", e.URL, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

// RemoteServiceError is any response other than 200 OK.
type RemoteServiceError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *RemoteServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote service: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("remote service: GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Retryable reports whether the status is a server-side failure.
func (e *RemoteServiceError) Retryable() bool {
	return e.StatusCode >= 500
}

// ProtocolError is a 200 response that cannot be used: wrong content type or
// a body without a decodable eta and route.
type ProtocolError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: GET %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error: GET %s: %s", e.URL, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ParcelSyncError is the terminal failure of one parcel.
type ParcelSyncError struct {
	ParcelID int
	Attempts int
	Err      error
}

func (e *ParcelSyncError) Error() string {
	return fmt.Sprintf("sync parcel %d: gave up after %d attempt(s): %v", e.ParcelID, e.Attempts, e.Err)
}

func (e *ParcelSyncError) Unwrap() error { return e.Err }
