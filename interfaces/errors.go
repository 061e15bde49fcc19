package interfaces

import "errors"

var (
	// ErrNotFound is returned when no driver is registered for a path's
	// scheme, or when a backend reports that the requested object does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrRequestFailed is returned when a remote request terminates with
	// a non-success status after retries are exhausted.
	ErrRequestFailed = errors.New("request failed")

	// ErrMalformedResponse is returned when a remote listing response is
	// missing structure the protocol guarantees.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidArgument is returned for empty source or destination
	// paths, self-copies of a directory, and malformed glob suffixes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthRejected is returned when the remote service rejects the
	// request signature. Bad credentials are never detected locally.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrNotHTTPDerived is returned when an operation requiring HTTP
	// capability is requested of a driver that lacks it.
	ErrNotHTTPDerived = errors.New("driver is not HTTP-derived")
)
