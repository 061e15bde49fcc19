// Package interfaces defines the core interfaces and error taxonomy for the
// uniform storage-access client, separating interface definitions from
// driver implementations.
//
// # Driver Interfaces
//
// Driver: the capability surface every storage backend implements: get,
// put, size and glob resolution for one URI scheme (file, test, http,
// https, s3, dropbox, gs).
//
// Copier: optional same-driver fast-path copy. Drivers that can copy an
// object without round-tripping the bytes through the client (for example a
// server-side object copy) implement this; callers fall back to get+put
// when the capability is absent.
//
// HTTPDriver: optional capability for HTTP-derived drivers that accept
// caller-supplied headers and query parameters. Callers obtain the
// capability explicitly and receive a typed failure (ErrNotHTTPDerived)
// when the resolved driver lacks it, rather than a runtime type surprise.
//
// # Error Taxonomy
//
// All failures surface as one of the sentinel errors defined here, wrapped
// with a human-readable message that includes the offending path:
//
//   - ErrNotFound: no driver for a scheme, or the backend reports a
//     missing object
//   - ErrRequestFailed: retries exhausted with a non-success terminal
//     status
//   - ErrMalformedResponse: a listing response missing required structure
//   - ErrInvalidArgument: empty paths, self-copies, malformed globs
//   - ErrAuthRejected: the remote service rejected the request signature
//   - ErrNotHTTPDerived: an HTTP-only operation was requested on a driver
//     without HTTP capability
package interfaces
