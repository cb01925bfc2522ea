package apperr

import "errors"

// ErrInvalidInput is returned when a provided value fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures
// uniformly across all packages.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by any HTTP-based component when the request
// fails at the transport level or the server responds with a non-2xx status
// code. Use errors.Is(err, apperr.ErrRequestFailed) to detect request
// failures uniformly across all packages.
var ErrRequestFailed = errors.New("request failed")

// ErrMissingCredentials is returned before any record is processed when the
// directory service credentials are incomplete. It aborts the whole run.
var ErrMissingCredentials = errors.New("missing credentials")
