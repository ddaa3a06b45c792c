package upstream

import "errors"

var (
	// ErrUnavailable is returned when an upstream service cannot be reached
	// or answers with a server error.
	ErrUnavailable = errors.New("upstream service unavailable")

	// ErrRejected is returned when an upstream service answers with a client
	// error, e.g. a verification endpoint refusing a proof triplet.
	ErrRejected = errors.New("upstream service rejected request")
)
