package domain

import "errors"

// Error taxonomy shared across the service. Callers classify with errors.Is;
// the transport layer maps these to HTTP statuses.
var (
	// ErrInvalidArgument marks a request missing a required field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a referenced row (e.g. a poll cursor's message) that
	// no longer exists. Cursor resolution recovers from it locally.
	ErrNotFound = errors.New("not found")

	// ErrPayloadTooLarge marks an inbound emit body over the byte ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUpstreamUnavailable marks a failed store call. Advisory reads
	// (presence, unread count) degrade instead of propagating it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrDeliveryFailed marks a push that could not be written to one
	// connection. Always isolated per connection, never propagated.
	ErrDeliveryFailed = errors.New("delivery failed")
)
