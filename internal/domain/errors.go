package domain

import "errors"

// Sentinel errors shared across services, adapters and delivery.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnknownWidget      = errors.New("unknown widget")
	ErrInvalidStatus      = errors.New("invalid status filter")
	ErrInvalidStore       = errors.New("invalid store")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrPageOutOfRange     = errors.New("page out of range")
)

// Remote fetch failure kinds. Every one of them collapses into an empty
// result page at the widget boundary.
var (
	ErrTransport           = errors.New("remote transport failure")
	ErrUpstreamStatus      = errors.New("remote returned non-2xx status")
	ErrDecode              = errors.New("remote response is not valid JSON")
	ErrUpstreamApplication = errors.New("remote response carries an error")
)
