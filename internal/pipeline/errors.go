package pipeline

import "errors"

// ErrMissingDeployToken is returned when publishing without a hosting token in the session.
var ErrMissingDeployToken = errors.New("deploy token is required")

// ErrMissingOwner is returned when an operation that persists records has no owner.
var ErrMissingOwner = errors.New("session owner is required")

// ErrNotConfigured is wrapped by operations whose component was not wired in.
var ErrNotConfigured = errors.New("not configured")
