package types

import "github.com/google/uuid"

// Session carries caller identity and capabilities into every operation that needs them.
// Nothing in the pipeline reads identity or tokens from global state.
type Session struct {
	OwnerID     uuid.UUID
	DeployToken string // hosting provider bearer token, never persisted
}
