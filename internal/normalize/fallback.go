package normalize

import (
	_ "embed"

	"github.com/jonathan/blyn/internal/types"
)

//go:embed fallback_profile.json
var fallbackPayload []byte

// FallbackPayload returns the raw document record behind FallbackProfile.
func FallbackPayload() []byte {
	return append([]byte(nil), fallbackPayload...)
}

// FallbackProfile returns the fixed sample profile substituted when extraction fails.
// Every call returns a fresh copy.
func FallbackProfile() *types.Profile {
	return Normalize(types.RawInput{Source: types.SourceDocument, Payload: fallbackPayload})
}
