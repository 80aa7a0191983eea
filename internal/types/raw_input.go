package types

import "encoding/json"

// SourceKind identifies where raw profile data came from
type SourceKind string

const (
	// SourceDocument is a document-extraction result (uploaded resume)
	SourceDocument SourceKind = "document"
	// SourceQuestionnaire is a set of guided-form answers
	SourceQuestionnaire SourceKind = "questionnaire"
	// SourceScrapedProfile is a scraped public profile page
	SourceScrapedProfile SourceKind = "scraped_profile"
)

// Valid reports whether the source kind is supported.
func (s SourceKind) Valid() bool {
	switch s {
	case SourceDocument, SourceQuestionnaire, SourceScrapedProfile:
		return true
	}
	return false
}

// RawInput is the tagged union of every raw profile source.
// Payload is the source's JSON record; its field names vary by Source.
type RawInput struct {
	Source  SourceKind      `json:"source"`
	Payload json.RawMessage `json:"payload"`
}
