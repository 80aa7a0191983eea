package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProfileRecord is one stored version of an owner's profile. Records are append-only:
// saving again for the same owner creates the next VersionNumber.
type ProfileRecord struct {
	ID              uuid.UUID       `json:"id"`
	OwnerID         uuid.UUID       `json:"ownerId"`
	SourceKind      SourceKind      `json:"sourceKind"`
	OriginalFileURL string          `json:"originalFileUrl,omitempty"`
	RawPayload      json.RawMessage `json:"rawPayload,omitempty"`
	Profile         *Profile        `json:"profile"`
	Fallback        bool            `json:"fallback"`
	VersionNumber   int             `json:"versionNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CoverLetterRecord is a generated cover letter.
type CoverLetterRecord struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"ownerId"`
	JobTitle       string    `json:"jobTitle,omitempty"`
	Company        string    `json:"company,omitempty"`
	JobDescription string    `json:"jobDescription,omitempty"`
	Tone           string    `json:"tone"`
	LetterText     string    `json:"letterText"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PortfolioSiteRecord is a deployed portfolio site.
type PortfolioSiteRecord struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"ownerId"`
	TemplateID string    `json:"templateId"`
	Slug       string    `json:"slug"`
	DeployID   string    `json:"deployId,omitempty"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"createdAt"`
}

// List sizes for history queries.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ClampLimit maps a requested list size into [1, MaxListLimit]. Zero or negative
// requests get DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// History is an owner's stored records, each list newest first.
type History struct {
	Profiles       []ProfileRecord       `json:"profiles"`
	CoverLetters   []CoverLetterRecord   `json:"coverLetters"`
	PortfolioSites []PortfolioSiteRecord `json:"portfolioSites"`
}
