package localstore

import (
	"time"

	"gorm.io/datatypes"
)

// profileRow is the GORM model behind types.ProfileRecord.
type profileRow struct {
	ID              string         `gorm:"primaryKey"`
	OwnerID         string         `gorm:"uniqueIndex:idx_owner_version;not null"`
	VersionNumber   int            `gorm:"uniqueIndex:idx_owner_version;not null"`
	SourceKind      string         `gorm:"not null"`
	OriginalFileURL string
	RawPayload      datatypes.JSON
	Profile         datatypes.JSON `gorm:"not null"`
	Fallback        bool
	CreatedAt       time.Time
}

func (profileRow) TableName() string { return "profiles" }

type coverLetterRow struct {
	ID             string `gorm:"primaryKey"`
	OwnerID        string `gorm:"index;not null"`
	JobTitle       string
	Company        string
	JobDescription string
	Tone           string
	LetterText     string
	CreatedAt      time.Time
}

func (coverLetterRow) TableName() string { return "cover_letters" }

type portfolioSiteRow struct {
	ID         string `gorm:"primaryKey"`
	OwnerID    string `gorm:"index;not null"`
	TemplateID string
	Slug       string
	DeployID   string
	URL        string
	CreatedAt  time.Time
}

func (portfolioSiteRow) TableName() string { return "portfolio_sites" }
