// Package localstore keeps profiles, cover letters and portfolio sites in a local SQLite
// file. It mirrors the PostgreSQL store for single-user CLI runs.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/types"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps a GORM SQLite handle.
type Store struct {
	db *gorm.DB
}

// Open creates the database file (and its directory) if needed and migrates the tables.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&profileRow{}, &coverLetterRow{}, &portfolioSiteRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql DB: %w", err)
	}
	return sqlDB.Close()
}

// SaveProfile appends a new profile version for the record's owner.
func (s *Store) SaveProfile(ctx context.Context, rec *types.ProfileRecord) error {
	if rec.OwnerID == uuid.Nil {
		return fmt.Errorf("failed to save profile: owner id is required")
	}
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	row := profileRow{
		ID:              uuid.NewString(),
		OwnerID:         rec.OwnerID.String(),
		SourceKind:      string(rec.SourceKind),
		OriginalFileURL: rec.OriginalFileURL,
		Profile:         datatypes.JSON(profileJSON),
		Fallback:        rec.Fallback,
	}
	if len(rec.RawPayload) > 0 {
		row.RawPayload = datatypes.JSON(rec.RawPayload)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current int
		if err := tx.Model(&profileRow{}).
			Where("owner_id = ?", row.OwnerID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&current).Error; err != nil {
			return fmt.Errorf("failed to read current version: %w", err)
		}
		row.VersionNumber = current + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	rec.ID = uuid.MustParse(row.ID)
	rec.VersionNumber = row.VersionNumber
	rec.CreatedAt = row.CreatedAt
	return nil
}

// LatestProfile returns the owner's highest version, or nil if none exists.
func (s *Store) LatestProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileRecord, error) {
	var row profileRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("version_number DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest profile: %w", err)
	}
	return row.record()
}

// ListProfiles returns the owner's versions, newest first.
func (s *Store) ListProfiles(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.ProfileRecord, error) {
	var rows []profileRow
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("version_number DESC").
		Limit(types.ClampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	records := make([]types.ProfileRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// SaveCoverLetter stores a generated cover letter.
func (s *Store) SaveCoverLetter(ctx context.Context, rec *types.CoverLetterRecord) error {
	row := coverLetterRow{
		ID:             uuid.NewString(),
		OwnerID:        rec.OwnerID.String(),
		JobTitle:       rec.JobTitle,
		Company:        rec.Company,
		JobDescription: rec.JobDescription,
		Tone:           rec.Tone,
		LetterText:     rec.LetterText,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save cover letter: %w", err)
	}
	rec.ID = uuid.MustParse(row.ID)
	rec.CreatedAt = row.CreatedAt
	return nil
}

// ListCoverLetters returns the owner's cover letters, newest first.
func (s *Store) ListCoverLetters(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.CoverLetterRecord, error) {
	var rows []coverLetterRow
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Limit(types.ClampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list cover letters: %w", err)
	}
	records := make([]types.CoverLetterRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.CoverLetterRecord{
			ID:             uuid.MustParse(row.ID),
			OwnerID:        ownerID,
			JobTitle:       row.JobTitle,
			Company:        row.Company,
			JobDescription: row.JobDescription,
			Tone:           row.Tone,
			LetterText:     row.LetterText,
			CreatedAt:      row.CreatedAt,
		})
	}
	return records, nil
}

// SavePortfolioSite records a deployed portfolio.
func (s *Store) SavePortfolioSite(ctx context.Context, rec *types.PortfolioSiteRecord) error {
	row := portfolioSiteRow{
		ID:         uuid.NewString(),
		OwnerID:    rec.OwnerID.String(),
		TemplateID: rec.TemplateID,
		Slug:       rec.Slug,
		DeployID:   rec.DeployID,
		URL:        rec.URL,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save portfolio site: %w", err)
	}
	rec.ID = uuid.MustParse(row.ID)
	rec.CreatedAt = row.CreatedAt
	return nil
}

// ListPortfolioSites returns the owner's deployed sites, newest first.
func (s *Store) ListPortfolioSites(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.PortfolioSiteRecord, error) {
	var rows []portfolioSiteRow
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Limit(types.ClampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list portfolio sites: %w", err)
	}
	records := make([]types.PortfolioSiteRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.PortfolioSiteRecord{
			ID:         uuid.MustParse(row.ID),
			OwnerID:    ownerID,
			TemplateID: row.TemplateID,
			Slug:       row.Slug,
			DeployID:   row.DeployID,
			URL:        row.URL,
			CreatedAt:  row.CreatedAt,
		})
	}
	return records, nil
}

func (r profileRow) record() (*types.ProfileRecord, error) {
	profile := types.NewProfile()
	if err := json.Unmarshal(r.Profile, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", r.ID, err)
	}
	profile.EnsureDefaults()

	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", r.ID, err)
	}
	owner, err := uuid.Parse(r.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", r.OwnerID, err)
	}

	rec := &types.ProfileRecord{
		ID:              id,
		OwnerID:         owner,
		SourceKind:      types.SourceKind(r.SourceKind),
		OriginalFileURL: r.OriginalFileURL,
		Profile:         profile,
		Fallback:        r.Fallback,
		VersionNumber:   r.VersionNumber,
		CreatedAt:       r.CreatedAt,
	}
	if len(r.RawPayload) > 0 {
		rec.RawPayload = json.RawMessage(r.RawPayload)
	}
	return rec, nil
}
