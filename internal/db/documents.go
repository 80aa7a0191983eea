package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/types"
)

// SaveCoverLetter stores a generated cover letter. ID and CreatedAt are filled in.
func (db *DB) SaveCoverLetter(ctx context.Context, rec *types.CoverLetterRecord) error {
	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cover_letters (owner_id, job_title, company, job_description, tone, letter_text)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		 RETURNING id, created_at`,
		rec.OwnerID, rec.JobTitle, rec.Company, rec.JobDescription, rec.Tone, rec.LetterText,
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to save cover letter: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

// ListCoverLetters returns the owner's cover letters, newest first.
func (db *DB) ListCoverLetters(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.CoverLetterRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, owner_id, COALESCE(job_title, ''), COALESCE(company, ''), COALESCE(job_description, ''),
		        tone, letter_text, created_at
		 FROM cover_letters WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`,
		ownerID, types.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cover letters: %w", err)
	}
	defer rows.Close()

	var records []types.CoverLetterRecord
	for rows.Next() {
		var rec types.CoverLetterRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.JobTitle, &rec.Company, &rec.JobDescription,
			&rec.Tone, &rec.LetterText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cover letter: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cover letters: %w", err)
	}
	return records, nil
}

// SavePortfolioSite records a deployed portfolio. ID and CreatedAt are filled in.
func (db *DB) SavePortfolioSite(ctx context.Context, rec *types.PortfolioSiteRecord) error {
	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO portfolio_sites (owner_id, template_id, slug, deploy_id, url)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 RETURNING id, created_at`,
		rec.OwnerID, rec.TemplateID, rec.Slug, rec.DeployID, rec.URL,
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to save portfolio site: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

// ListPortfolioSites returns the owner's deployed sites, newest first.
func (db *DB) ListPortfolioSites(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.PortfolioSiteRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, owner_id, template_id, slug, COALESCE(deploy_id, ''), url, created_at
		 FROM portfolio_sites WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`,
		ownerID, types.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio sites: %w", err)
	}
	defer rows.Close()

	var records []types.PortfolioSiteRecord
	for rows.Next() {
		var rec types.PortfolioSiteRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.TemplateID, &rec.Slug, &rec.DeployID, &rec.URL, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio site: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio sites: %w", err)
	}
	return records, nil
}
