package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/blyn/internal/types"
)

const profileColumns = `id, owner_id, source_kind, COALESCE(original_file_url, ''), raw_payload, profile,
	fallback, version_number, created_at`

// SaveProfile appends a new profile version for the record's owner. ID, VersionNumber
// and CreatedAt are filled in on success.
func (db *DB) SaveProfile(ctx context.Context, rec *types.ProfileRecord) error {
	if rec.OwnerID == uuid.Nil {
		return fmt.Errorf("failed to save profile: owner id is required")
	}
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	var raw []byte
	if len(rec.RawPayload) > 0 {
		raw = rec.RawPayload
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize version assignment per owner
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, rec.OwnerID); err != nil {
		return fmt.Errorf("failed to lock owner versions: %w", err)
	}

	var (
		id        uuid.UUID
		version   int
		createdAt time.Time
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (owner_id, source_kind, original_file_url, raw_payload, profile, fallback, version_number)
		 SELECT $1::uuid, $2::text, NULLIF($3::text, ''), $4::jsonb, $5::jsonb, $6::boolean, COALESCE(MAX(version_number), 0) + 1
		 FROM profiles WHERE owner_id = $1::uuid
		 RETURNING id, version_number, created_at`,
		rec.OwnerID, string(rec.SourceKind), rec.OriginalFileURL, raw, profileJSON, rec.Fallback,
	).Scan(&id, &version, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	rec.ID = id
	rec.VersionNumber = version
	rec.CreatedAt = createdAt
	return nil
}

// LatestProfile returns the owner's highest version, or nil if none exists.
func (db *DB) LatestProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = $1
		 ORDER BY version_number DESC LIMIT 1`,
		ownerID,
	)
	rec, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest profile: %w", err)
	}
	return rec, nil
}

// GetProfileVersion returns one version of the owner's profile, or nil if absent.
func (db *DB) GetProfileVersion(ctx context.Context, ownerID uuid.UUID, version int) (*types.ProfileRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = $1 AND version_number = $2`,
		ownerID, version,
	)
	rec, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile version %d: %w", version, err)
	}
	return rec, nil
}

// ListProfiles returns the owner's versions, newest first.
func (db *DB) ListProfiles(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.ProfileRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = $1
		 ORDER BY version_number DESC LIMIT $2`,
		ownerID, types.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var records []types.ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return records, nil
}

func scanProfile(row pgx.Row) (*types.ProfileRecord, error) {
	var (
		rec         types.ProfileRecord
		sourceKind  string
		raw         []byte
		profileJSON []byte
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &sourceKind, &rec.OriginalFileURL, &raw, &profileJSON,
		&rec.Fallback, &rec.VersionNumber, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.SourceKind = types.SourceKind(sourceKind)
	if len(raw) > 0 {
		rec.RawPayload = raw
	}
	profile := types.NewProfile()
	if err := json.Unmarshal(profileJSON, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	profile.EnsureDefaults()
	rec.Profile = profile
	return &rec, nil
}
