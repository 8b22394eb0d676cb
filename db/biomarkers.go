/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SyncBiomarkerCatalog upserts the catalog definitions into the
// biomarkers table. Runs after every migration so new catalog entries
// appear without a separate data migration.
func SyncBiomarkerCatalog(ctx context.Context) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO biomarkers (code, name, unit, description, category)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			updated_at = now()
	`

	for _, def := range GetBiomarkerDefinitions() {
		if _, err := tx.Exec(ctx, query, def.Code, def.Name, def.Unit, def.Description, def.Category); err != nil {
			return fmt.Errorf("failed to sync biomarker %q: %w", def.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog sync: %w", err)
	}

	logger.Debug("Synced biomarker catalog", "count", len(GetBiomarkerDefinitions()))

	return nil
}

// ListBiomarkers returns all catalog biomarkers ordered by category
// then name.
func ListBiomarkers(ctx context.Context) ([]Biomarker, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, code, name, unit, description, category, created_at, updated_at
		FROM biomarkers
		ORDER BY category ASC, name ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list biomarkers: %w", err)
	}
	defer rows.Close()

	var biomarkers []Biomarker
	for rows.Next() {
		var b Biomarker
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Unit, &b.Description, &b.Category, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan biomarker: %w", err)
		}
		biomarkers = append(biomarkers, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating biomarkers: %w", err)
	}

	return biomarkers, nil
}

// GetBiomarkerByCode returns one catalog biomarker.
func GetBiomarkerByCode(ctx context.Context, code string) (*Biomarker, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var b Biomarker
	query := `
		SELECT id, code, name, unit, description, category, created_at, updated_at
		FROM biomarkers
		WHERE code = $1
	`

	err := pool.QueryRow(ctx, query, code).Scan(&b.ID, &b.Code, &b.Name, &b.Unit, &b.Description, &b.Category, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBiomarkerNotFound
		}
		return nil, fmt.Errorf("failed to get biomarker: %w", err)
	}

	return &b, nil
}
