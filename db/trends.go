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

// GetTrendAnalysis returns the cached analysis for a biomarker, if one
// exists and is still current. A cached row whose result_count no
// longer matches the actual number of results is stale and reported as
// a miss.
func GetTrendAnalysis(ctx context.Context, code string) (*TrendAnalysis, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var t TrendAnalysis
	query := `
		SELECT id, biomarker_code, content, result_count, created_at
		FROM trend_analyses
		WHERE biomarker_code = $1
	`

	err := pool.QueryRow(ctx, query, code).Scan(&t.ID, &t.BiomarkerCode, &t.Content, &t.ResultCount, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trend analysis: %w", err)
	}

	count, err := CountResultsByBiomarker(ctx, code)
	if err != nil {
		return nil, err
	}
	if count != t.ResultCount {
		return nil, nil
	}

	return &t, nil
}

// SaveTrendAnalysis caches a generated analysis, replacing any
// previous one for the same biomarker.
func SaveTrendAnalysis(ctx context.Context, code, content string, resultCount int) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO trend_analyses (biomarker_code, content, result_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (biomarker_code) DO UPDATE SET
			content = EXCLUDED.content,
			result_count = EXCLUDED.result_count,
			created_at = now()
	`, code, content, resultCount)
	if err != nil {
		return fmt.Errorf("failed to save trend analysis: %w", err)
	}

	return nil
}
