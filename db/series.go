/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

// GetBiomarkerSeries returns the full per-biomarker history keyed by
// code: one chronological sample per exam date, with the snapshotted
// reference bounds and abnormal flags. This is the dashboard data set
// the alignment engine reads from.
func GetBiomarkerSeries(ctx context.Context) (map[string]dashboard.BiomarkerSeries, []string, error) {
	if pool == nil {
		return nil, nil, ErrDatabaseConnectionNotInitialized
	}

	// One sample per (biomarker, date); if two exams share a date the
	// most recently recorded result wins.
	query := `
		SELECT DISTINCT ON (b.code, e.exam_date)
			b.code, b.name, b.unit, e.exam_date,
			r.value, r.ref_min, r.ref_max, r.is_abnormal
		FROM exam_results r
		JOIN biomarkers b ON b.id = r.biomarker_id
		JOIN exams e ON e.id = r.exam_id
		ORDER BY b.code ASC, e.exam_date ASC, r.created_at DESC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query biomarker series: %w", err)
	}
	defer rows.Close()

	series := make(map[string]dashboard.BiomarkerSeries)
	var codes []string

	for rows.Next() {
		var (
			code, name, unit string
			examDate         time.Time
			value            float64
			refMin, refMax   *float64
			abnormal         bool
		)
		if err := rows.Scan(&code, &name, &unit, &examDate, &value, &refMin, &refMax, &abnormal); err != nil {
			return nil, nil, fmt.Errorf("failed to scan series row: %w", err)
		}

		s, ok := series[code]
		if !ok {
			s = dashboard.BiomarkerSeries{Code: code, Name: name, Unit: unit}
			codes = append(codes, code)
		}

		s.Dates = append(s.Dates, examDate.Format("2006-01-02"))
		s.Values = append(s.Values, value)
		s.RefMin = append(s.RefMin, dashboard.SampleFromPtr(refMin))
		s.RefMax = append(s.RefMax, dashboard.SampleFromPtr(refMax))
		s.Abnormal = append(s.Abnormal, abnormal)
		series[code] = s
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating series rows: %w", err)
	}

	return series, codes, nil
}

// GetBiomarkerSeriesByCode returns one biomarker's history, or nil
// when the biomarker has no results yet.
func GetBiomarkerSeriesByCode(ctx context.Context, code string) (*dashboard.BiomarkerSeries, error) {
	series, _, err := GetBiomarkerSeries(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := series[code]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// LatestResultCounts returns how many of each biomarker's most recent
// results are normal versus abnormal.
func LatestResultCounts(ctx context.Context) (normal, abnormal int, err error) {
	if pool == nil {
		return 0, 0, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT latest.is_abnormal),
			COUNT(*) FILTER (WHERE latest.is_abnormal)
		FROM (
			SELECT DISTINCT ON (r.biomarker_id) r.is_abnormal
			FROM exam_results r
			JOIN exams e ON e.id = r.exam_id
			ORDER BY r.biomarker_id, e.exam_date DESC, r.created_at DESC
		) latest
	`

	if err := pool.QueryRow(ctx, query).Scan(&normal, &abnormal); err != nil {
		return 0, 0, fmt.Errorf("failed to count latest results: %w", err)
	}

	return normal, abnormal, nil
}

// CategoryScore is the share of in-range latest results per category.
type CategoryScore struct {
	Category BiomarkerCategory
	Score    float64
}

// LatestCategoryScores returns, per biomarker category, the percentage
// of biomarkers whose most recent result is within range.
func LatestCategoryScores(ctx context.Context) ([]CategoryScore, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT latest.category,
			100.0 * COUNT(*) FILTER (WHERE NOT latest.is_abnormal) / COUNT(*)
		FROM (
			SELECT DISTINCT ON (r.biomarker_id) b.category, r.is_abnormal
			FROM exam_results r
			JOIN biomarkers b ON b.id = r.biomarker_id
			JOIN exams e ON e.id = r.exam_id
			ORDER BY r.biomarker_id, e.exam_date DESC, r.created_at DESC
		) latest
		GROUP BY latest.category
		ORDER BY latest.category ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category scores: %w", err)
	}
	defer rows.Close()

	var scores []CategoryScore
	for rows.Next() {
		var s CategoryScore
		if err := rows.Scan(&s.Category, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan category score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category scores: %w", err)
	}

	return scores, nil
}
