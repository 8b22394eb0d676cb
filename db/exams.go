/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CreateExamInput holds the fields for a new exam.
type CreateExamInput struct {
	ExamDate time.Time
	LabName  *string
	Notes    *string
}

// CreateExam creates an exam and returns its ID.
func CreateExam(ctx context.Context, input CreateExamInput) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	var id string
	query := `
		INSERT INTO exams (exam_date, lab_name, notes)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := pool.QueryRow(ctx, query, input.ExamDate, input.LabName, input.Notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create exam: %w", err)
	}

	return id, nil
}

// ListExams returns all exams newest first, with result counts.
func ListExams(ctx context.Context) ([]ExamSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT e.id, e.exam_date, e.lab_name, e.notes, e.created_at, e.updated_at,
			COUNT(r.id) AS result_count,
			COUNT(r.id) FILTER (WHERE r.is_abnormal) AS abnormal_count
		FROM exams e
		LEFT JOIN exam_results r ON r.exam_id = e.id
		GROUP BY e.id
		ORDER BY e.exam_date DESC, e.created_at DESC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	defer rows.Close()

	var exams []ExamSummary
	for rows.Next() {
		var e ExamSummary
		err := rows.Scan(
			&e.ID, &e.ExamDate, &e.LabName, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
			&e.ResultCount, &e.AbnormalCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exams: %w", err)
	}

	return exams, nil
}

// GetExam returns a single exam by ID.
func GetExam(ctx context.Context, id string) (*Exam, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var e Exam
	query := `
		SELECT id, exam_date, lab_name, notes, created_at, updated_at
		FROM exams
		WHERE id = $1
	`

	err := pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.ExamDate, &e.LabName, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	return &e, nil
}

// DeleteExam removes an exam and, via cascade, its results.
func DeleteExam(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tag, err := pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}

	return nil
}

// AddExamResult records one measured value on an exam. The reference
// bounds are snapshotted from the catalog for the stored gender
// preference, and the abnormal flag computed against them, at insert
// time.
func AddExamResult(ctx context.Context, examID, biomarkerCode string, value float64) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	biomarker, err := GetBiomarkerByCode(ctx, biomarkerCode)
	if err != nil {
		return "", err
	}

	gender, err := GetGenderSetting(ctx)
	if err != nil {
		return "", err
	}

	refMin, refMax := ResolveReferenceBounds(biomarkerCode, gender)
	abnormal := IsAbnormal(value, refMin, refMax)

	var id string
	query := `
		INSERT INTO exam_results (exam_id, biomarker_id, value, ref_min, ref_max, is_abnormal)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (exam_id, biomarker_id) DO UPDATE SET
			value = EXCLUDED.value,
			ref_min = EXCLUDED.ref_min,
			ref_max = EXCLUDED.ref_max,
			is_abnormal = EXCLUDED.is_abnormal
		RETURNING id
	`

	err = pool.QueryRow(ctx, query, examID, biomarker.ID, value, refMin, refMax, abnormal).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to add exam result: %w", err)
	}

	return id, nil
}

// GetExamResults returns the results of one exam joined with their
// catalog entries, ordered by category then name.
func GetExamResults(ctx context.Context, examID string) ([]ExamResultDetail, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT r.id, r.exam_id, r.biomarker_id, r.value, r.ref_min, r.ref_max, r.is_abnormal, r.created_at,
			b.code, b.name, b.unit, b.category
		FROM exam_results r
		JOIN biomarkers b ON b.id = r.biomarker_id
		WHERE r.exam_id = $1
		ORDER BY b.category ASC, b.name ASC
	`

	rows, err := pool.Query(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam results: %w", err)
	}
	defer rows.Close()

	var results []ExamResultDetail
	for rows.Next() {
		var r ExamResultDetail
		err := rows.Scan(
			&r.ID, &r.ExamID, &r.BiomarkerID, &r.Value, &r.RefMin, &r.RefMax, &r.IsAbnormal, &r.CreatedAt,
			&r.Code, &r.Name, &r.Unit, &r.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exam results: %w", err)
	}

	return results, nil
}

// CountResultsByBiomarker returns how many results exist for one
// biomarker across all exams. Used to invalidate cached trend
// analyses.
func CountResultsByBiomarker(ctx context.Context, code string) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	var count int
	query := `
		SELECT COUNT(*)
		FROM exam_results r
		JOIN biomarkers b ON b.id = r.biomarker_id
		WHERE b.code = $1
	`

	if err := pool.QueryRow(ctx, query, code).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}

	return count, nil
}

// DeleteExamResult removes one result from an exam.
func DeleteExamResult(ctx context.Context, examID, resultID string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tag, err := pool.Exec(ctx,
		`DELETE FROM exam_results WHERE id = $1 AND exam_id = $2`, resultID, examID)
	if err != nil {
		return fmt.Errorf("failed to delete exam result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExamResultNotFound
	}

	return nil
}

// CountExams returns the total number of recorded exams.
func CountExams(ctx context.Context) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exams: %w", err)
	}

	return count, nil
}

// GetPreviousResults returns, for each biomarker measured on an exam,
// the most recent value from any earlier exam. Biomarkers with no
// earlier result are absent from the map.
func GetPreviousResults(ctx context.Context, examID string) (map[string]float64, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT DISTINCT ON (b.code) b.code, r.value
		FROM exam_results r
		JOIN biomarkers b ON b.id = r.biomarker_id
		JOIN exams e ON e.id = r.exam_id
		WHERE e.exam_date < (SELECT exam_date FROM exams WHERE id = $1)
			AND r.biomarker_id IN (
				SELECT biomarker_id FROM exam_results WHERE exam_id = $1
			)
		ORDER BY b.code, e.exam_date DESC, r.created_at DESC
	`

	rows, err := pool.Query(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous results: %w", err)
	}
	defer rows.Close()

	previous := make(map[string]float64)
	for rows.Next() {
		var code string
		var value float64
		if err := rows.Scan(&code, &value); err != nil {
			return nil, fmt.Errorf("failed to scan previous result: %w", err)
		}
		previous[code] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating previous results: %w", err)
	}

	return previous, nil
}
