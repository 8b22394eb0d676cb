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

	"github.com/lmteixeira17/blood-exams/dashboard"
)

// Setting keys stored in app_settings.
const (
	SettingTheme  = "theme"
	SettingGender = "gender"
)

// GetSetting returns the stored value for a key, or "" when unset.
func GetSetting(ctx context.Context, key string) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	var value string
	err := pool.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, nil
}

// SetSetting stores a value for a key, overwriting any previous value.
func SetSetting(ctx context.Context, key, value string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}

	return nil
}

// GetThemeSetting returns the stored theme preference, defaulting to
// dark when none is stored.
func GetThemeSetting(ctx context.Context) (dashboard.Theme, error) {
	value, err := GetSetting(ctx, SettingTheme)
	if err != nil {
		return dashboard.ThemeDark, err
	}
	return dashboard.ParseTheme(value), nil
}

// SetThemeSetting persists the theme preference.
func SetThemeSetting(ctx context.Context, theme dashboard.Theme) error {
	return SetSetting(ctx, SettingTheme, string(theme))
}

// GetGenderSetting returns the stored gender preference used to
// resolve gender-split reference ranges. Unset means unisex ranges.
func GetGenderSetting(ctx context.Context) (Gender, error) {
	value, err := GetSetting(ctx, SettingGender)
	if err != nil {
		return GenderUnisex, err
	}
	switch Gender(value) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return GenderUnisex, nil
	}
}

// SetGenderSetting persists the gender preference.
func SetGenderSetting(ctx context.Context, gender Gender) error {
	return SetSetting(ctx, SettingGender, string(gender))
}
