/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

// Sentinel errors for database setup and lookups.
var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in DATABASE_URL")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrExamNotFound                     = errors.New("exam not found")
	ErrExamResultNotFound               = errors.New("exam result not found")
	ErrBiomarkerNotFound                = errors.New("biomarker not found")
)
