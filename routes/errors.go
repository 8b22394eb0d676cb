/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingDate      = errors.New("missing date")
	errInvalidDate      = errors.New("invalid date")
	errMissingBiomarker = errors.New("missing biomarker")
	errInvalidValue     = errors.New("invalid value")
)
