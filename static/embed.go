/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package static

import "embed"

// Static contains embedded files from the static directory.
//
//go:embed *
var Static embed.FS
