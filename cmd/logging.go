/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/lmteixeira17/blood-exams/logging"

var appLogger = logging.Logger(logging.SourceApp)
