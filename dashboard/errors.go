/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

import "errors"

var (
	// ErrUnknownChart means a render was requested for a chart slot
	// the controller does not know about.
	ErrUnknownChart = errors.New("unknown chart kind")

	// ErrChartData means the data recorded for a chart slot does not
	// match the type that slot renders from.
	ErrChartData = errors.New("chart data has wrong type")
)
