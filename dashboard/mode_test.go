// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package dashboard

import "testing"

func TestResolveRenderModeTwoSeries(t *testing.T) {
	t.Parallel()

	mode := ResolveRenderMode([]string{"glucose", "ldl"})
	if mode.Kind != ModeDualAxis {
		t.Fatalf("two codes should render dual-axis, got %v", mode.Kind)
	}
	if mode.Primary != "glucose" || mode.Secondary != "ldl" {
		t.Fatalf("axis assignment wrong: %#v", mode)
	}
}

func TestResolveRenderModeThreeSeries(t *testing.T) {
	t.Parallel()

	mode := ResolveRenderMode([]string{"glucose", "ldl", "hdl"})
	if mode.Kind != ModeNormalized {
		t.Fatalf("three codes should render normalized, got %v", mode.Kind)
	}
}
