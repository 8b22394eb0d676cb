/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// RenderModeKind distinguishes the two comparison chart layouts.
type RenderModeKind int

const (
	// ModeDualAxis plots two series in their original units, each on
	// its own value axis (first code left, second code right).
	ModeDualAxis RenderModeKind = iota
	// ModeNormalized plots three or more series on one shared 0-100
	// reference-relative percentage axis.
	ModeNormalized
)

// RenderMode is decided once per comparison invocation and threaded
// through axis and dataset construction.
type RenderMode struct {
	Kind RenderModeKind

	// Primary and Secondary are the codes owning the left and right
	// axes in dual-axis mode. Unset for normalized mode.
	Primary   string
	Secondary string
}

// ResolveRenderMode picks the chart layout from the selection, in
// selection order. Two codes keep their raw units on dual axes; three
// or more share one normalized axis.
func ResolveRenderMode(codes []string) RenderMode {
	if len(codes) >= NormalizeThreshold {
		return RenderMode{Kind: ModeNormalized}
	}

	mode := RenderMode{Kind: ModeDualAxis}
	if len(codes) > 0 {
		mode.Primary = codes[0]
	}
	if len(codes) > 1 {
		mode.Secondary = codes[1]
	}
	return mode
}
