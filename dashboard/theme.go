/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// Theme is the persisted display preference.
type Theme string

// Supported themes. Dark is the default when no preference is stored.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps a stored preference string onto a Theme, defaulting
// to dark for anything unrecognized (including the empty string).
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeConfig is the resolved color/style table every chart builder
// reads from. Per-point colors (abnormal highlighting, reference
// bands) are baked into dataset construction from these values, which
// is why a theme change forces a full re-render rather than a restyle.
type ThemeConfig struct {
	Theme Theme

	// Base colors.
	Background string
	Surface    string

	// Chart chrome.
	ChartText      string
	ChartTextMuted string
	ChartGrid      string
	ChartAxis      string

	// Semantic colors.
	Normal   string
	Abnormal string

	// Reference band and bound mark lines.
	ReferenceLine string

	// Ordered series palette; selection order indexes into it,
	// cycling past the end.
	SeriesPalette []string
}

// SeriesColor returns the palette color for a series by its position
// in the selection order, cycling when the selection exceeds the
// palette length.
func (c ThemeConfig) SeriesColor(index int) string {
	if len(c.SeriesPalette) == 0 {
		return c.ChartText
	}
	if index < 0 {
		index = 0
	}
	return c.SeriesPalette[index%len(c.SeriesPalette)]
}

// ResolveTheme returns the color table for a theme.
func ResolveTheme(t Theme) ThemeConfig {
	if t == ThemeLight {
		return lightTheme
	}
	return darkTheme
}

var darkTheme = ThemeConfig{
	Theme:          ThemeDark,
	Background:     "#0c0a09",
	Surface:        "#1c1917",
	ChartText:      "#d6d3d1",
	ChartTextMuted: "#a8a29e",
	ChartGrid:      "#44403c",
	ChartAxis:      "#57534e",
	Normal:         "#22c55e",
	Abnormal:       "#ef4444",
	ReferenceLine:  "rgba(128, 128, 128, 0.6)",
	SeriesPalette: []string{
		"#38bdf8", // sky-400
		"#fbbf24", // amber-400
		"#a78bfa", // violet-400
		"#4ade80", // green-400
		"#f472b6", // pink-400
		"#22d3ee", // cyan-400
		"#fb923c", // orange-400
		"#818cf8", // indigo-400
	},
}

var lightTheme = ThemeConfig{
	Theme:          ThemeLight,
	Background:     "#fafaf9",
	Surface:        "#ffffff",
	ChartText:      "#44403c",
	ChartTextMuted: "#78716c",
	ChartGrid:      "#e7e5e4",
	ChartAxis:      "#a8a29e",
	Normal:         "#16a34a",
	Abnormal:       "#dc2626",
	ReferenceLine:  "rgba(128, 128, 128, 0.6)",
	SeriesPalette: []string{
		"#0369a1", // sky-700
		"#a16207", // amber-700
		"#7c3aed", // violet-600
		"#15803d", // green-700
		"#be185d", // pink-700
		"#0891b2", // cyan-600
		"#c2410c", // orange-700
		"#4338ca", // indigo-700
	},
}
