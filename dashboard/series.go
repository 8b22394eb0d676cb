/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// BiomarkerSeries is the per-biomarker time series supplied by the
// dashboard data provider. All slices are index-aligned: Values[i],
// RefMin[i], RefMax[i] and Abnormal[i] describe the sample taken on
// Dates[i].
type BiomarkerSeries struct {
	Code     string
	Name     string
	Unit     string
	Dates    []string // ISO YYYY-MM-DD, strictly ascending
	Values   []float64
	RefMin   []Sample
	RefMax   []Sample
	Abnormal []bool // may be nil when the provider has no range data
}

// Len returns the number of samples in the series.
func (s BiomarkerSeries) Len() int {
	return len(s.Dates)
}

// AbnormalAt reports whether the sample at index i was flagged as out
// of range. Out-of-range indices and missing flag data read as false.
func (s BiomarkerSeries) AbnormalAt(i int) bool {
	if i < 0 || i >= len(s.Abnormal) {
		return false
	}
	return s.Abnormal[i]
}

// AlignedSeries is one biomarker's slice of an AlignedComparisonData:
// the series re-indexed onto the unified date axis, with absence
// markers where the biomarker has no sample for a date.
type AlignedSeries struct {
	Code   string
	Name   string
	Unit   string
	Values []Sample
	RefMin []Sample
	RefMax []Sample
}

// AlignedComparisonData is the merged view of several selected series
// on one sorted date axis. Series preserves the caller-supplied code
// order, which drives legend ordering and color assignment.
type AlignedComparisonData struct {
	Dates  []string
	Series []AlignedSeries
}

// Lookup returns the aligned series for a code, if present.
func (d AlignedComparisonData) Lookup(code string) (AlignedSeries, bool) {
	for _, s := range d.Series {
		if s.Code == code {
			return s, true
		}
	}
	return AlignedSeries{}, false
}
