/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// NormalizePoint rescales a raw value against its reference bounds to
// a 0-100 percentage: 0% at the lower bound, 100% at the upper bound.
// With only one bound the bound itself is the 100% mark. Positions
// that cannot be meaningfully normalized (no usable bound, equal
// bounds, or a bound of exactly zero in the single-bound ratio
// branches) come back as the absence marker, never as an error.
func NormalizePoint(value, refMin, refMax Sample) Sample {
	if !value.Valid {
		return NoSample
	}

	switch {
	case refMin.Valid && refMax.Valid && refMax.Value != refMin.Value:
		return SampleOf((value.Value - refMin.Value) / (refMax.Value - refMin.Value) * 100)
	case !refMin.Valid && refMax.Valid && refMax.Value > 0:
		return SampleOf(value.Value / refMax.Value * 100)
	case refMin.Valid && !refMax.Valid && refMin.Value > 0:
		return SampleOf(value.Value / refMin.Value * 100)
	default:
		return NoSample
	}
}

// NormalizeSeries converts an aligned series into reference-relative
// percentages, one per position of the unified date axis.
func NormalizeSeries(s AlignedSeries) []Sample {
	out := make([]Sample, len(s.Values))
	for i := range s.Values {
		out[i] = NormalizePoint(s.Values[i], s.RefMin[i], s.RefMax[i])
	}
	return out
}
