/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// Sample is an optional numeric observation. The zero value is the
// absence marker: a date with no measurement, or a missing reference
// bound. Using a tagged value instead of a nil pointer keeps the
// absence case explicit across the parallel arrays of a series.
type Sample struct {
	Value float64
	Valid bool
}

// SampleOf returns a present sample holding v.
func SampleOf(v float64) Sample {
	return Sample{Value: v, Valid: true}
}

// NoSample is the explicit absence marker.
var NoSample = Sample{}

// SampleFromPtr converts a nullable pointer (the database layer's
// representation) into a Sample.
func SampleFromPtr(v *float64) Sample {
	if v == nil {
		return NoSample
	}
	return SampleOf(*v)
}

// ChartValue returns the value in the form the chart layer consumes:
// the number itself, or "-" which ECharts renders as a gap.
func (s Sample) ChartValue() interface{} {
	if !s.Valid {
		return "-"
	}
	return s.Value
}
