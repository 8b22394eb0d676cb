/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

import "sort"

// Align merges the selected series onto one sorted date axis. Codes
// with no series in the provided set are skipped. The output is pure
// and deterministic: the date axis is the sorted union of all sample
// dates (lexicographic sort of the ISO keys), and the series order
// follows the caller-supplied code order.
func Align(codes []string, series map[string]BiomarkerSeries) AlignedComparisonData {
	dateSet := make(map[string]struct{})
	for _, code := range codes {
		s, ok := series[code]
		if !ok {
			continue
		}
		for _, d := range s.Dates {
			dateSet[d] = struct{}{}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	aligned := AlignedComparisonData{Dates: dates}

	for _, code := range codes {
		s, ok := series[code]
		if !ok {
			continue
		}

		index := make(map[string]int, len(s.Dates))
		for i, d := range s.Dates {
			index[d] = i
		}

		out := AlignedSeries{
			Code:   s.Code,
			Name:   s.Name,
			Unit:   s.Unit,
			Values: make([]Sample, len(dates)),
			RefMin: make([]Sample, len(dates)),
			RefMax: make([]Sample, len(dates)),
		}

		for pos, d := range dates {
			i, present := index[d]
			if !present {
				continue // all three slots stay NoSample
			}
			out.Values[pos] = SampleOf(s.Values[i])
			if i < len(s.RefMin) {
				out.RefMin[pos] = s.RefMin[i]
			}
			if i < len(s.RefMax) {
				out.RefMax[pos] = s.RefMax[i]
			}
		}

		aligned.Series = append(aligned.Series, out)
	}

	return aligned
}
