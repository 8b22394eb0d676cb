// SPDX-FileCopyrightText: 2025 Luís Teixeira
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"reflect"
	"testing"
)

func seriesFixture() map[string]BiomarkerSeries {
	return map[string]BiomarkerSeries{
		"glucose": {
			Code:   "glucose",
			Name:   "Glucose",
			Unit:   "mg/dL",
			Dates:  []string{"2024-01-01", "2024-03-01"},
			Values: []float64{10, 12},
			RefMin: []Sample{SampleOf(5), SampleOf(5)},
			RefMax: []Sample{SampleOf(15), SampleOf(15)},
		},
		"ldl": {
			Code:   "ldl",
			Name:   "LDL Cholesterol",
			Unit:   "mg/dL",
			Dates:  []string{"2024-02-01", "2024-03-01"},
			Values: []float64{100, 110},
			RefMin: []Sample{NoSample, NoSample},
			RefMax: []Sample{SampleOf(200), SampleOf(200)},
		},
	}
}

func TestAlignUnifiedDateAxis(t *testing.T) {
	t.Parallel()

	got := Align([]string{"glucose", "ldl"}, seriesFixture())

	wantDates := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	if !reflect.DeepEqual(got.Dates, wantDates) {
		t.Fatalf("unified date axis = %#v, want %#v", got.Dates, wantDates)
	}
}

func TestAlignFillsAbsenceMarkers(t *testing.T) {
	t.Parallel()

	got := Align([]string{"glucose", "ldl"}, seriesFixture())

	if len(got.Series) != 2 {
		t.Fatalf("expected 2 aligned series, got %d", len(got.Series))
	}

	glucose := got.Series[0]
	wantGlucose := []Sample{SampleOf(10), NoSample, SampleOf(12)}
	if !reflect.DeepEqual(glucose.Values, wantGlucose) {
		t.Fatalf("glucose aligned values = %#v, want %#v", glucose.Values, wantGlucose)
	}

	ldl := got.Series[1]
	wantLDL := []Sample{NoSample, SampleOf(100), SampleOf(110)}
	if !reflect.DeepEqual(ldl.Values, wantLDL) {
		t.Fatalf("ldl aligned values = %#v, want %#v", ldl.Values, wantLDL)
	}

	if ldl.RefMin[1].Valid {
		t.Fatalf("ldl refMin should stay absent, got %#v", ldl.RefMin[1])
	}
	if !ldl.RefMax[1].Valid || ldl.RefMax[1].Value != 200 {
		t.Fatalf("ldl refMax not carried through alignment: %#v", ldl.RefMax[1])
	}
}

func TestAlignPreservesSelectionOrder(t *testing.T) {
	t.Parallel()

	got := Align([]string{"ldl", "glucose"}, seriesFixture())

	if got.Series[0].Code != "ldl" || got.Series[1].Code != "glucose" {
		t.Fatalf("aligned series order does not follow selection order: %#v", got.Series)
	}
}

func TestAlignSkipsUnknownCodes(t *testing.T) {
	t.Parallel()

	got := Align([]string{"glucose", "missing", "ldl"}, seriesFixture())

	if len(got.Series) != 2 {
		t.Fatalf("expected unknown code to be skipped, got %d series", len(got.Series))
	}
}

func TestAlignEmptySelection(t *testing.T) {
	t.Parallel()

	got := Align(nil, seriesFixture())

	if len(got.Dates) != 0 || len(got.Series) != 0 {
		t.Fatalf("expected empty alignment, got %#v", got)
	}
}

func TestAlignDeterministic(t *testing.T) {
	t.Parallel()

	a := Align([]string{"glucose", "ldl"}, seriesFixture())
	b := Align([]string{"glucose", "ldl"}, seriesFixture())

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("alignment not deterministic:\n%#v\n%#v", a, b)
	}
}
