/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

// SelectionState is the comparison-mode state.
type SelectionState int

// Selection states.
const (
	SelectionIdle SelectionState = iota
	SelectionComparing
)

// MinCompareSeries is the smallest selection a comparison can be
// triggered with.
const MinCompareSeries = 2

// NormalizeThreshold is the selection size at which the comparison
// chart switches from dual raw-unit axes to one normalized axis.
const NormalizeThreshold = 3

// Selection tracks whether comparison mode is active and which
// biomarker codes are checked, in the order they were checked. Color
// assignment and legend order follow that order.
type Selection struct {
	state SelectionState
	codes []string
}

// NewSelection returns an idle selection with no codes checked.
func NewSelection() *Selection {
	return &Selection{state: SelectionIdle}
}

// RestoreSelection rebuilds a selection from persisted state, keeping
// the stored code order.
func RestoreSelection(comparing bool, codes []string) *Selection {
	s := NewSelection()
	if comparing {
		s.state = SelectionComparing
	}
	s.codes = append(s.codes, codes...)
	return s
}

// State returns the current mode.
func (s *Selection) State() SelectionState {
	return s.state
}

// Comparing reports whether comparison mode is active.
func (s *Selection) Comparing() bool {
	return s.state == SelectionComparing
}

// ToggleMode flips between idle and comparing. Leaving comparison mode
// clears the selection set; entering keeps whatever was already
// checked. Returns the new comparing state.
func (s *Selection) ToggleMode() bool {
	if s.state == SelectionComparing {
		s.Exit()
		return false
	}
	s.state = SelectionComparing
	return true
}

// Exit leaves comparison mode and clears the selection set. Used both
// for the explicit mode toggle and after a comparison is submitted.
func (s *Selection) Exit() {
	s.state = SelectionIdle
	s.codes = nil
}

// Toggle flips membership of a code. A newly checked code is appended,
// so re-checking a code moves it to the end of the order. Toggling is
// ignored while idle: cards navigate normally outside comparison mode.
func (s *Selection) Toggle(code string) {
	if s.state != SelectionComparing {
		return
	}
	for i, c := range s.codes {
		if c == code {
			s.codes = append(s.codes[:i], s.codes[i+1:]...)
			return
		}
	}
	s.codes = append(s.codes, code)
}

// Has reports whether a code is currently checked.
func (s *Selection) Has(code string) bool {
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Count returns the number of checked codes.
func (s *Selection) Count() int {
	return len(s.codes)
}

// Codes returns the checked codes in selection order.
func (s *Selection) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// CanCompare reports whether the compare action is enabled: comparison
// mode active with at least MinCompareSeries codes checked. Invoking a
// comparison below the threshold is a silent no-op.
func (s *Selection) CanCompare() bool {
	return s.state == SelectionComparing && len(s.codes) >= MinCompareSeries
}
