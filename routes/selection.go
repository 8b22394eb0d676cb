/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/gob"

	"github.com/flamego/session"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

// Session keys for the comparison selection.
const (
	sessionKeyCompareMode  = "compare_mode"
	sessionKeyCompareCodes = "compare_codes"
)

func init() {
	// Selected codes are stored as a slice in the gob-encoded session.
	gob.Register([]string{})
}

// selectionFromSession restores the comparison selection state machine
// from the session. A fresh session yields an idle, empty selection.
func selectionFromSession(s session.Session) *dashboard.Selection {
	comparing, _ := s.Get(sessionKeyCompareMode).(bool)
	codes, _ := s.Get(sessionKeyCompareCodes).([]string)
	return dashboard.RestoreSelection(comparing, codes)
}

// saveSelection persists the selection state machine back to the
// session.
func saveSelection(s session.Session, sel *dashboard.Selection) {
	s.Set(sessionKeyCompareMode, sel.Comparing())
	s.Set(sessionKeyCompareCodes, sel.Codes())
}
