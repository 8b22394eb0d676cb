/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

// ToggleCompareMode enters or leaves comparison selection mode.
// Leaving clears the selection and tears down any open comparison.
func ToggleCompareMode(c flamego.Context, s session.Session, ctrl *dashboard.Controller) {
	sel := selectionFromSession(s)
	entered := sel.ToggleMode()
	if !entered {
		ctrl.DisposeComparison()
	}
	saveSelection(s, sel)

	c.Redirect("/", http.StatusSeeOther)
}

// ToggleCompareSelection flips one biomarker's membership in the
// selection. Outside compare mode this does nothing.
func ToggleCompareSelection(c flamego.Context, s session.Session) {
	code := c.Request().FormValue("code")
	if code != "" {
		sel := selectionFromSession(s)
		sel.Toggle(code)
		saveSelection(s, sel)
	}

	c.Redirect("/", http.StatusSeeOther)
}

// RunComparison builds the comparison chart for the current selection
// and leaves selection mode. With fewer than two selected codes it
// does nothing.
func RunComparison(c flamego.Context, s session.Session, ctrl *dashboard.Controller) {
	sel := selectionFromSession(s)
	if !sel.CanCompare() {
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	if err := ctrl.RenderComparison(sel.Codes()); err != nil {
		logger.Error("Failed to render comparison", "error", err)
		SetErrorFlash(s, "Failed to build comparison chart")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	// A submitted comparison ends selection mode.
	sel.Exit()
	saveSelection(s, sel)

	c.Redirect("/#comparison", http.StatusSeeOther)
}

// CloseComparison tears down the comparison panel.
func CloseComparison(c flamego.Context, ctrl *dashboard.Controller) {
	ctrl.DisposeComparison()
	c.Redirect("/", http.StatusSeeOther)
}
