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
	"github.com/lmteixeira17/blood-exams/db"
)

// ToggleTheme flips the persisted theme preference and redraws every
// cached chart under the new palette.
func ToggleTheme(c flamego.Context, s session.Session, ctrl *dashboard.Controller) {
	ctx := c.Request().Context()

	next := ctrl.Theme().Toggle()

	if err := db.SetThemeSetting(ctx, next); err != nil {
		logger.Error("Failed to persist theme", "theme", next, "error", err)
		SetErrorFlash(s, "Failed to save theme preference")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	if err := ctrl.SetTheme(next); err != nil {
		logger.Error("Failed to re-render charts for theme", "theme", next, "error", err)
	}

	c.Redirect(localRedirectTarget(c.Request().FormValue("redirect")), http.StatusSeeOther)
}

// localRedirectTarget only accepts same-site paths. A "//host" target
// would be treated as scheme-relative by browsers, so anything not of
// the form "/path" falls back to the dashboard.
func localRedirectTarget(target string) string {
	if len(target) < 1 || target[0] != '/' {
		return "/"
	}
	if len(target) > 1 && target[1] == '/' {
		return "/"
	}
	return target
}

// SetGender stores the gender preference used for reference ranges on
// newly recorded results.
func SetGender(c flamego.Context, s session.Session) {
	gender := db.Gender(c.Request().FormValue("gender"))
	switch gender {
	case db.GenderMale, db.GenderFemale, db.GenderUnisex:
	default:
		gender = db.GenderUnisex
	}

	if err := db.SetGenderSetting(c.Request().Context(), gender); err != nil {
		logger.Error("Failed to persist gender setting", "error", err)
		SetErrorFlash(s, "Failed to save setting")
	} else {
		SetSuccessFlash(s, "Setting saved")
	}

	c.Redirect("/exams/new", http.StatusSeeOther)
}
