/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lmteixeira17/blood-exams/db"
)

// ListExams renders the exam history page.
func ListExams(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	exams, err := db.ListExams(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list exams", "error", err)
		SetErrorFlash(s, "Failed to load exams")
	} else {
		data["Exams"] = exams
	}

	t.HTML(http.StatusOK, "exams")
}

// NewExamForm renders the exam entry form.
func NewExamForm(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	biomarkers, err := db.ListBiomarkers(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list biomarkers", "error", err)
		SetErrorFlash(s, "Failed to load biomarker catalog")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}
	data["Biomarkers"] = biomarkers
	data["Today"] = time.Now().Format("2006-01-02")

	t.HTML(http.StatusOK, "exam_new")
}

// parseExamDate validates the form's date field.
func parseExamDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissingDate
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return date, nil
}

// parseResultValue validates one biomarker value field. Empty means
// the biomarker was not measured.
func parseResultValue(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errInvalidValue
	}
	return value, true, nil
}

// CreateExam creates an exam from the form along with any filled-in
// result values. Result fields are named value_<code>.
func CreateExam(c flamego.Context, s session.Session) {
	ctx := c.Request().Context()

	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Invalid form submission")
		c.Redirect("/exams/new", http.StatusSeeOther)
		return
	}

	date, err := parseExamDate(c.Request().FormValue("exam_date"))
	if err != nil {
		SetErrorFlash(s, "A valid exam date is required")
		c.Redirect("/exams/new", http.StatusSeeOther)
		return
	}

	input := db.CreateExamInput{ExamDate: date}
	if lab := strings.TrimSpace(c.Request().FormValue("lab_name")); lab != "" {
		input.LabName = &lab
	}
	if notes := strings.TrimSpace(c.Request().FormValue("notes")); notes != "" {
		input.Notes = &notes
	}

	examID, err := db.CreateExam(ctx, input)
	if err != nil {
		logger.Error("Failed to create exam", "error", err)
		SetErrorFlash(s, "Failed to create exam")
		c.Redirect("/exams/new", http.StatusSeeOther)
		return
	}

	added := 0
	for field, values := range c.Request().PostForm {
		code, ok := strings.CutPrefix(field, "value_")
		if !ok || len(values) == 0 {
			continue
		}
		value, present, err := parseResultValue(values[0])
		if err != nil {
			SetErrorFlash(s, "Invalid value for "+code)
			c.Redirect("/exam/"+examID, http.StatusSeeOther)
			return
		}
		if !present {
			continue
		}
		if _, err := db.AddExamResult(ctx, examID, code, value); err != nil {
			logger.Error("Failed to add exam result", "exam", examID, "code", code, "error", err)
			SetErrorFlash(s, "Failed to save result for "+code)
			c.Redirect("/exam/"+examID, http.StatusSeeOther)
			return
		}
		added++
	}

	SetSuccessFlash(s, "Exam recorded")
	logger.Info("Exam created", "exam", examID, "results", added)
	c.Redirect("/exam/"+examID, http.StatusSeeOther)
}

// ViewExam renders one exam's results, with the change against the
// previous result of each biomarker.
func ViewExam(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	ctx := c.Request().Context()
	id := c.Param("id")

	exam, err := db.GetExam(ctx, id)
	if err != nil {
		logger.Error("Failed to load exam", "exam", id, "error", err)
		SetErrorFlash(s, "Exam not found")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}
	data["Exam"] = exam

	if biomarkers, err := db.ListBiomarkers(ctx); err == nil {
		data["Biomarkers"] = biomarkers
	}

	results, err := db.GetExamResults(ctx, id)
	if err != nil {
		logger.Error("Failed to load exam results", "exam", id, "error", err)
		SetErrorFlash(s, "Failed to load exam results")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	previous, err := db.GetPreviousResults(ctx, id)
	if err != nil {
		logger.Error("Failed to load previous results", "exam", id, "error", err)
	}
	data["Results"] = resultDeltas(results, previous)

	abnormal := 0
	for _, r := range results {
		if r.IsAbnormal {
			abnormal++
		}
	}
	data["AbnormalCount"] = abnormal

	t.HTML(http.StatusOK, "exam_view")
}

// resultRow is one exam result with its change against the previous
// exam that measured the same biomarker.
type resultRow struct {
	db.ExamResultDetail
	Previous *float64
	Diff     float64
	DiffPct  float64
}

// resultDeltas pairs each result with the previous value for its
// biomarker, when one exists. The percentage is left zero when the
// previous value is zero.
func resultDeltas(results []db.ExamResultDetail, previous map[string]float64) []resultRow {
	rows := make([]resultRow, len(results))
	for i, r := range results {
		rows[i] = resultRow{ExamResultDetail: r}
		prev, ok := previous[r.Code]
		if !ok {
			continue
		}
		p := prev
		rows[i].Previous = &p
		rows[i].Diff = r.Value - prev
		if prev != 0 {
			rows[i].DiffPct = (r.Value - prev) / prev * 100
		}
	}
	return rows
}

// AddResult records a single value on an existing exam.
func AddResult(c flamego.Context, s session.Session) {
	ctx := c.Request().Context()
	id := c.Param("id")

	code := strings.TrimSpace(c.Request().FormValue("biomarker"))
	if code == "" {
		logger.Warn("Result submitted without a biomarker", "exam", id, "error", errMissingBiomarker)
		SetErrorFlash(s, "A biomarker is required")
		c.Redirect("/exam/"+id, http.StatusSeeOther)
		return
	}

	value, present, err := parseResultValue(c.Request().FormValue("value"))
	if err != nil || !present {
		SetErrorFlash(s, "A numeric value is required")
		c.Redirect("/exam/"+id, http.StatusSeeOther)
		return
	}

	if _, err := db.AddExamResult(ctx, id, code, value); err != nil {
		logger.Error("Failed to add exam result", "exam", id, "code", code, "error", err)
		SetErrorFlash(s, "Failed to save result")
	} else {
		SetSuccessFlash(s, "Result saved")
	}

	c.Redirect("/exam/"+id, http.StatusSeeOther)
}

// DeleteResult removes one result from an exam.
func DeleteResult(c flamego.Context, s session.Session) {
	id := c.Param("id")
	resultID := c.Param("rid")

	if err := db.DeleteExamResult(c.Request().Context(), id, resultID); err != nil {
		logger.Error("Failed to delete exam result", "exam", id, "result", resultID, "error", err)
		SetErrorFlash(s, "Failed to delete result")
	} else {
		SetSuccessFlash(s, "Result deleted")
	}

	c.Redirect("/exam/"+id, http.StatusSeeOther)
}

// DeleteExam removes an exam and its results.
func DeleteExam(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := db.DeleteExam(c.Request().Context(), id); err != nil {
		logger.Error("Failed to delete exam", "exam", id, "error", err)
		SetErrorFlash(s, "Failed to delete exam")
	} else {
		SetSuccessFlash(s, "Exam deleted")
	}

	c.Redirect("/exams", http.StatusSeeOther)
}
