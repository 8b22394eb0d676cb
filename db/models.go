/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"
)

// Gender represents biological sex for medical reference ranges
type Gender string

// Gender values represent supported biological-sex categories.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderUnisex Gender = "Unisex" // For ranges that don't vary by gender
)

// BiomarkerCategory groups biomarkers on the dashboard.
type BiomarkerCategory string

// BiomarkerCategory values represent supported biomarker groups.
const (
	CategoryMetabolic     BiomarkerCategory = "Metabolic"
	CategoryLipidPanel    BiomarkerCategory = "Lipid Panel"
	CategoryBloodCounts   BiomarkerCategory = "Blood Counts"
	CategoryLiverFunction BiomarkerCategory = "Liver Function"
	CategoryVitamins      BiomarkerCategory = "Vitamins & Minerals"
	CategoryEndocrine     BiomarkerCategory = "Endocrine & Other"
)

// Biomarker is one catalog entry, synced from the definitions below.
type Biomarker struct {
	ID          uuid.UUID         `db:"id"`
	Code        string            `db:"code"`
	Name        string            `db:"name"`
	Unit        string            `db:"unit"`
	Description string            `db:"description"`
	Category    BiomarkerCategory `db:"category"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
}

// Exam represents one lab visit's report.
type Exam struct {
	ID        uuid.UUID `db:"id"`
	ExamDate  time.Time `db:"exam_date"`
	LabName   *string   `db:"lab_name"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ExamResult is a single measured value within an exam. Reference
// bounds are snapshotted from the catalog at insert time and the
// abnormal flag computed against them, so later catalog changes never
// rewrite past results.
type ExamResult struct {
	ID          uuid.UUID `db:"id"`
	ExamID      uuid.UUID `db:"exam_id"`
	BiomarkerID uuid.UUID `db:"biomarker_id"`
	Value       float64   `db:"value"`
	RefMin      *float64  `db:"ref_min"`
	RefMax      *float64  `db:"ref_max"`
	IsAbnormal  bool      `db:"is_abnormal"`
	CreatedAt   time.Time `db:"created_at"`
}

// ExamResultDetail joins a result with its biomarker catalog entry.
type ExamResultDetail struct {
	ExamResult
	Code     string            `db:"code"`
	Name     string            `db:"name"`
	Unit     string            `db:"unit"`
	Category BiomarkerCategory `db:"category"`
}

// ExamSummary is an exam with its result counts, for list views.
type ExamSummary struct {
	Exam
	ResultCount   int `db:"result_count"`
	AbnormalCount int `db:"abnormal_count"`
}

// TrendAnalysis is a cached AI-generated narrative for one biomarker's
// history. ResultCount records how many results existed when it was
// generated; a mismatch at read time invalidates the cache.
type TrendAnalysis struct {
	ID            uuid.UUID `db:"id"`
	BiomarkerCode string    `db:"biomarker_code"`
	Content       string    `db:"content"`
	ResultCount   int       `db:"result_count"`
	CreatedAt     time.Time `db:"created_at"`
}

// BiomarkerDefinition is one catalog row, the authoritative source the
// biomarkers table is synced from.
type BiomarkerDefinition struct {
	Code        string
	Name        string
	Unit        string
	Description string
	Category    BiomarkerCategory
}

// ReferenceBoundDefinition is a catalog reference range for one
// biomarker, optionally split by gender. A nil bound means the range
// is open on that side.
type ReferenceBoundDefinition struct {
	Code   string
	Gender Gender
	RefMin *float64
	RefMax *float64
}

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}

// GetBiomarkerDefinitions returns the full biomarker catalog.
func GetBiomarkerDefinitions() []BiomarkerDefinition {
	return []BiomarkerDefinition{
		// Metabolic
		{Code: "glucose", Name: "Glucose fasting FBS", Unit: "mg/dL", Category: CategoryMetabolic,
			Description: "Blood sugar after fasting; the primary screen for diabetes and prediabetes."},
		{Code: "creatinine", Name: "Creatinine", Unit: "mg/dL", Category: CategoryMetabolic,
			Description: "Muscle waste product cleared by the kidneys; elevated levels suggest reduced kidney function."},
		{Code: "uric_acid", Name: "Uric Acid", Unit: "umol/L", Category: CategoryMetabolic,
			Description: "Purine breakdown product; high levels are associated with gout and kidney stones."},
		{Code: "sodium", Name: "Sodium", Unit: "mmol/L", Category: CategoryMetabolic,
			Description: "Main extracellular electrolyte governing fluid balance and nerve function."},
		{Code: "potassium", Name: "Potassium", Unit: "mmol/L", Category: CategoryMetabolic,
			Description: "Electrolyte critical for heart rhythm and muscle contraction."},

		// Lipid Panel
		{Code: "total_cholesterol", Name: "Total Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel,
			Description: "Sum of all cholesterol fractions carried in the blood."},
		{Code: "ldl", Name: "LDL Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel,
			Description: "Low-density lipoprotein; the fraction that deposits in artery walls."},
		{Code: "hdl", Name: "HDL Cholesterol", Unit: "mg/dL", Category: CategoryLipidPanel,
			Description: "High-density lipoprotein; carries cholesterol back to the liver, higher is better."},
		{Code: "triglycerides", Name: "Triglycerides", Unit: "mg/dL", Category: CategoryLipidPanel,
			Description: "Circulating fat used for energy; elevated by excess calories and alcohol."},

		// Blood Counts
		{Code: "wbc", Name: "White blood cells", Unit: "×10³/μL", Category: CategoryBloodCounts,
			Description: "Immune cells; raised in infection and inflammation, low with marrow suppression."},
		{Code: "rbc", Name: "Red blood cells", Unit: "×10⁶/μL", Category: CategoryBloodCounts,
			Description: "Oxygen-carrying cells; low counts indicate anemia."},
		{Code: "hemoglobin", Name: "Hemoglobin", Unit: "g/dL", Category: CategoryBloodCounts,
			Description: "Oxygen-binding protein inside red cells; the key anemia marker."},
		{Code: "hematocrit", Name: "HCT", Unit: "%", Category: CategoryBloodCounts,
			Description: "Share of blood volume occupied by red cells."},
		{Code: "platelets", Name: "Platelets", Unit: "×10³/μL", Category: CategoryBloodCounts,
			Description: "Cell fragments responsible for clotting; low counts raise bleeding risk."},

		// Liver Function
		{Code: "alt", Name: "SGPT (ALT), Serum", Unit: "IU/L", Category: CategoryLiverFunction,
			Description: "Liver enzyme; the most specific routine marker of liver cell injury."},
		{Code: "ast", Name: "SGOT (AST)", Unit: "IU/L", Category: CategoryLiverFunction,
			Description: "Enzyme found in liver and muscle; interpreted alongside ALT."},
		{Code: "ggt", Name: "GGT", Unit: "IU/L", Category: CategoryLiverFunction,
			Description: "Bile duct enzyme; sensitive to alcohol intake and biliary obstruction."},
		{Code: "albumin", Name: "Albumin", Unit: "g/dL", Category: CategoryLiverFunction,
			Description: "Main blood protein made by the liver; low in liver disease and malnutrition."},

		// Vitamins & Minerals
		{Code: "vitamin_d", Name: "Vitamin D", Unit: "nmol/L", Category: CategoryVitamins,
			Description: "Regulates calcium absorption and bone health; commonly deficient."},
		{Code: "vitamin_b12", Name: "Vitamin B12", Unit: "pmol/L", Category: CategoryVitamins,
			Description: "Needed for red cell production and nerve function."},
		{Code: "ferritin", Name: "Ferritin", Unit: "ng/mL", Category: CategoryVitamins,
			Description: "Iron storage protein; the earliest marker of iron deficiency."},
		{Code: "iron", Name: "Iron, Serum", Unit: "umol/L", Category: CategoryVitamins,
			Description: "Circulating iron available for hemoglobin production."},

		// Endocrine & Other
		{Code: "tsh", Name: "TSH", Unit: "uIU/mL", Category: CategoryEndocrine,
			Description: "Pituitary hormone driving the thyroid; high when the thyroid underperforms."},
		{Code: "hba1c", Name: "Haemoglobin HbA1c", Unit: "%", Category: CategoryEndocrine,
			Description: "Glycated hemoglobin; reflects average blood sugar over about three months."},
		{Code: "esr", Name: "ESR", Unit: "mm/h", Category: CategoryEndocrine,
			Description: "Red cell sedimentation rate; a nonspecific marker of inflammation."},
	}
}

// GetReferenceBoundDefinitions returns the catalog reference ranges.
// Gender-specific rows take precedence over unisex rows for the same
// code when resolving bounds at result insert time.
func GetReferenceBoundDefinitions() []ReferenceBoundDefinition {
	return []ReferenceBoundDefinition{
		// Metabolic
		{Code: "glucose", Gender: GenderUnisex, RefMin: ptr(70), RefMax: ptr(100)},
		{Code: "creatinine", Gender: GenderMale, RefMin: ptr(0.74), RefMax: ptr(1.35)},
		{Code: "creatinine", Gender: GenderFemale, RefMin: ptr(0.59), RefMax: ptr(1.04)},
		{Code: "uric_acid", Gender: GenderMale, RefMin: ptr(200), RefMax: ptr(430)},
		{Code: "uric_acid", Gender: GenderFemale, RefMin: ptr(140), RefMax: ptr(360)},
		{Code: "sodium", Gender: GenderUnisex, RefMin: ptr(135), RefMax: ptr(145)},
		{Code: "potassium", Gender: GenderUnisex, RefMin: ptr(3.5), RefMax: ptr(5.1)},

		// Lipid Panel: upper-bound-only ranges, no floor
		{Code: "total_cholesterol", Gender: GenderUnisex, RefMax: ptr(200)},
		{Code: "ldl", Gender: GenderUnisex, RefMax: ptr(130)},
		{Code: "hdl", Gender: GenderMale, RefMin: ptr(40)},
		{Code: "hdl", Gender: GenderFemale, RefMin: ptr(50)},
		{Code: "triglycerides", Gender: GenderUnisex, RefMax: ptr(150)},

		// Blood Counts
		{Code: "wbc", Gender: GenderUnisex, RefMin: ptr(4.5), RefMax: ptr(11.0)},
		{Code: "rbc", Gender: GenderMale, RefMin: ptr(4.5), RefMax: ptr(5.9)},
		{Code: "rbc", Gender: GenderFemale, RefMin: ptr(4.0), RefMax: ptr(5.2)},
		{Code: "hemoglobin", Gender: GenderMale, RefMin: ptr(13.5), RefMax: ptr(17.5)},
		{Code: "hemoglobin", Gender: GenderFemale, RefMin: ptr(12.0), RefMax: ptr(15.5)},
		{Code: "hematocrit", Gender: GenderMale, RefMin: ptr(41), RefMax: ptr(50)},
		{Code: "hematocrit", Gender: GenderFemale, RefMin: ptr(36), RefMax: ptr(44)},
		{Code: "platelets", Gender: GenderUnisex, RefMin: ptr(150), RefMax: ptr(400)},

		// Liver Function
		{Code: "alt", Gender: GenderMale, RefMax: ptr(41)},
		{Code: "alt", Gender: GenderFemale, RefMax: ptr(33)},
		{Code: "ast", Gender: GenderUnisex, RefMax: ptr(40)},
		{Code: "ggt", Gender: GenderMale, RefMax: ptr(60)},
		{Code: "ggt", Gender: GenderFemale, RefMax: ptr(40)},
		{Code: "albumin", Gender: GenderUnisex, RefMin: ptr(3.5), RefMax: ptr(5.0)},

		// Vitamins & Minerals
		{Code: "vitamin_d", Gender: GenderUnisex, RefMin: ptr(75), RefMax: ptr(250)},
		{Code: "vitamin_b12", Gender: GenderUnisex, RefMin: ptr(148), RefMax: ptr(664)},
		{Code: "ferritin", Gender: GenderMale, RefMin: ptr(24), RefMax: ptr(336)},
		{Code: "ferritin", Gender: GenderFemale, RefMin: ptr(11), RefMax: ptr(307)},
		{Code: "iron", Gender: GenderUnisex, RefMin: ptr(10), RefMax: ptr(30)},

		// Endocrine & Other
		{Code: "tsh", Gender: GenderUnisex, RefMin: ptr(0.4), RefMax: ptr(4.0)},
		{Code: "hba1c", Gender: GenderUnisex, RefMax: ptr(5.7)},
		{Code: "esr", Gender: GenderMale, RefMax: ptr(15)},
		{Code: "esr", Gender: GenderFemale, RefMax: ptr(20)},
	}
}

// ResolveReferenceBounds returns the catalog bounds for a biomarker,
// preferring a row matching the given gender and falling back to a
// unisex row. Both bounds are nil when the catalog has no range.
func ResolveReferenceBounds(code string, gender Gender) (*float64, *float64) {
	var unisexMin, unisexMax *float64
	found := false
	for _, def := range GetReferenceBoundDefinitions() {
		if def.Code != code {
			continue
		}
		if def.Gender == gender && gender != GenderUnisex {
			return def.RefMin, def.RefMax
		}
		if def.Gender == GenderUnisex {
			unisexMin, unisexMax = def.RefMin, def.RefMax
			found = true
		}
	}
	if found {
		return unisexMin, unisexMax
	}
	return nil, nil
}

// IsAbnormal reports whether a value falls outside the given bounds.
// An absent bound is open on that side.
func IsAbnormal(value float64, refMin, refMax *float64) bool {
	if refMin != nil && value < *refMin {
		return true
	}
	if refMax != nil && value > *refMax {
		return true
	}
	return false
}
