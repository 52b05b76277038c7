package domain

import (
	"time"

	"github.com/cardiowell/platform/internal/shared/types"
)

// Gender of the patient, used for age-related risk weighting
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// RiskLevel is the graded clinical risk category
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	RiskUrgent RiskLevel = "urgent"
)

// Rank returns the ordinal position of the risk level (LOW < MEDIUM < HIGH < URGENT)
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskUrgent:
		return 3
	}
	return -1
}

// AtLeast reports whether r is at or above the given level
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Rank() >= other.Rank()
}

// MaxRiskLevel returns the higher of two risk levels
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// MetricStatus is the clinical band a single metric falls into
type MetricStatus string

const (
	StatusOptimal    MetricStatus = "optimal"
	StatusBorderline MetricStatus = "borderline"
	StatusHigh       MetricStatus = "high"
	StatusVeryHigh   MetricStatus = "very_high"
)

// Rank returns the ordinal position of the status band
func (s MetricStatus) Rank() int {
	switch s {
	case StatusOptimal:
		return 0
	case StatusBorderline:
		return 1
	case StatusHigh:
		return 2
	case StatusVeryHigh:
		return 3
	}
	return -1
}

// LipidPanel holds the raw lab values, all in mg/dL. Immutable once recorded.
type LipidPanel struct {
	TotalCholesterol float64 `json:"total_cholesterol"`
	LDL              float64 `json:"ldl"`
	HDL              float64 `json:"hdl"`
	Triglycerides    float64 `json:"triglycerides"`
	BloodGlucose     float64 `json:"blood_glucose"`
}

// PatientContext holds demographic and behavioral risk factors
type PatientContext struct {
	Age           int      `json:"age"`
	Gender        Gender   `json:"gender"`
	BMI           *float64 `json:"bmi,omitempty"`
	Smoking       bool     `json:"smoking"`
	FamilyHistory bool     `json:"family_history"`
	Hypertension  bool     `json:"hypertension"`
	Diabetes      bool     `json:"diabetes"`
	ChestPain     bool     `json:"chest_pain"`
}

// DerivedMetrics are the secondary lipid ratios computed from a panel
type DerivedMetrics struct {
	VLDL        float64 `json:"vldl"`
	NonHDL      float64 `json:"non_hdl"`
	TCHDLRatio  float64 `json:"tc_hdl_ratio"`
	LDLHDLRatio float64 `json:"ldl_hdl_ratio"`
	TGHDLRatio  float64 `json:"tg_hdl_ratio"`
}

// RiskAssessment is the classifier output. Created fresh on every analysis
// request and never mutated afterwards.
type RiskAssessment struct {
	RiskLevel RiskLevel `json:"risk_level"`
	RiskScore float64   `json:"risk_score"`

	LDLStatus          MetricStatus `json:"ldl_status"`
	HDLStatus          MetricStatus `json:"hdl_status"`
	TriglycerideStatus MetricStatus `json:"triglyceride_status"`
	GlucoseStatus      MetricStatus `json:"glucose_status"`

	CriticalFactors     []string `json:"critical_factors"`
	AtherosclerosisRisk string   `json:"atherosclerosis_risk"`
	Interpretation      string   `json:"interpretation"`
}

// Record is a persisted assessment, keyed (patient_id, created_at) for
// history and trend views.
type Record struct {
	ID        types.ID  `json:"id"`
	PatientID string    `json:"patient_id"`
	CreatedAt time.Time `json:"created_at"`

	Assessment RiskAssessment `json:"assessment"`
	Panel      LipidPanel     `json:"panel"`
	Derived    DerivedMetrics `json:"derived_metrics"`

	// Management summary, denormalized for history views
	Strategy                      string `json:"strategy"`
	RequiresStatin                bool   `json:"requires_statin"`
	RequiresImmediateConsultation bool   `json:"requires_immediate_consultation"`
}
