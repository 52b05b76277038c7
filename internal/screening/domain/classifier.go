package domain

import (
	"math"

	"github.com/cardiowell/platform/internal/shared/errors"
)

// --- Metric band tables ---
//
// Thresholds follow standard lipid panel reference ranges (mg/dL). The
// interpretation narratives depend on these exact boundaries, so they live
// in data tables rather than scattered conditionals.

// band maps a half-open value range [prev.Limit, Limit) to a status.
// The final band in a table has Limit = +Inf.
type band struct {
	Limit  float64
	Status MetricStatus
}

var (
	ldlBands = []band{
		{100, StatusOptimal},
		{130, StatusBorderline},
		{190, StatusHigh},
		{math.Inf(1), StatusVeryHigh},
	}

	triglycerideBands = []band{
		{150, StatusOptimal},
		{200, StatusBorderline},
		{500, StatusHigh},
		{math.Inf(1), StatusVeryHigh},
	}

	totalCholesterolBands = []band{
		{200, StatusOptimal},
		{240, StatusBorderline},
		{math.Inf(1), StatusHigh},
	}

	glucoseBands = []band{
		{100, StatusOptimal},
		{126, StatusBorderline},
		{math.Inf(1), StatusHigh},
	}
)

// classify a value against a band table
func bandStatus(table []band, value float64) MetricStatus {
	for _, b := range table {
		if value < b.Limit {
			return b.Status
		}
	}
	return table[len(table)-1].Status
}

// hdlStatus is inverse: higher HDL is protective. The "high" band here
// means dangerously low HDL.
func hdlStatus(hdl float64) MetricStatus {
	switch {
	case hdl >= 60:
		return StatusOptimal
	case hdl >= 40:
		return StatusBorderline
	default:
		return StatusHigh
	}
}

// --- Score weighting tables ---

// bandContribution is the additive score per status band before metric scaling
var bandContribution = map[MetricStatus]float64{
	StatusOptimal:    0,
	StatusBorderline: 0.10,
	StatusHigh:       0.25,
	StatusVeryHigh:   0.40,
}

// Metric scale factors. LDL and glucose carry full weight due to their
// stronger atherosclerosis linkage; HDL and triglycerides contribute half.
const (
	scaleLDL          = 1.0
	scaleGlucose      = 1.0
	scaleHDL          = 0.5
	scaleTriglyceride = 0.5
)

// Fixed increments for boolean risk factors
const (
	weightSmoking       = 0.15
	weightFamilyHistory = 0.10
	weightHypertension  = 0.10
	weightDiabetes      = 0.15
	weightChestPain     = 0.30
	weightAge           = 0.05
)

// Age thresholds above which the age increment applies
const (
	ageThresholdMale  = 55
	ageThresholdOther = 65
)

// Risk level score thresholds
var levelThresholds = []struct {
	Min   float64
	Level RiskLevel
}{
	{0.75, RiskUrgent},
	{0.50, RiskHigh},
	{0.25, RiskMedium},
	{0, RiskLow},
}

func levelForScore(score float64) RiskLevel {
	for _, t := range levelThresholds {
		if score >= t.Min {
			return t.Level
		}
	}
	return RiskLow
}

// --- Hard overrides ---
//
// Overrides are an ordered rule list evaluated top-down after scoring.
// Each rule raises the level to at least its floor; they are applied after
// any external signal adjustment and can never be weakened by it.

type overrideRule struct {
	Name  string
	Floor RiskLevel
	Match func(ctx PatientContext, s statuses) bool
}

type statuses struct {
	LDL          MetricStatus
	HDL          MetricStatus
	Triglyceride MetricStatus
	Glucose      MetricStatus
}

func (s statuses) anyAtLeast(min MetricStatus) bool {
	return s.LDL.Rank() >= min.Rank() ||
		s.HDL.Rank() >= min.Rank() ||
		s.Triglyceride.Rank() >= min.Rank() ||
		s.Glucose.Rank() >= min.Rank()
}

var overrideRules = []overrideRule{
	{
		Name:  "chest pain with very high metric or elevated LDL/glucose",
		Floor: RiskUrgent,
		Match: func(ctx PatientContext, s statuses) bool {
			return ctx.ChestPain &&
				(s.anyAtLeast(StatusVeryHigh) ||
					s.LDL.Rank() >= StatusHigh.Rank() ||
					s.Glucose.Rank() >= StatusHigh.Rank())
		},
	},
	{
		Name:  "chest pain with any high-band metric",
		Floor: RiskHigh,
		Match: func(ctx PatientContext, s statuses) bool {
			return ctx.ChestPain && s.anyAtLeast(StatusHigh)
		},
	},
}

// Classify maps a lipid panel and patient context to a risk assessment.
// Deterministic and side-effect free; fails fast on invalid input.
func Classify(panel LipidPanel, ctx PatientContext) (*RiskAssessment, error) {
	return ClassifyWithSignal(panel, ctx, nil)
}

// ClassifyWithSignal classifies with an optional auxiliary probability from
// an external scorer. The signal shifts the numeric score by at most ±0.1
// and never outranks the hard overrides.
func ClassifyWithSignal(panel LipidPanel, ctx PatientContext, externalProbability *float64) (*RiskAssessment, error) {
	if err := ValidatePanel(panel); err != nil {
		return nil, err
	}
	if err := ValidateContext(ctx); err != nil {
		return nil, err
	}
	if externalProbability != nil && (*externalProbability < 0 || *externalProbability > 1) {
		return nil, errors.Validation("external probability out of range", map[string]string{
			"external_probability": "must be within [0,1]",
		})
	}

	s := statuses{
		LDL:          bandStatus(ldlBands, panel.LDL),
		HDL:          hdlStatus(panel.HDL),
		Triglyceride: bandStatus(triglycerideBands, panel.Triglycerides),
		Glucose:      bandStatus(glucoseBands, panel.BloodGlucose),
	}

	score := bandContribution[s.LDL]*scaleLDL +
		bandContribution[s.Glucose]*scaleGlucose +
		bandContribution[s.HDL]*scaleHDL +
		bandContribution[s.Triglyceride]*scaleTriglyceride

	if ctx.Smoking {
		score += weightSmoking
	}
	if ctx.FamilyHistory {
		score += weightFamilyHistory
	}
	if ctx.Hypertension {
		score += weightHypertension
	}
	if ctx.Diabetes {
		score += weightDiabetes
	}
	if ctx.ChestPain {
		score += weightChestPain
	}
	if overAgeThreshold(ctx) {
		score += weightAge
	}

	if externalProbability != nil {
		// Bounded adjustment: ±0.1 at the extremes, zero at p = 0.5
		score += (*externalProbability - 0.5) * 0.2
	}

	score = clamp01(score)
	level := levelForScore(score)

	for _, rule := range overrideRules {
		if rule.Match(ctx, s) {
			level = MaxRiskLevel(level, rule.Floor)
		}
	}

	assessment := &RiskAssessment{
		RiskLevel:           level,
		RiskScore:           score,
		LDLStatus:           s.LDL,
		HDLStatus:           s.HDL,
		TriglycerideStatus:  s.Triglyceride,
		GlucoseStatus:       s.Glucose,
		CriticalFactors:     criticalFactors(panel, ctx, s),
		AtherosclerosisRisk: atherosclerosisNarrative(ctx, s),
		Interpretation:      interpretationNarrative(level, panel, s),
	}

	return assessment, nil
}

func overAgeThreshold(ctx PatientContext) bool {
	if ctx.Gender == GenderMale {
		return ctx.Age > ageThresholdMale
	}
	return ctx.Age > ageThresholdOther
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
