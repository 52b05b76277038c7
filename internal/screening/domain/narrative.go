package domain

import (
	"fmt"
	"strings"
)

// criticalFactors lists the findings that most need the patient's attention,
// ordered by clinical importance.
func criticalFactors(panel LipidPanel, ctx PatientContext, s statuses) []string {
	factors := make([]string, 0, 6)

	if s.LDL == StatusVeryHigh {
		factors = append(factors, "Dangerously high LDL cholesterol - major atherosclerosis risk")
	} else if s.LDL == StatusHigh {
		factors = append(factors, "High LDL cholesterol - elevated atherosclerosis risk")
	}
	if s.HDL == StatusHigh {
		factors = append(factors, "Low HDL - reduced cardiovascular protection")
	}
	if s.Triglyceride.Rank() >= StatusHigh.Rank() {
		factors = append(factors, "Elevated triglycerides - increased heart disease risk")
	}
	if s.Glucose == StatusHigh {
		factors = append(factors, "Diabetic range glucose - accelerates plaque formation")
	} else if s.Glucose == StatusBorderline {
		factors = append(factors, "Pre-diabetic glucose - early metabolic warning sign")
	}
	if ctx.Smoking {
		factors = append(factors, "Smoking damages blood vessels and accelerates atherosclerosis")
	}
	if ctx.ChestPain {
		factors = append(factors, "Reported chest pain - requires prompt medical evaluation")
	}

	return factors
}

// atherosclerosisNarrative summarizes plaque-formation risk from the factors
// with the strongest evidence linkage. Weights: elevated LDL and smoking
// count double.
func atherosclerosisNarrative(ctx PatientContext, s statuses) string {
	count := 0
	if s.LDL.Rank() >= StatusHigh.Rank() {
		count += 2
	}
	if s.HDL == StatusHigh {
		count++
	}
	if ctx.Smoking {
		count += 2
	}
	if s.Glucose.Rank() >= StatusBorderline.Rank() {
		count++
	}

	switch {
	case count >= 5:
		return "High likelihood of active plaque formation. Multiple major risk factors are compounding; aggressive risk factor modification is needed."
	case count >= 3:
		return "Moderate plaque formation risk. Several contributing factors present; early intervention can still reverse the trend."
	default:
		return "Lower plaque formation risk at present. Maintaining current lipid levels and habits keeps arteries protected."
	}
}

// interpretationNarrative is a short plain-language summary of the overall
// classification and the metrics driving it.
func interpretationNarrative(level RiskLevel, panel LipidPanel, s statuses) string {
	var concerns []string
	if s.LDL.Rank() >= StatusBorderline.Rank() {
		concerns = append(concerns, fmt.Sprintf("LDL at %.0f mg/dL", panel.LDL))
	}
	if s.HDL != StatusOptimal {
		concerns = append(concerns, fmt.Sprintf("HDL at %.0f mg/dL", panel.HDL))
	}
	if s.Triglyceride.Rank() >= StatusBorderline.Rank() {
		concerns = append(concerns, fmt.Sprintf("triglycerides at %.0f mg/dL", panel.Triglycerides))
	}
	if bandStatus(totalCholesterolBands, panel.TotalCholesterol).Rank() >= StatusBorderline.Rank() {
		concerns = append(concerns, fmt.Sprintf("total cholesterol at %.0f mg/dL", panel.TotalCholesterol))
	}
	if s.Glucose.Rank() >= StatusBorderline.Rank() {
		concerns = append(concerns, fmt.Sprintf("blood glucose at %.0f mg/dL", panel.BloodGlucose))
	}

	switch level {
	case RiskUrgent:
		if len(concerns) == 0 {
			return "Urgent cardiovascular risk. Immediate medical consultation is required."
		}
		return fmt.Sprintf("Urgent cardiovascular risk driven by %s. Immediate medical consultation is required.", joinConcerns(concerns))
	case RiskHigh:
		return fmt.Sprintf("High cardiovascular risk with %s. Medical follow-up within the month is strongly advised.", joinConcerns(concerns))
	case RiskMedium:
		if len(concerns) == 0 {
			return "Moderate cardiovascular risk from combined risk factors. Lifestyle changes with regular monitoring are recommended."
		}
		return fmt.Sprintf("Moderate cardiovascular risk with %s. Lifestyle changes with regular monitoring are recommended.", joinConcerns(concerns))
	default:
		return "Low cardiovascular risk. Current lipid profile is within healthy ranges; keep up the protective habits."
	}
}

func joinConcerns(concerns []string) string {
	switch len(concerns) {
	case 0:
		return "combined risk factors"
	case 1:
		return concerns[0]
	default:
		return strings.Join(concerns[:len(concerns)-1], ", ") + " and " + concerns[len(concerns)-1]
	}
}
