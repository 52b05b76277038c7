package domain

import (
	"fmt"

	"github.com/cardiowell/platform/internal/shared/errors"
)

// ValidatePanel rejects panels with missing or non-positive lipid fields.
// Classification never proceeds on an invalid panel.
func ValidatePanel(panel LipidPanel) error {
	details := make(map[string]string)

	check := func(field string, value float64) {
		if value <= 0 {
			details[field] = fmt.Sprintf("must be a positive value in mg/dL, got %g", value)
		}
	}

	check("total_cholesterol", panel.TotalCholesterol)
	check("ldl", panel.LDL)
	check("hdl", panel.HDL)
	check("triglycerides", panel.Triglycerides)
	check("blood_glucose", panel.BloodGlucose)

	if len(details) > 0 {
		return errors.InvalidPanel(details)
	}
	return nil
}

// ValidateContext rejects contexts with an implausible age or an
// unrecognized gender value.
func ValidateContext(ctx PatientContext) error {
	details := make(map[string]string)

	if ctx.Age < 0 || ctx.Age > 130 {
		details["age"] = fmt.Sprintf("must be between 0 and 130, got %d", ctx.Age)
	}

	switch ctx.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		details["gender"] = fmt.Sprintf("unrecognized value %q", ctx.Gender)
	}

	if len(details) > 0 {
		return errors.InvalidContext(details)
	}
	return nil
}
