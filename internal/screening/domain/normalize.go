package domain

import (
	"github.com/cardiowell/platform/internal/shared/errors"
)

// Normalize derives the secondary lipid metrics from a panel. An hdl at or
// below zero is a division guard failure and is reported as an invalid
// panel, never coerced to a default ratio.
func Normalize(panel LipidPanel) (DerivedMetrics, error) {
	if panel.HDL <= 0 {
		return DerivedMetrics{}, errors.InvalidPanel(map[string]string{
			"hdl": "must be greater than zero",
		})
	}

	return DerivedMetrics{
		VLDL:        panel.Triglycerides / 5,
		NonHDL:      panel.TotalCholesterol - panel.HDL,
		TCHDLRatio:  panel.TotalCholesterol / panel.HDL,
		LDLHDLRatio: panel.LDL / panel.HDL,
		TGHDLRatio:  panel.Triglycerides / panel.HDL,
	}, nil
}
