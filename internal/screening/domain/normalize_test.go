package domain

import (
	"math"
	"testing"
)

// TestNormalize tests derived metric computation
func TestNormalize(t *testing.T) {
	panel := LipidPanel{
		TotalCholesterol: 220,
		LDL:              140,
		HDL:              50,
		Triglycerides:    180,
		BloodGlucose:     95,
	}

	derived, err := Normalize(panel)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"vldl", derived.VLDL, 36},
		{"non_hdl", derived.NonHDL, 170},
		{"tc_hdl_ratio", derived.TCHDLRatio, 4.4},
		{"ldl_hdl_ratio", derived.LDLHDLRatio, 2.8},
		{"tg_hdl_ratio", derived.TGHDLRatio, 3.6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: Expected %f, got %f", c.name, c.want, c.got)
		}
	}
}

// TestNormalizeZeroHDL tests the division guard
func TestNormalizeZeroHDL(t *testing.T) {
	panel := LipidPanel{
		TotalCholesterol: 220,
		LDL:              140,
		HDL:              0,
		Triglycerides:    180,
		BloodGlucose:     95,
	}

	if _, err := Normalize(panel); err == nil {
		t.Error("Expected error for zero HDL")
	}
}
