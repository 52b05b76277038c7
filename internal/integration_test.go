package internal

import (
	"context"
	"testing"
	"time"

	"github.com/cardiowell/platform/internal/adherence"
	"github.com/cardiowell/platform/internal/careplan"
	"github.com/cardiowell/platform/internal/notification"
	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/config"
	"github.com/cardiowell/platform/internal/shared/types"
)

type fixedRisk struct {
	level domain.RiskLevel
}

func (f fixedRisk) LastRiskLevel(context.Context, string) (domain.RiskLevel, bool, error) {
	return f.level, true, nil
}

// TestFullScreeningWorkflow tests the complete patient journey: screening,
// care plan, notification schedule, daily adherence, and escalation.
func TestFullScreeningWorkflow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	// 1. Screen a patient with an elevated panel
	panel := domain.LipidPanel{
		TotalCholesterol: 230,
		LDL:              150,
		HDL:              42,
		Triglycerides:    210,
		BloodGlucose:     110,
	}
	pctx := domain.PatientContext{Age: 52, Gender: domain.GenderMale, Smoking: true}

	assessment, err := domain.Classify(panel, pctx)
	if err != nil {
		t.Fatalf("Failed to classify: %v", err)
	}
	if assessment.RiskLevel != domain.RiskHigh {
		t.Fatalf("Expected high risk, got %s (score %f)", assessment.RiskLevel, assessment.RiskScore)
	}

	// 2. Generate the care plan
	management, lifestyle, err := careplan.BuildPlan(assessment, now)
	if err != nil {
		t.Fatalf("Failed to build plan: %v", err)
	}
	if !management.RequiresStatin {
		t.Error("High risk should require statin consideration")
	}
	if len(lifestyle.Meals.Restrictions) == 0 {
		t.Error("High risk should carry dietary restrictions")
	}

	// 3. Materialize the notification schedule
	scheduler := notification.NewScheduler()
	entries := scheduler.Materialize("patient-1", management, lifestyle)
	if len(entries) != len(management.FollowUps)+len(lifestyle.Reminders) {
		t.Errorf("Expected %d notifications, got %d",
			len(management.FollowUps)+len(lifestyle.Reminders), len(entries))
	}

	// 4. Log a week of poor medication adherence
	cfg := config.AdherenceConfig{
		WindowDays:                30,
		LowAdherenceThreshold:     50,
		DecliningTrendDelta:       20,
		MissedMedicationThreshold: 60,
	}
	tracker := adherence.NewTracker(adherence.NewMemoryStore(), fixedRisk{assessment.RiskLevel}, nil, cfg)

	today := types.Today()
	var flag adherence.Flag
	for i := 6; i >= 0; i-- {
		_, flag, err = tracker.Record(ctx, adherence.ActivityLog{
			PatientID:      "patient-1",
			Date:           today.AddDays(-i),
			DietFollowed:   true,
			ExerciseDone:   true,
			WaterIntakeMet: true,
		})
		if err != nil {
			t.Fatalf("Failed to record activity: %v", err)
		}
	}

	// 5. Missed medication for a high-risk patient escalates
	if flag.Kind != adherence.FlagMissedMedication {
		t.Errorf("Expected %s flag, got %s", adherence.FlagMissedMedication, flag.Kind)
	}

	score, err := tracker.Score(ctx, "patient-1", 30)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score.Medication != 0 {
		t.Errorf("Expected medication score 0, got %f", score.Medication)
	}
	if score.Diet != 100 {
		t.Errorf("Expected diet score 100, got %f", score.Diet)
	}
}
