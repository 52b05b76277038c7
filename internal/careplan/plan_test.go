package careplan

import (
	"testing"
	"time"

	"github.com/cardiowell/platform/internal/screening/domain"
)

var planNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func assessmentAt(level domain.RiskLevel) *domain.RiskAssessment {
	return &domain.RiskAssessment{RiskLevel: level}
}

// TestBuildPlanManagement tests the risk level to strategy state table
func TestBuildPlanManagement(t *testing.T) {
	tests := []struct {
		level        domain.RiskLevel
		strategy     Strategy
		statin       bool
		consultation bool
		followUps    []string
	}{
		{domain.RiskLow, StrategyLifestyleOnly, false, false, []string{"2027-03-15"}},
		{domain.RiskMedium, StrategyLifestylePlusMonitoring, false, false, []string{"2026-06-15"}},
		{domain.RiskHigh, StrategyStatinConsider, true, false, []string{"2026-04-15", "2026-06-15"}},
		{domain.RiskUrgent, StrategyUrgentIntervention, true, true, []string{"2026-03-22", "2026-04-15"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			management, _, err := BuildPlan(assessmentAt(tt.level), planNow)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if management.Strategy != tt.strategy {
				t.Errorf("Expected strategy %s, got %s", tt.strategy, management.Strategy)
			}
			if management.RequiresStatin != tt.statin {
				t.Errorf("Expected requires_statin=%v, got %v", tt.statin, management.RequiresStatin)
			}
			if management.RequiresImmediateConsultation != tt.consultation {
				t.Errorf("Expected consultation=%v, got %v", tt.consultation, management.RequiresImmediateConsultation)
			}

			if len(management.FollowUps) != len(tt.followUps) {
				t.Fatalf("Expected %d follow-ups, got %d", len(tt.followUps), len(management.FollowUps))
			}
			for i, want := range tt.followUps {
				if got := management.FollowUps[i].Date.String(); got != want {
					t.Errorf("follow-up %d: Expected date %s, got %s", i, want, got)
				}
			}
		})
	}
}

// TestBuildPlanGuidance tests the per-level message, actions, and note slot
func TestBuildPlanGuidance(t *testing.T) {
	tests := []struct {
		level        domain.RiskLevel
		actionCount  int
		consultation string
		appointment  string
		monitoring   string
	}{
		{domain.RiskLow, 4, "", "", "Annual checkup"},
		{domain.RiskMedium, 4, "", "", "Physician review within 1 month"},
		{domain.RiskHigh, 4, "", "Schedule appointment within 2 weeks", ""},
		{domain.RiskUrgent, 3, "Physician visit within 24-48 hours", "", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			management, _, err := BuildPlan(assessmentAt(tt.level), planNow)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if management.Message == "" {
				t.Error("Expected a management message")
			}
			if len(management.RecommendedActions) != tt.actionCount {
				t.Errorf("Expected %d recommended actions, got %d",
					tt.actionCount, len(management.RecommendedActions))
			}
			for i, action := range management.RecommendedActions {
				if action == "" {
					t.Errorf("Recommended action %d is empty", i)
				}
			}

			if management.ConsultationNote != tt.consultation {
				t.Errorf("Expected consultation note %q, got %q", tt.consultation, management.ConsultationNote)
			}
			if management.AppointmentNote != tt.appointment {
				t.Errorf("Expected appointment note %q, got %q", tt.appointment, management.AppointmentNote)
			}
			if management.MonitoringNote != tt.monitoring {
				t.Errorf("Expected monitoring note %q, got %q", tt.monitoring, management.MonitoringNote)
			}
		})
	}
}

// TestBuildPlanCompleteness tests that every level yields a fully populated lifestyle plan
func TestBuildPlanCompleteness(t *testing.T) {
	for _, level := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskUrgent} {
		t.Run(string(level), func(t *testing.T) {
			_, lifestyle, err := BuildPlan(assessmentAt(level), planNow)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if len(lifestyle.Meals.Breakfast) == 0 || len(lifestyle.Meals.Lunch) == 0 || len(lifestyle.Meals.Dinner) == 0 {
				t.Error("Expected meals for every part of the day")
			}
			if len(lifestyle.Meals.Snacks) == 0 {
				t.Error("Expected snack suggestions")
			}
			if len(lifestyle.Meals.Supplements) == 0 {
				t.Error("Expected supplement guidance")
			}
			if lifestyle.Exercise.Type == "" || len(lifestyle.Exercise.Activities) == 0 {
				t.Error("Expected a populated exercise plan")
			}
			if len(lifestyle.Reminders) == 0 {
				t.Error("Expected daily reminders")
			}
			if len(lifestyle.Education.DailyFacts) != 7 {
				t.Errorf("Expected 7 daily facts, got %d", len(lifestyle.Education.DailyFacts))
			}
			if len(lifestyle.Education.WarningSigns) == 0 || lifestyle.Education.EmergencyNote == "" {
				t.Error("Expected warning signs and emergency note")
			}

			for i := 1; i < len(lifestyle.Reminders); i++ {
				if lifestyle.Reminders[i-1].Time > lifestyle.Reminders[i].Time {
					t.Errorf("Reminders out of order: %s after %s",
						lifestyle.Reminders[i].Time, lifestyle.Reminders[i-1].Time)
				}
			}
		})
	}
}

// TestBuildPlanRestrictions tests that dietary restrictions apply only at elevated risk
func TestBuildPlanRestrictions(t *testing.T) {
	_, low, err := BuildPlan(assessmentAt(domain.RiskLow), planNow)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(low.Meals.Restrictions) != 0 {
		t.Errorf("Expected no restrictions at low risk, got %v", low.Meals.Restrictions)
	}

	_, high, err := BuildPlan(assessmentAt(domain.RiskHigh), planNow)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(high.Meals.Restrictions) == 0 {
		t.Error("Expected restrictions at high risk")
	}
	if len(high.Meals.Supplements) != len(elevatedSupplements) {
		t.Error("Expected elevated supplement list at high risk")
	}
}

// TestBuildPlanExerciseWarning tests that the warning appears only at high and urgent
func TestBuildPlanExerciseWarning(t *testing.T) {
	for _, tt := range []struct {
		level domain.RiskLevel
		want  bool
	}{
		{domain.RiskLow, false},
		{domain.RiskMedium, false},
		{domain.RiskHigh, true},
		{domain.RiskUrgent, true},
	} {
		_, lifestyle, err := BuildPlan(assessmentAt(tt.level), planNow)
		if err != nil {
			t.Fatalf("%s: Expected no error, got %v", tt.level, err)
		}
		if got := lifestyle.Exercise.Warning != ""; got != tt.want {
			t.Errorf("%s: Expected warning=%v, got %q", tt.level, tt.want, lifestyle.Exercise.Warning)
		}
	}
}

// TestBuildPlanMedicationReminders tests medication reminder presence and priority
func TestBuildPlanMedicationReminders(t *testing.T) {
	countMeds := func(reminders []Reminder) (int, ReminderPriority) {
		n := 0
		var p ReminderPriority
		for _, r := range reminders {
			if r.Time == "07:00" || r.Time == "20:00" {
				n++
				p = r.Priority
			}
		}
		return n, p
	}

	_, low, _ := BuildPlan(assessmentAt(domain.RiskLow), planNow)
	if n, _ := countMeds(low.Reminders); n != 0 {
		t.Errorf("Expected no medication reminders at low risk, got %d", n)
	}

	_, medium, _ := BuildPlan(assessmentAt(domain.RiskMedium), planNow)
	if n, p := countMeds(medium.Reminders); n != 1 || p != PriorityHigh {
		t.Errorf("Expected one high-priority medication reminder at medium risk, got %d at %s", n, p)
	}

	_, urgent, _ := BuildPlan(assessmentAt(domain.RiskUrgent), planNow)
	if n, p := countMeds(urgent.Reminders); n != 2 || p != PriorityCritical {
		t.Errorf("Expected two critical medication reminders at urgent risk, got %d at %s", n, p)
	}
}

// TestBuildPlanInvalid tests rejection of nil and malformed assessments
func TestBuildPlanInvalid(t *testing.T) {
	if _, _, err := BuildPlan(nil, planNow); err == nil {
		t.Error("Expected error for nil assessment")
	}
	if _, _, err := BuildPlan(assessmentAt("extreme"), planNow); err == nil {
		t.Error("Expected error for unrecognized risk level")
	}
}
