package careplan

import (
	"sort"
	"time"

	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/types"
)

// BuildPlan maps a risk assessment to its management and lifestyle plans.
// All plan content is table-driven so every risk level yields exactly one
// complete plan; now anchors the follow-up schedule.
func BuildPlan(assessment *domain.RiskAssessment, now time.Time) (*ManagementPlan, *LifestylePlan, error) {
	if assessment == nil {
		return nil, nil, errors.BadRequest("assessment is required")
	}
	if assessment.RiskLevel.Rank() < 0 {
		return nil, nil, errors.Validation("unrecognized risk level", map[string]string{
			"risk_level": string(assessment.RiskLevel),
		})
	}

	management := buildManagement(assessment.RiskLevel, now)
	lifestyle := &LifestylePlan{
		Meals:     buildMeals(assessment.RiskLevel),
		Exercise:  buildExercise(assessment.RiskLevel),
		Reminders: buildReminders(assessment.RiskLevel),
		Education: Education{
			DailyFacts:    dailyFacts,
			WarningSigns:  warningSigns,
			EmergencyNote: emergencyNote,
		},
	}

	return management, lifestyle, nil
}

func buildManagement(level domain.RiskLevel, now time.Time) *ManagementPlan {
	at := func(years, months, days int, kind string) FollowUp {
		return FollowUp{
			Date: types.DateOf(now.AddDate(years, months, days)),
			Type: kind,
		}
	}

	switch level {
	case domain.RiskUrgent:
		return &ManagementPlan{
			Strategy:                      StrategyUrgentIntervention,
			RequiresStatin:                true,
			RequiresImmediateConsultation: true,
			Message:                       "Immediate medical intervention required along with intensive lifestyle modification.",
			RecommendedActions: []string{
				"Contact your physician within 24 hours",
				"Statin therapy likely needed immediately",
				"Intensive lifestyle modification essential",
			},
			ConsultationNote: "Physician visit within 24-48 hours",
			FollowUps: []FollowUp{
				at(0, 0, 7, "Medication review"),
				at(0, 1, 0, "Comprehensive assessment"),
			},
		}
	case domain.RiskHigh:
		return &ManagementPlan{
			Strategy:       StrategyStatinConsider,
			RequiresStatin: true,
			Message:        "Medical management recommended. Statin therapy likely needed along with lifestyle changes.",
			RecommendedActions: []string{
				"Schedule physician appointment within 2 weeks",
				"Medical therapy (likely statins) recommended",
				"Aggressive lifestyle modification needed",
				"Regular monitoring essential",
			},
			AppointmentNote: "Schedule appointment within 2 weeks",
			FollowUps: []FollowUp{
				at(0, 1, 0, "Repeat lipid panel"),
				at(0, 3, 0, "Full cardiovascular assessment"),
			},
		}
	case domain.RiskMedium:
		return &ManagementPlan{
			Strategy: StrategyLifestylePlusMonitoring,
			Message:  "Lifestyle modification is primary approach. Medical review in 3 months.",
			RecommendedActions: []string{
				"Intensive lifestyle modification (diet, exercise)",
				"Medical review in 3 months",
				"Re-test lipids to assess response",
				"Medication may be needed if no improvement",
			},
			MonitoringNote: "Physician review within 1 month",
			FollowUps: []FollowUp{
				at(0, 3, 0, "Lipid re-check"),
			},
		}
	default:
		return &ManagementPlan{
			Strategy: StrategyLifestyleOnly,
			Message:  "Maintain healthy lifestyle. Routine monitoring recommended.",
			RecommendedActions: []string{
				"Balanced Mediterranean-style diet",
				"Regular physical activity",
				"Maintain healthy weight",
				"Avoid smoking",
			},
			MonitoringNote: "Annual checkup",
			FollowUps: []FollowUp{
				at(1, 0, 0, "Routine lipid screening"),
			},
		}
	}
}

func buildMeals(level domain.RiskLevel) MealPlan {
	plan := MealPlan{
		Breakfast:   baseBreakfast,
		Lunch:       baseLunch,
		Dinner:      baseDinner,
		Snacks:      baseSnacks,
		Hydration:   hydrationNote,
		Supplements: routineSupplements,
		Focus:       mealFocus,
	}

	if level.AtLeast(domain.RiskHigh) {
		plan.Restrictions = elevatedRestrictions
		plan.Supplements = elevatedSupplements
	}

	return plan
}

func buildExercise(level domain.RiskLevel) ExercisePlan {
	var plan ExercisePlan

	switch level {
	case domain.RiskUrgent:
		plan = ExercisePlan{
			Type:      "Light activity only - medical clearance required",
			Duration:  "10-15 minutes",
			Frequency: "Daily gentle walking",
			Warning:   "Get physician approval before starting any exercise",
			Activities: []string{
				"Slow walking on level surfaces",
				"Gentle stretching",
				"Light household activities",
			},
		}
	case domain.RiskHigh:
		plan = ExercisePlan{
			Type:      "Moderate aerobic exercise",
			Duration:  "30 minutes",
			Frequency: "5 days/week",
			Intensity: "Moderate (can talk but not sing)",
			Warning:   "Stop and seek care if chest pain, dizziness, or breathlessness occurs",
			Activities: []string{
				"Brisk walking",
				"Swimming",
				"Cycling",
				"Strength training twice a week",
			},
			Benefits: "Raises HDL, lowers triglycerides, improves insulin sensitivity",
		}
	default:
		plan = ExercisePlan{
			Type:      "Regular aerobic plus strength training",
			Duration:  "40-60 minutes",
			Frequency: "5-7 days/week",
			Intensity: "Moderate to vigorous",
			Activities: []string{
				"Running or jogging",
				"Interval workouts",
				"Weight training",
				"Sports activities",
			},
			Benefits: "Comprehensive cardiovascular protection",
		}
	}

	plan.Note = exerciseNote
	return plan
}

func buildReminders(level domain.RiskLevel) []Reminder {
	reminders := []Reminder{
		{Time: "08:00", Message: "Heart-healthy breakfast time", Priority: PriorityMedium},
		{Time: "10:00", Message: "Hydration check - drink water", Priority: PriorityLow},
		{Time: "12:30", Message: "Healthy lunch reminder", Priority: PriorityMedium},
		{Time: "16:00", Message: "Movement break - 10 minute walk", Priority: PriorityMedium},
		{Time: "18:30", Message: "Dinner time - Mediterranean style", Priority: PriorityMedium},
		{Time: "21:00", Message: "Wind down - prepare for quality sleep", Priority: PriorityLow},
	}

	// Medication reminders are omitted entirely at low risk; at urgent risk
	// the morning dose is flagged critical.
	if level.AtLeast(domain.RiskMedium) {
		medPriority := PriorityHigh
		if level == domain.RiskUrgent {
			medPriority = PriorityCritical
		}
		reminders = append(reminders, Reminder{
			Time: "07:00", Message: "Take morning medications if prescribed", Priority: medPriority,
		})

		if level.AtLeast(domain.RiskHigh) {
			reminders = append(reminders,
				Reminder{Time: "09:00", Message: "Log your symptoms and how you feel", Priority: PriorityHigh},
				Reminder{Time: "20:00", Message: "Evening medication reminder", Priority: medPriority},
				Reminder{Time: "22:00", Message: "Review today's adherence", Priority: PriorityMedium},
			)
		}
	}

	sort.Slice(reminders, func(i, j int) bool { return reminders[i].Time < reminders[j].Time })
	return reminders
}
