package careplan

import (
	"github.com/cardiowell/platform/internal/shared/types"
)

// Strategy is the medical management track assigned from the risk level
type Strategy string

const (
	StrategyLifestyleOnly           Strategy = "lifestyle_only"
	StrategyLifestylePlusMonitoring Strategy = "lifestyle_plus_monitoring"
	StrategyStatinConsider          Strategy = "statin_consider"
	StrategyUrgentIntervention      Strategy = "urgent_intervention"
)

// FollowUp is a scheduled clinical appointment
type FollowUp struct {
	Date types.Date `json:"date"`
	Type string     `json:"type"`
}

// ManagementPlan is the clinical side of the care plan. Exactly one of the
// three note fields is set per risk level: the consultation note at urgent,
// the appointment note at high, the monitoring note at medium and low.
type ManagementPlan struct {
	Strategy                      Strategy   `json:"strategy"`
	RequiresStatin                bool       `json:"requires_statin"`
	RequiresImmediateConsultation bool       `json:"requires_immediate_consultation"`
	Message                       string     `json:"message"`
	RecommendedActions            []string   `json:"recommended_actions"`
	ConsultationNote              string     `json:"consultation_note,omitempty"`
	AppointmentNote               string     `json:"appointment_note,omitempty"`
	MonitoringNote                string     `json:"monitoring_note,omitempty"`
	FollowUps                     []FollowUp `json:"follow_ups"`
}

// Meal is a single recommended dish
type Meal struct {
	Name      string `json:"name"`
	Benefits  string `json:"benefits"`
	Nutrients string `json:"nutrients"`
}

// MealPlan groups the dietary guidance for one risk level
type MealPlan struct {
	Breakfast    []Meal   `json:"breakfast"`
	Lunch        []Meal   `json:"lunch"`
	Dinner       []Meal   `json:"dinner"`
	Snacks       []string `json:"snacks"`
	Restrictions []string `json:"restrictions,omitempty"`
	Hydration    string   `json:"hydration"`
	Supplements  []string `json:"supplements"`
	Focus        string   `json:"focus"`
}

// ExercisePlan is the activity prescription
type ExercisePlan struct {
	Type       string   `json:"type"`
	Duration   string   `json:"duration"`
	Frequency  string   `json:"frequency"`
	Intensity  string   `json:"intensity,omitempty"`
	Warning    string   `json:"warning,omitempty"`
	Activities []string `json:"activities"`
	Benefits   string   `json:"benefits,omitempty"`
	Note       string   `json:"note"`
}

// ReminderPriority ranks how important a daily reminder is
type ReminderPriority string

const (
	PriorityLow      ReminderPriority = "low"
	PriorityMedium   ReminderPriority = "medium"
	PriorityHigh     ReminderPriority = "high"
	PriorityCritical ReminderPriority = "critical"
)

// Reminder is a scheduled daily prompt, Time in HH:MM
type Reminder struct {
	Time     string           `json:"time"`
	Message  string           `json:"message"`
	Priority ReminderPriority `json:"priority"`
}

// Education holds the patient-facing learning material
type Education struct {
	DailyFacts    []string `json:"daily_facts"`
	WarningSigns  []string `json:"warning_signs"`
	EmergencyNote string   `json:"emergency_note"`
}

// LifestylePlan is the daily-living side of the care plan
type LifestylePlan struct {
	Meals     MealPlan     `json:"meal_plan"`
	Exercise  ExercisePlan `json:"exercise_plan"`
	Reminders []Reminder   `json:"daily_reminders"`
	Education Education    `json:"educational_content"`
}
