package adherence

import (
	"time"

	"github.com/cardiowell/platform/internal/shared/types"
)

// ActivityLog is one patient-day of self-reported adherence. The log for a
// (patient, date) pair is upserted: re-submission replaces the earlier entry.
type ActivityLog struct {
	PatientID string     `json:"patient_id"`
	Date      types.Date `json:"date"`

	DietFollowed    bool `json:"diet_followed"`
	ExerciseDone    bool `json:"exercise_done"`
	MedicationTaken bool `json:"medication_taken"`
	WaterIntakeMet  bool `json:"water_intake_met"`

	// Optional wellbeing signals, 1-10 scales
	SleepQuality *int `json:"sleep_quality,omitempty"`
	StressLevel  *int `json:"stress_level,omitempty"`

	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StressManaged reports whether the day's stress was kept in the managed
// band. An unreported stress level counts as unmanaged.
func (l ActivityLog) StressManaged() bool {
	return l.StressLevel != nil && *l.StressLevel >= 1 && *l.StressLevel <= 5
}

// Complete reports whether all five tracked tasks were done that day
func (l ActivityLog) Complete() bool {
	return l.DietFollowed && l.ExerciseDone && l.MedicationTaken &&
		l.WaterIntakeMet && l.StressManaged()
}

// Score is the adherence summary over a trailing window. Category scores
// are percentages over logged days only; unlogged days do not dilute them.
type Score struct {
	PatientID  string `json:"patient_id"`
	WindowDays int    `json:"window_days"`
	LoggedDays int    `json:"logged_days"`

	Diet       float64 `json:"diet"`
	Exercise   float64 `json:"exercise"`
	Medication float64 `json:"medication"`
	Water      float64 `json:"water"`
	Overall    float64 `json:"overall"`

	CurrentStreak int `json:"current_streak"`
}

// FlagKind identifies the escalation condition, ordered by severity
type FlagKind string

const (
	FlagNone             FlagKind = "none"
	FlagLowAdherence     FlagKind = "low_adherence"
	FlagDecliningTrend   FlagKind = "declining_trend"
	FlagMissedMedication FlagKind = "missed_medication"
)

// Severity returns the escalation ordering (higher is more severe)
func (k FlagKind) Severity() int {
	switch k {
	case FlagMissedMedication:
		return 3
	case FlagDecliningTrend:
		return 2
	case FlagLowAdherence:
		return 1
	}
	return 0
}

// Flag is the escalation outcome of an adherence evaluation. AdherenceRate
// is the rate that tripped the check: the 7-day overall for low_adherence
// and declining_trend, the 7-day medication rate for missed_medication.
type Flag struct {
	Kind          FlagKind  `json:"kind"`
	Message       string    `json:"message,omitempty"`
	AdherenceRate float64   `json:"adherence_rate"`
	RaisedAt      time.Time `json:"raised_at,omitempty"`
	PatientID     string    `json:"patient_id,omitempty"`
}

// Badge is an achievement derived from the log history. Badges are
// recomputed from scratch on each request, never stored.
type Badge struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
