package adherence

import (
	"context"
	"sync"
	"time"

	scoring "github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/config"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/events"
	"github.com/cardiowell/platform/internal/shared/metrics"
	"github.com/cardiowell/platform/internal/shared/types"
)

// streakLookbackDays bounds how far back streak and badge computation reads
const streakLookbackDays = 90

// RiskSource supplies the last known risk level for escalation decisions
type RiskSource interface {
	LastRiskLevel(ctx context.Context, patientID string) (scoring.RiskLevel, bool, error)
}

// Tracker records daily activity logs and derives adherence scores,
// escalation flags, and badges from them.
type Tracker struct {
	store LogStore
	risk  RiskSource
	bus   events.EventBus
	cfg   config.AdherenceConfig

	now func() time.Time

	mu       sync.Mutex
	patients map[string]*sync.Mutex
}

// NewTracker creates an adherence tracker. bus may be nil; events are then
// skipped.
func NewTracker(store LogStore, risk RiskSource, bus events.EventBus, cfg config.AdherenceConfig) *Tracker {
	return &Tracker{
		store:    store,
		risk:     risk,
		bus:      bus,
		cfg:      cfg,
		now:      time.Now,
		patients: make(map[string]*sync.Mutex),
	}
}

// patientLock serializes recompute-after-write per patient so two concurrent
// submissions cannot interleave between upsert and score computation
func (t *Tracker) patientLock(patientID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.patients[patientID]
	if !ok {
		lock = &sync.Mutex{}
		t.patients[patientID] = lock
	}
	return lock
}

// Record upserts one day's activity log and returns the refreshed score and
// any escalation flag. Submitting the same (patient, date) twice replaces
// the earlier entry; the result is identical to having submitted once.
func (t *Tracker) Record(ctx context.Context, log ActivityLog) (*Score, Flag, error) {
	if err := t.validate(log); err != nil {
		return nil, Flag{Kind: FlagNone}, err
	}
	log.RecordedAt = t.now().UTC()

	lock := t.patientLock(log.PatientID)
	lock.Lock()
	defer lock.Unlock()

	if err := t.store.Upsert(ctx, log); err != nil {
		return nil, Flag{Kind: FlagNone}, errors.Wrap(err, "failed to store activity log")
	}
	metrics.RecordActivityLog()

	score, err := t.Score(ctx, log.PatientID, t.cfg.WindowDays)
	if err != nil {
		return nil, Flag{Kind: FlagNone}, err
	}

	flag, err := t.Evaluate(ctx, log.PatientID)
	if err != nil {
		return nil, Flag{Kind: FlagNone}, err
	}

	t.publish(ctx, log, score, flag)
	return score, flag, nil
}

func (t *Tracker) validate(log ActivityLog) error {
	details := make(map[string]string)

	if log.PatientID == "" {
		details["patient_id"] = "is required"
	}
	if log.Date.IsZero() {
		details["date"] = "is required"
	} else if log.Date.After(types.DateOf(t.now())) {
		details["date"] = "cannot be in the future"
	}
	if log.SleepQuality != nil && (*log.SleepQuality < 1 || *log.SleepQuality > 10) {
		details["sleep_quality"] = "must be between 1 and 10"
	}
	if log.StressLevel != nil && (*log.StressLevel < 1 || *log.StressLevel > 10) {
		details["stress_level"] = "must be between 1 and 10"
	}

	if len(details) > 0 {
		return errors.Validation("invalid activity log", details)
	}
	return nil
}

// Score computes the adherence summary over the trailing windowDays ending
// today. Deterministic for a fixed log history.
func (t *Tracker) Score(ctx context.Context, patientID string, windowDays int) (*Score, error) {
	if windowDays <= 0 {
		windowDays = t.cfg.WindowDays
	}

	today := types.DateOf(t.now())
	lookback := windowDays
	if lookback < streakLookbackDays {
		lookback = streakLookbackDays
	}

	logs, err := t.store.Window(ctx, patientID, today.AddDays(-(lookback - 1)), today)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load activity logs")
	}

	var windowLogs []ActivityLog
	from := today.AddDays(-(windowDays - 1))
	for _, log := range logs {
		if !log.Date.Before(from) {
			windowLogs = append(windowLogs, log)
		}
	}

	diet, exercise, medication, water := categoryScores(windowLogs)
	score := &Score{
		PatientID:     patientID,
		WindowDays:    windowDays,
		LoggedDays:    len(windowLogs),
		Diet:          diet,
		Exercise:      exercise,
		Medication:    medication,
		Water:         water,
		Overall:       (diet + exercise + medication + water) / 4,
		CurrentStreak: currentStreak(logs, today),
	}
	return score, nil
}

// categoryScores returns per-category percentages over logged days.
// No logged days means every category scores zero.
func categoryScores(logs []ActivityLog) (diet, exercise, medication, water float64) {
	if len(logs) == 0 {
		return 0, 0, 0, 0
	}

	var d, e, m, w int
	for _, log := range logs {
		if log.DietFollowed {
			d++
		}
		if log.ExerciseDone {
			e++
		}
		if log.MedicationTaken {
			m++
		}
		if log.WaterIntakeMet {
			w++
		}
	}

	n := float64(len(logs))
	return float64(d) / n * 100, float64(e) / n * 100, float64(m) / n * 100, float64(w) / n * 100
}

// currentStreak counts consecutive fully-complete days ending at today, or
// at the most recent log when today has none yet. logs must be sorted by
// date ascending.
func currentStreak(logs []ActivityLog, today types.Date) int {
	if len(logs) == 0 {
		return 0
	}

	byDate := make(map[types.Date]ActivityLog, len(logs))
	for _, log := range logs {
		byDate[log.Date] = log
	}

	start := today
	if _, ok := byDate[start]; !ok {
		start = logs[len(logs)-1].Date
	}

	streak := 0
	for day := start; ; day = day.AddDays(-1) {
		log, ok := byDate[day]
		if !ok || !log.Complete() {
			break
		}
		streak++
	}
	return streak
}

func (t *Tracker) publish(ctx context.Context, log ActivityLog, score *Score, flag Flag) {
	if t.bus == nil {
		return
	}

	event := events.NewEvent(events.TypeActivityLogged, "adherence", map[string]any{
		"date":           log.Date.String(),
		"overall_score":  score.Overall,
		"current_streak": score.CurrentStreak,
	}).WithPatient(log.PatientID)
	t.bus.Publish(ctx, event)

	if flag.Kind == FlagNone {
		return
	}
	metrics.RecordEscalation(string(flag.Kind))

	event = events.NewEvent(events.TypeEscalationRaised, "adherence", map[string]any{
		"kind":           string(flag.Kind),
		"message":        flag.Message,
		"adherence_rate": flag.AdherenceRate,
	}).WithPatient(log.PatientID)
	t.bus.Publish(ctx, event)
}
