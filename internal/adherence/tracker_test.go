package adherence

import (
	"context"
	"math"
	"testing"
	"time"

	scoring "github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/config"
	"github.com/cardiowell/platform/internal/shared/types"
)

var trackerNow = time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

type stubRisk struct {
	level scoring.RiskLevel
	found bool
}

func (s stubRisk) LastRiskLevel(context.Context, string) (scoring.RiskLevel, bool, error) {
	return s.level, s.found, nil
}

func testConfig() config.AdherenceConfig {
	return config.AdherenceConfig{
		WindowDays:                30,
		LowAdherenceThreshold:     50,
		DecliningTrendDelta:       20,
		MissedMedicationThreshold: 60,
	}
}

func newTestTracker(risk RiskSource) (*Tracker, *MemoryStore) {
	store := NewMemoryStore()
	tracker := NewTracker(store, risk, nil, testConfig())
	tracker.now = func() time.Time { return trackerNow }
	return tracker, store
}

func intPtr(v int) *int { return &v }

func fullLog(patientID string, date types.Date) ActivityLog {
	return ActivityLog{
		PatientID:       patientID,
		Date:            date,
		DietFollowed:    true,
		ExerciseDone:    true,
		MedicationTaken: true,
		WaterIntakeMet:  true,
		StressLevel:     intPtr(3),
	}
}

// TestRecordIdempotent tests that re-submitting a day replaces the earlier entry
func TestRecordIdempotent(t *testing.T) {
	tracker, _ := newTestTracker(nil)
	today := types.DateOf(trackerNow)

	log := fullLog("p1", today)
	score1, _, err := tracker.Record(context.Background(), log)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Same day again with diet flipped off
	log.DietFollowed = false
	score2, _, err := tracker.Record(context.Background(), log)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if score1.LoggedDays != 1 || score2.LoggedDays != 1 {
		t.Errorf("Expected 1 logged day both times, got %d and %d", score1.LoggedDays, score2.LoggedDays)
	}
	if score2.Diet != 0 {
		t.Errorf("Expected diet score 0 after replacement, got %f", score2.Diet)
	}

	// Re-submitting the identical log again changes nothing
	score3, _, err := tracker.Record(context.Background(), log)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *score3 != *score2 {
		t.Errorf("Expected identical score after re-submission, got %+v vs %+v", score3, score2)
	}
}

// TestScoreCategories tests per-category percentages over logged days only
func TestScoreCategories(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)

	// 7 logged days, diet followed 4 of them
	for i := 0; i < 7; i++ {
		log := ActivityLog{
			PatientID:       "p1",
			Date:            today.AddDays(-i),
			DietFollowed:    i < 4,
			ExerciseDone:    true,
			MedicationTaken: true,
			WaterIntakeMet:  false,
		}
		if err := store.Upsert(context.Background(), log); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	score, err := tracker.Score(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if score.LoggedDays != 7 {
		t.Errorf("Expected 7 logged days, got %d", score.LoggedDays)
	}
	if math.Abs(score.Diet-4.0/7.0*100) > 1e-9 {
		t.Errorf("Expected diet score %.4f, got %.4f", 4.0/7.0*100, score.Diet)
	}
	if score.Exercise != 100 || score.Medication != 100 {
		t.Errorf("Expected exercise and medication at 100, got %f and %f", score.Exercise, score.Medication)
	}
	if score.Water != 0 {
		t.Errorf("Expected water score 0, got %f", score.Water)
	}

	wantOverall := (4.0/7.0*100 + 100 + 100 + 0) / 4
	if math.Abs(score.Overall-wantOverall) > 1e-9 {
		t.Errorf("Expected overall %.4f, got %.4f", wantOverall, score.Overall)
	}
}

// TestScoreNoLogs tests that an empty history scores zero, not an error
func TestScoreNoLogs(t *testing.T) {
	tracker, _ := newTestTracker(nil)

	score, err := tracker.Score(context.Background(), "nobody", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.Overall != 0 || score.LoggedDays != 0 || score.CurrentStreak != 0 {
		t.Errorf("Expected zero score for empty history, got %+v", score)
	}
}

// TestCurrentStreak tests streak counting and breaking
func TestCurrentStreak(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// 5 complete days ending today
	for i := 0; i < 5; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}

	score, err := tracker.Score(ctx, "p1", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.CurrentStreak != 5 {
		t.Errorf("Expected streak 5, got %d", score.CurrentStreak)
	}

	// An incomplete day three days back breaks the streak at 3
	broken := fullLog("p1", today.AddDays(-3))
	broken.WaterIntakeMet = false
	store.Upsert(ctx, broken)

	score, _ = tracker.Score(ctx, "p1", 30)
	if score.CurrentStreak != 3 {
		t.Errorf("Expected streak 3 after break, got %d", score.CurrentStreak)
	}

	// Unmanaged stress also breaks the streak
	stressed := fullLog("p2", today)
	stressed.StressLevel = intPtr(8)
	store.Upsert(ctx, stressed)

	score, _ = tracker.Score(ctx, "p2", 30)
	if score.CurrentStreak != 0 {
		t.Errorf("Expected streak 0 with unmanaged stress, got %d", score.CurrentStreak)
	}
}

// TestStreakFromMostRecentLog tests that an unlogged today anchors on the last log
func TestStreakFromMostRecentLog(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// Complete days ending yesterday, nothing yet today
	for i := 1; i <= 4; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}

	score, err := tracker.Score(ctx, "p1", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.CurrentStreak != 4 {
		t.Errorf("Expected streak 4 anchored on yesterday, got %d", score.CurrentStreak)
	}
}

// TestRecordValidation tests rejection of malformed logs
func TestRecordValidation(t *testing.T) {
	tracker, _ := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	tests := []struct {
		name string
		log  ActivityLog
	}{
		{"missing patient", ActivityLog{Date: today}},
		{"missing date", ActivityLog{PatientID: "p1"}},
		{"future date", ActivityLog{PatientID: "p1", Date: today.AddDays(1)}},
		{"stress out of range", ActivityLog{PatientID: "p1", Date: today, StressLevel: intPtr(11)}},
		{"sleep out of range", ActivityLog{PatientID: "p1", Date: today, SleepQuality: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tracker.Record(ctx, tt.log); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

// TestEvaluateLowAdherence tests the 7-day low adherence flag
func TestEvaluateLowAdherence(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// Only diet followed: overall 25% < 50%
	for i := 0; i < 7; i++ {
		store.Upsert(ctx, ActivityLog{
			PatientID:    "p1",
			Date:         today.AddDays(-i),
			DietFollowed: true,
		})
	}

	flag, err := tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagLowAdherence {
		t.Errorf("Expected flag %s, got %s", FlagLowAdherence, flag.Kind)
	}
	if flag.AdherenceRate != 25 {
		t.Errorf("Expected adherence rate 25, got %.1f", flag.AdherenceRate)
	}
}

// TestEvaluateDecliningTrend tests the week-over-week drop flag
func TestEvaluateDecliningTrend(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// Preceding week fully complete, recent week half done (50% < 100%-20)
	for i := 7; i <= 13; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}
	for i := 0; i < 7; i++ {
		store.Upsert(ctx, ActivityLog{
			PatientID:       "p1",
			Date:            today.AddDays(-i),
			DietFollowed:    true,
			MedicationTaken: true,
		})
	}

	flag, err := tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagDecliningTrend {
		t.Errorf("Expected flag %s, got %s", FlagDecliningTrend, flag.Kind)
	}
	if flag.AdherenceRate != 50 {
		t.Errorf("Expected adherence rate 50, got %.1f", flag.AdherenceRate)
	}
}

// TestEvaluateMissedMedication tests the risk-gated medication flag and precedence
func TestEvaluateMissedMedication(t *testing.T) {
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	seed := func(store *MemoryStore) {
		// Everything done except medication: overall 75%, medication 0%
		for i := 0; i < 7; i++ {
			store.Upsert(ctx, ActivityLog{
				PatientID:      "p1",
				Date:           today.AddDays(-i),
				DietFollowed:   true,
				ExerciseDone:   true,
				WaterIntakeMet: true,
			})
		}
	}

	// High-risk patient: missed_medication wins
	tracker, store := newTestTracker(stubRisk{level: scoring.RiskHigh, found: true})
	seed(store)
	flag, err := tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagMissedMedication {
		t.Errorf("Expected flag %s, got %s", FlagMissedMedication, flag.Kind)
	}
	if flag.AdherenceRate != 0 {
		t.Errorf("Expected medication rate 0, got %.1f", flag.AdherenceRate)
	}

	// Low-risk patient: medication check does not apply
	tracker, store = newTestTracker(stubRisk{level: scoring.RiskLow, found: true})
	seed(store)
	flag, _ = tracker.Evaluate(ctx, "p1")
	if flag.Kind != FlagNone {
		t.Errorf("Expected flag %s, got %s", FlagNone, flag.Kind)
	}

	// No stored assessment: check skipped, not an error
	tracker, store = newTestTracker(stubRisk{found: false})
	seed(store)
	flag, err = tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagNone {
		t.Errorf("Expected flag %s, got %s", FlagNone, flag.Kind)
	}
}

// TestEvaluatePrecedence tests that the most severe flag wins when several apply
func TestEvaluatePrecedence(t *testing.T) {
	tracker, store := newTestTracker(stubRisk{level: scoring.RiskUrgent, found: true})
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// Preceding week complete; recent week nearly empty - low adherence,
	// declining trend, and missed medication all apply
	for i := 7; i <= 13; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}
	for i := 0; i < 7; i++ {
		store.Upsert(ctx, ActivityLog{
			PatientID:    "p1",
			Date:         today.AddDays(-i),
			DietFollowed: i == 0,
		})
	}

	flag, err := tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagMissedMedication {
		t.Errorf("Expected flag %s, got %s", FlagMissedMedication, flag.Kind)
	}
}

// TestEvaluateHealthyPatient tests that a fully adherent patient raises no flag
func TestEvaluateHealthyPatient(t *testing.T) {
	tracker, store := newTestTracker(stubRisk{level: scoring.RiskUrgent, found: true})
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	for i := 0; i <= 13; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}

	flag, err := tracker.Evaluate(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flag.Kind != FlagNone {
		t.Errorf("Expected flag %s, got %s (%s)", FlagNone, flag.Kind, flag.Message)
	}
}

// TestBadges tests streak milestone and perfect week badges
func TestBadges(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// 14 complete days ending today
	for i := 0; i < 14; i++ {
		store.Upsert(ctx, fullLog("p1", today.AddDays(-i)))
	}

	badges, err := tracker.Badges(ctx, "p1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := map[string]bool{
		"streak_3":     true,
		"streak_7":     true,
		"streak_14":    true,
		"perfect_week": true,
	}
	if len(badges) != len(want) {
		t.Fatalf("Expected %d badges, got %d: %+v", len(want), len(badges), badges)
	}
	for _, b := range badges {
		if !want[b.Code] {
			t.Errorf("Unexpected badge %s", b.Code)
		}
	}

	// Recomputation is idempotent
	again, _ := tracker.Badges(ctx, "p1")
	if len(again) != len(badges) {
		t.Errorf("Expected identical badges on recompute, got %d vs %d", len(again), len(badges))
	}

	// No logs means no badges
	none, err := tracker.Badges(ctx, "nobody")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no badges, got %+v", none)
	}
}

// TestOutlook tests dropout banding and intervention recommendations
func TestOutlook(t *testing.T) {
	tracker, store := newTestTracker(nil)
	today := types.DateOf(trackerNow)
	ctx := context.Background()

	// Engaged patient: everything complete, low dropout risk
	for i := 0; i < 10; i++ {
		store.Upsert(ctx, fullLog("engaged", today.AddDays(-i)))
	}
	outlook, err := tracker.Outlook(ctx, "engaged")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outlook.DropoutRisk != DropoutLow {
		t.Errorf("Expected dropout risk %s, got %s", DropoutLow, outlook.DropoutRisk)
	}
	if len(outlook.Recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %+v", outlook.Recommendations)
	}

	// Struggling patient: medication only, weak diet and exercise
	for i := 0; i < 10; i++ {
		store.Upsert(ctx, ActivityLog{
			PatientID:       "struggling",
			Date:            today.AddDays(-i),
			MedicationTaken: true,
		})
	}
	outlook, err = tracker.Outlook(ctx, "struggling")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outlook.DropoutRisk != DropoutVeryHigh {
		t.Errorf("Expected dropout risk %s, got %s", DropoutVeryHigh, outlook.DropoutRisk)
	}

	actions := make(map[string]bool)
	for _, rec := range outlook.Recommendations {
		actions[rec.Action] = true
	}
	for _, want := range []string{
		"Schedule immediate counseling session",
		"Provide simplified meal plans",
		"Suggest easier exercise alternatives",
		"Send motivational message",
	} {
		if !actions[want] {
			t.Errorf("Expected recommendation %q, got %+v", want, outlook.Recommendations)
		}
	}
}
