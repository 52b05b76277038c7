package adherence

import (
	"context"
	"fmt"

	scoring "github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/types"
)

// Evaluate runs every escalation check and returns the most severe flag.
// All checks run every time so a lower-severity condition is never masked
// by short-circuiting on an earlier one.
func (t *Tracker) Evaluate(ctx context.Context, patientID string) (Flag, error) {
	today := types.DateOf(t.now())

	recent, err := t.store.Window(ctx, patientID, today.AddDays(-6), today)
	if err != nil {
		return Flag{Kind: FlagNone}, errors.Wrap(err, "failed to load recent activity logs")
	}
	preceding, err := t.store.Window(ctx, patientID, today.AddDays(-13), today.AddDays(-7))
	if err != nil {
		return Flag{Kind: FlagNone}, errors.Wrap(err, "failed to load preceding activity logs")
	}

	recentOverall := overallOf(recent)
	precedingOverall := overallOf(preceding)
	_, _, medication, _ := categoryScores(recent)

	best := Flag{Kind: FlagNone}
	raise := func(kind FlagKind, rate float64, message string) {
		if kind.Severity() > best.Kind.Severity() {
			best = Flag{
				Kind:          kind,
				Message:       message,
				AdherenceRate: rate,
				RaisedAt:      t.now().UTC(),
				PatientID:     patientID,
			}
		}
	}

	if len(recent) > 0 && recentOverall < t.cfg.LowAdherenceThreshold {
		raise(FlagLowAdherence, recentOverall, fmt.Sprintf(
			"7-day adherence at %.0f%%, below the %.0f%% threshold",
			recentOverall, t.cfg.LowAdherenceThreshold))
	}

	if len(recent) > 0 && len(preceding) > 0 &&
		precedingOverall-recentOverall > t.cfg.DecliningTrendDelta {
		raise(FlagDecliningTrend, recentOverall, fmt.Sprintf(
			"adherence dropped from %.0f%% to %.0f%% week over week",
			precedingOverall, recentOverall))
	}

	// Medication check applies only to patients whose last screening put
	// them at elevated risk. Without any stored assessment the check is
	// skipped, not failed.
	if medication < t.cfg.MissedMedicationThreshold && t.risk != nil {
		level, found, err := t.risk.LastRiskLevel(ctx, patientID)
		if err != nil {
			return Flag{Kind: FlagNone}, errors.Wrap(err, "failed to load last risk level")
		}
		if found && level.AtLeast(scoring.RiskHigh) {
			raise(FlagMissedMedication, medication, fmt.Sprintf(
				"7-day medication adherence at %.0f%% for a %s-risk patient",
				medication, level))
		}
	}

	return best, nil
}

func overallOf(logs []ActivityLog) float64 {
	diet, exercise, medication, water := categoryScores(logs)
	return (diet + exercise + medication + water) / 4
}
