package adherence

import (
	"context"
)

// DropoutRisk bands the likelihood that a patient stops engaging with
// their care plan
type DropoutRisk string

const (
	DropoutLow      DropoutRisk = "low"
	DropoutMedium   DropoutRisk = "medium"
	DropoutHigh     DropoutRisk = "high"
	DropoutVeryHigh DropoutRisk = "very_high"
)

// Recommendation is a suggested intervention for care staff
type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Outlook is the dropout-risk view over a patient's recent engagement
type Outlook struct {
	PatientID       string           `json:"patient_id"`
	EngagementScore float64          `json:"engagement_score"`
	DropoutRisk     DropoutRisk      `json:"dropout_risk"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Outlook bands dropout risk from the 30-day engagement score and names
// interventions for the weak categories. A deterministic rule table, not
// a statistical model.
func (t *Tracker) Outlook(ctx context.Context, patientID string) (*Outlook, error) {
	score, err := t.Score(ctx, patientID, t.cfg.WindowDays)
	if err != nil {
		return nil, err
	}

	out := &Outlook{
		PatientID:       patientID,
		EngagementScore: score.Overall,
		DropoutRisk:     bandDropout(score.Overall),
		Recommendations: []Recommendation{},
	}

	if out.DropoutRisk == DropoutVeryHigh {
		out.Recommendations = append(out.Recommendations,
			Recommendation{
				Priority: "urgent",
				Action:   "Schedule immediate counseling session",
				Reason:   "Very high dropout risk detected",
			},
			Recommendation{
				Priority: "urgent",
				Action:   "Contact patient via phone",
				Reason:   "Direct intervention needed",
			},
		)
	}

	if score.LoggedDays > 0 && score.Diet < 50 {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Priority: "high",
			Action:   "Provide simplified meal plans",
			Reason:   "Low diet adherence",
		})
	}
	if score.LoggedDays > 0 && score.Exercise < 50 {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Priority: "high",
			Action:   "Suggest easier exercise alternatives",
			Reason:   "Low exercise completion",
		})
	}
	if score.CurrentStreak == 0 {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Priority: "medium",
			Action:   "Send motivational message",
			Reason:   "No recent activity logged",
		})
	}

	return out, nil
}

func bandDropout(engagement float64) DropoutRisk {
	switch {
	case engagement >= 80:
		return DropoutLow
	case engagement >= 60:
		return DropoutMedium
	case engagement >= 40:
		return DropoutHigh
	default:
		return DropoutVeryHigh
	}
}
