package adherence

import (
	"context"
	"fmt"

	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/types"
)

var streakMilestones = []struct {
	Days int
	Code string
	Name string
}{
	{3, "streak_3", "3-Day Streak"},
	{7, "streak_7", "7-Day Streak"},
	{14, "streak_14", "14-Day Streak"},
	{30, "streak_30", "30-Day Streak"},
}

// Badges derives achievements from the patient's log history. Purely a
// function of the logs; calling it repeatedly yields the same result.
func (t *Tracker) Badges(ctx context.Context, patientID string) ([]Badge, error) {
	today := types.DateOf(t.now())

	logs, err := t.store.Window(ctx, patientID, today.AddDays(-(streakLookbackDays-1)), today)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load activity logs")
	}

	badges := []Badge{}
	streak := currentStreak(logs, today)
	for _, m := range streakMilestones {
		if streak >= m.Days {
			badges = append(badges, Badge{
				Code:        m.Code,
				Name:        m.Name,
				Description: fmt.Sprintf("All daily tasks completed %d days in a row", m.Days),
			})
		}
	}

	if perfectWeek(logs, today) {
		badges = append(badges, Badge{
			Code:        "perfect_week",
			Name:        "Perfect Week",
			Description: "All daily tasks completed every day of the past week",
		})
	}

	return badges, nil
}

// perfectWeek reports whether each of the last 7 calendar days has a fully
// complete log
func perfectWeek(logs []ActivityLog, today types.Date) bool {
	byDate := make(map[types.Date]ActivityLog, len(logs))
	for _, log := range logs {
		byDate[log.Date] = log
	}

	for i := 0; i < 7; i++ {
		log, ok := byDate[today.AddDays(-i)]
		if !ok || !log.Complete() {
			return false
		}
	}
	return true
}
