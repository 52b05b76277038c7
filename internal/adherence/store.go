package adherence

import (
	"context"

	"github.com/cardiowell/platform/internal/shared/types"
)

// LogStore defines the interface for activity log persistence
type LogStore interface {
	// Upsert stores a log, replacing any earlier entry for the same
	// (patient, date) pair
	Upsert(ctx context.Context, log ActivityLog) error

	// Window returns a patient's logs with from <= date <= to,
	// sorted by date ascending
	Window(ctx context.Context, patientID string, from, to types.Date) ([]ActivityLog, error)
}
