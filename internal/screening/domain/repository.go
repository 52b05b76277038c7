package domain

import "context"

// Repository defines the interface for assessment persistence
type Repository interface {
	// Save stores a completed assessment record
	Save(ctx context.Context, rec *Record) error

	// History returns a patient's assessments, newest first
	History(ctx context.Context, patientID string, limit int) ([]Record, error)

	// LastRiskLevel returns the most recent risk level for a patient.
	// The second return is false when no assessment exists yet.
	LastRiskLevel(ctx context.Context, patientID string) (RiskLevel, bool, error)
}
