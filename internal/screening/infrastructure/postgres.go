package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/metrics"
)

// PostgresRepository implements domain.Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save stores a completed assessment record
func (r *PostgresRepository) Save(ctx context.Context, rec *domain.Record) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("assessment_save", time.Since(start)) }()

	factorsJSON, err := json.Marshal(rec.Assessment.CriticalFactors)
	if err != nil {
		return errors.Wrap(err, "failed to marshal critical factors")
	}
	panelJSON, err := json.Marshal(rec.Panel)
	if err != nil {
		return errors.Wrap(err, "failed to marshal panel")
	}
	derivedJSON, err := json.Marshal(rec.Derived)
	if err != nil {
		return errors.Wrap(err, "failed to marshal derived metrics")
	}

	query := `
		INSERT INTO screening.assessments (
			id, patient_id, created_at,
			risk_level, risk_score,
			ldl_status, hdl_status, triglyceride_status, glucose_status,
			critical_factors, atherosclerosis_risk, interpretation,
			panel, derived_metrics,
			strategy, requires_statin, requires_immediate_consultation
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)`

	_, err = r.pool.Exec(ctx, query,
		rec.ID, rec.PatientID, rec.CreatedAt,
		rec.Assessment.RiskLevel, rec.Assessment.RiskScore,
		rec.Assessment.LDLStatus, rec.Assessment.HDLStatus,
		rec.Assessment.TriglycerideStatus, rec.Assessment.GlucoseStatus,
		factorsJSON, rec.Assessment.AtherosclerosisRisk, rec.Assessment.Interpretation,
		panelJSON, derivedJSON,
		rec.Strategy, rec.RequiresStatin, rec.RequiresImmediateConsultation,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save assessment")
	}
	return nil
}

// History returns a patient's assessments, newest first
func (r *PostgresRepository) History(ctx context.Context, patientID string, limit int) ([]domain.Record, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("assessment_history", time.Since(start)) }()

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, patient_id, created_at,
		       risk_level, risk_score,
		       ldl_status, hdl_status, triglyceride_status, glucose_status,
		       critical_factors, atherosclerosis_risk, interpretation,
		       panel, derived_metrics,
		       strategy, requires_statin, requires_immediate_consultation
		FROM screening.assessments
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query assessments")
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read assessments")
	}

	return records, nil
}

// LastRiskLevel returns the most recent risk level for a patient
func (r *PostgresRepository) LastRiskLevel(ctx context.Context, patientID string) (domain.RiskLevel, bool, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("assessment_last_risk", time.Since(start)) }()

	query := `
		SELECT risk_level
		FROM screening.assessments
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var level domain.RiskLevel
	err := r.pool.QueryRow(ctx, query, patientID).Scan(&level)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to query last risk level")
	}
	return level, true, nil
}

func scanRecord(rows pgx.Rows) (*domain.Record, error) {
	var rec domain.Record
	var factorsJSON, panelJSON, derivedJSON []byte

	err := rows.Scan(
		&rec.ID, &rec.PatientID, &rec.CreatedAt,
		&rec.Assessment.RiskLevel, &rec.Assessment.RiskScore,
		&rec.Assessment.LDLStatus, &rec.Assessment.HDLStatus,
		&rec.Assessment.TriglycerideStatus, &rec.Assessment.GlucoseStatus,
		&factorsJSON, &rec.Assessment.AtherosclerosisRisk, &rec.Assessment.Interpretation,
		&panelJSON, &derivedJSON,
		&rec.Strategy, &rec.RequiresStatin, &rec.RequiresImmediateConsultation,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan assessment")
	}

	if err := json.Unmarshal(factorsJSON, &rec.Assessment.CriticalFactors); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal critical factors")
	}
	if err := json.Unmarshal(panelJSON, &rec.Panel); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal panel")
	}
	if err := json.Unmarshal(derivedJSON, &rec.Derived); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal derived metrics")
	}

	return &rec, nil
}
