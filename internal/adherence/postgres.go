package adherence

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/metrics"
	"github.com/cardiowell/platform/internal/shared/types"
)

// PostgresStore implements LogStore using PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL log store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Upsert inserts or replaces the log for the (patient, date) pair
func (s *PostgresStore) Upsert(ctx context.Context, log ActivityLog) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("adherence_upsert", time.Since(start)) }()

	query := `
		INSERT INTO adherence.daily_activities (
			patient_id, activity_date,
			diet_followed, exercise_done, medication_taken, water_intake_met,
			sleep_quality, stress_level, notes, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (patient_id, activity_date) DO UPDATE SET
			diet_followed = EXCLUDED.diet_followed,
			exercise_done = EXCLUDED.exercise_done,
			medication_taken = EXCLUDED.medication_taken,
			water_intake_met = EXCLUDED.water_intake_met,
			sleep_quality = EXCLUDED.sleep_quality,
			stress_level = EXCLUDED.stress_level,
			notes = EXCLUDED.notes,
			recorded_at = EXCLUDED.recorded_at`

	_, err := s.pool.Exec(ctx, query,
		log.PatientID, log.Date,
		log.DietFollowed, log.ExerciseDone, log.MedicationTaken, log.WaterIntakeMet,
		log.SleepQuality, log.StressLevel, log.Notes, log.RecordedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert activity log")
	}
	return nil
}

// Window returns the patient's logs between from and to inclusive,
// oldest first
func (s *PostgresStore) Window(ctx context.Context, patientID string, from, to types.Date) ([]ActivityLog, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("adherence_window", time.Since(start)) }()

	query := `
		SELECT patient_id, activity_date,
		       diet_followed, exercise_done, medication_taken, water_intake_met,
		       sleep_quality, stress_level, notes, recorded_at
		FROM adherence.daily_activities
		WHERE patient_id = $1 AND activity_date BETWEEN $2 AND $3
		ORDER BY activity_date ASC`

	rows, err := s.pool.Query(ctx, query, patientID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query activity logs")
	}
	defer rows.Close()

	var logs []ActivityLog
	for rows.Next() {
		var log ActivityLog
		err := rows.Scan(
			&log.PatientID, &log.Date,
			&log.DietFollowed, &log.ExerciseDone, &log.MedicationTaken, &log.WaterIntakeMet,
			&log.SleepQuality, &log.StressLevel, &log.Notes, &log.RecordedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan activity log")
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read activity logs")
	}

	return logs, nil
}
