package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver

	"github.com/cardiowell/platform/internal/adapters/lab"
	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/config"
)

const resultBufferSize = 256

// Adapter polls a hospital LIS running on SQL Server for newly finalized
// lipid panels and streams them on a channel.
type Adapter struct {
	db     *sql.DB
	config config.LabConfig

	results chan lab.Result

	running  bool
	mu       sync.RWMutex
	cancel   context.CancelFunc
	lastPoll time.Time
	wg       sync.WaitGroup
}

// New creates a new LIS adapter
func New(cfg config.LabConfig) *Adapter {
	return &Adapter{
		config:  cfg,
		results: make(chan lab.Result, resultBufferSize),
	}
}

// Results returns the channel of imported panels
func (a *Adapter) Results() <-chan lab.Result {
	return a.results
}

// Start opens the LIS connection and begins polling
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("adapter already running")
	}

	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		a.config.Host,
		a.config.Port,
		a.config.Database,
		a.config.User,
		a.config.Password,
	)
	if a.config.SSLMode != "disable" {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return fmt.Errorf("failed to open LIS database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping LIS database: %w", err)
	}

	a.db = db
	a.running = true
	a.lastPoll = time.Now().Add(-a.config.PollInterval)

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.pollLoop(pollCtx)

	return nil
}

// Stop stops polling and closes the connection
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	close(a.results)

	if a.db != nil {
		a.db.Close()
	}

	a.running = false
	return nil
}

// Health checks LIS connectivity
func (a *Adapter) Health(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.running {
		return fmt.Errorf("adapter not running")
	}
	return a.db.PingContext(ctx)
}

func (a *Adapter) pollLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.poll(ctx); err != nil {
				log.Printf("LIS poll failed: %v", err)
			}
		}
	}
}

// poll fetches panels finalized since the last poll and pushes them on the
// results channel
func (a *Adapter) poll(ctx context.Context) error {
	a.mu.Lock()
	since := a.lastPoll
	now := time.Now()
	a.mu.Unlock()

	query := `
		SELECT
			ResultID,
			PatientID,
			CollectedAt,
			PatientAge,
			PatientSex,
			TotalCholesterol,
			LDL,
			HDL,
			Triglycerides,
			BloodGlucose
		FROM dbo.LipidPanels
		WHERE FinalizedAt > @since AND FinalizedAt <= @now
		ORDER BY FinalizedAt ASC`

	rows, err := a.db.QueryContext(ctx, query,
		sql.Named("since", since), sql.Named("now", now))
	if err != nil {
		return fmt.Errorf("failed to query lipid panels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result lab.Result
		var sexCode string

		err := rows.Scan(
			&result.ResultID,
			&result.PatientID,
			&result.CollectedAt,
			&result.Age,
			&sexCode,
			&result.Panel.TotalCholesterol,
			&result.Panel.LDL,
			&result.Panel.HDL,
			&result.Panel.Triglycerides,
			&result.Panel.BloodGlucose,
		)
		if err != nil {
			return fmt.Errorf("failed to scan lipid panel: %w", err)
		}
		result.Gender = mapSexCode(sexCode)

		select {
		case a.results <- result:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read lipid panels: %w", err)
	}

	a.mu.Lock()
	a.lastPoll = now
	a.mu.Unlock()

	return nil
}

func mapSexCode(code string) domain.Gender {
	switch code {
	case "M", "m":
		return domain.GenderMale
	case "F", "f":
		return domain.GenderFemale
	default:
		return domain.GenderOther
	}
}
