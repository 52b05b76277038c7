package lab

import (
	"context"
	"log"
	"time"

	"github.com/cardiowell/platform/internal/careplan"
	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/events"
	"github.com/cardiowell/platform/internal/shared/metrics"
	"github.com/cardiowell/platform/internal/shared/types"
)

// Importer runs imported LIS panels through the screening pipeline so that
// lab-sourced assessments land in the same store as API-submitted ones.
type Importer struct {
	source Source
	repo   domain.Repository
	bus    events.EventBus
}

// NewImporter creates a new importer. bus may be nil.
func NewImporter(source Source, repo domain.Repository, bus events.EventBus) *Importer {
	return &Importer{source: source, repo: repo, bus: bus}
}

// Run consumes results until the source channel closes or ctx is cancelled
func (i *Importer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-i.source.Results():
			if !ok {
				return
			}
			if err := i.process(ctx, result); err != nil {
				metrics.RecordLabImport("rejected")
				log.Printf("Failed to import lab result %s: %v", result.ResultID, err)
				continue
			}
			metrics.RecordLabImport("imported")
		}
	}
}

func (i *Importer) process(ctx context.Context, result Result) error {
	pctx := domain.PatientContext{Age: result.Age, Gender: result.Gender}

	derived, err := domain.Normalize(result.Panel)
	if err != nil {
		return err
	}

	assessment, err := domain.Classify(result.Panel, pctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	management, _, err := careplan.BuildPlan(assessment, now)
	if err != nil {
		return err
	}

	rec := &domain.Record{
		ID:                            types.NewID(),
		PatientID:                     result.PatientID,
		CreatedAt:                     now,
		Assessment:                    *assessment,
		Panel:                         result.Panel,
		Derived:                       derived,
		Strategy:                      string(management.Strategy),
		RequiresStatin:                management.RequiresStatin,
		RequiresImmediateConsultation: management.RequiresImmediateConsultation,
	}
	if err := i.repo.Save(ctx, rec); err != nil {
		return err
	}

	if i.bus != nil {
		event := events.NewEvent(events.TypeLabPanelImported, "lab", map[string]any{
			"result_id":     result.ResultID,
			"assessment_id": rec.ID.String(),
			"risk_level":    string(assessment.RiskLevel),
			"collected_at":  result.CollectedAt,
		}).WithPatient(result.PatientID)
		i.bus.Publish(ctx, event)
	}

	return nil
}
