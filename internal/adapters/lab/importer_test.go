package lab

import (
	"context"
	"testing"
	"time"

	"github.com/cardiowell/platform/internal/screening/domain"
)

type stubSource struct {
	ch chan Result
}

func (s *stubSource) Results() <-chan Result { return s.ch }

type captureRepo struct {
	saved []domain.Record
}

func (r *captureRepo) Save(_ context.Context, rec *domain.Record) error {
	r.saved = append(r.saved, *rec)
	return nil
}

func (r *captureRepo) History(context.Context, string, int) ([]domain.Record, error) {
	return nil, nil
}

func (r *captureRepo) LastRiskLevel(context.Context, string) (domain.RiskLevel, bool, error) {
	return "", false, nil
}

// TestImporterProcessesResults tests that LIS panels become stored assessments
func TestImporterProcessesResults(t *testing.T) {
	source := &stubSource{ch: make(chan Result, 2)}
	repo := &captureRepo{}
	importer := NewImporter(source, repo, nil)

	source.ch <- Result{
		ResultID:    "r1",
		PatientID:   "p1",
		CollectedAt: time.Now(),
		Age:         58,
		Gender:      domain.GenderMale,
		Panel: domain.LipidPanel{
			TotalCholesterol: 230,
			LDL:              150,
			HDL:              45,
			Triglycerides:    180,
			BloodGlucose:     118,
		},
	}
	// A panel the classifier must reject
	source.ch <- Result{
		ResultID:  "r2",
		PatientID: "p2",
		Age:       40,
		Gender:    domain.GenderFemale,
		Panel:     domain.LipidPanel{TotalCholesterol: 200},
	}
	close(source.ch)

	importer.Run(context.Background())

	if len(repo.saved) != 1 {
		t.Fatalf("Expected 1 saved record, got %d", len(repo.saved))
	}

	rec := repo.saved[0]
	if rec.PatientID != "p1" {
		t.Errorf("Expected patient p1, got %s", rec.PatientID)
	}
	if rec.Assessment.RiskLevel != domain.RiskHigh {
		t.Errorf("Expected risk level %s, got %s", domain.RiskHigh, rec.Assessment.RiskLevel)
	}
	if rec.Strategy != "statin_consider" {
		t.Errorf("Expected strategy statin_consider, got %s", rec.Strategy)
	}
}
