package notification

import (
	"testing"
	"time"

	"github.com/cardiowell/platform/internal/careplan"
	"github.com/cardiowell/platform/internal/screening/domain"
)

func plansFor(t *testing.T, level domain.RiskLevel) (*careplan.ManagementPlan, *careplan.LifestylePlan) {
	t.Helper()

	management, lifestyle, err := careplan.BuildPlan(
		&domain.RiskAssessment{RiskLevel: level},
		time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Failed to build plan: %v", err)
	}
	return management, lifestyle
}

// TestMaterialize tests schedule creation from a care plan
func TestMaterialize(t *testing.T) {
	s := NewScheduler()
	management, lifestyle := plansFor(t, domain.RiskUrgent)

	entries := s.Materialize("p1", management, lifestyle)

	wantTotal := 1 + len(management.FollowUps) + len(lifestyle.Reminders)
	if len(entries) != wantTotal {
		t.Fatalf("Expected %d notifications, got %d", wantTotal, len(entries))
	}

	// Follow-ups sort before reminders, immediate consultation first
	if entries[0].Kind != KindFollowUp {
		t.Errorf("Expected follow-up first, got %s", entries[0].Kind)
	}
	if entries[0].Priority != "critical" {
		t.Errorf("Expected critical consultation entry first, got priority %s", entries[0].Priority)
	}

	for _, n := range entries {
		if n.ID == "" {
			t.Error("Expected notification ID to be set")
		}
		if n.Read {
			t.Error("Expected new notifications to be unread")
		}
	}
}

// TestMaterializeReplaces tests that a new screening replaces the old schedule
func TestMaterializeReplaces(t *testing.T) {
	s := NewScheduler()

	management, lifestyle := plansFor(t, domain.RiskUrgent)
	s.Materialize("p1", management, lifestyle)
	urgentCount := len(s.List("p1", false))

	management, lifestyle = plansFor(t, domain.RiskLow)
	s.Materialize("p1", management, lifestyle)
	lowEntries := s.List("p1", false)

	if len(lowEntries) >= urgentCount {
		t.Errorf("Expected shorter schedule after downgrade, got %d vs %d", len(lowEntries), urgentCount)
	}
	for _, n := range lowEntries {
		if n.Priority == "critical" {
			t.Errorf("Expected no critical entries at low risk, got %+v", n)
		}
	}
}

// TestMarkRead tests read flagging and the unread filter
func TestMarkRead(t *testing.T) {
	s := NewScheduler()
	management, lifestyle := plansFor(t, domain.RiskMedium)
	entries := s.Materialize("p1", management, lifestyle)

	if err := s.MarkRead("p1", entries[0].ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	unread := s.List("p1", true)
	if len(unread) != len(entries)-1 {
		t.Errorf("Expected %d unread, got %d", len(entries)-1, len(unread))
	}

	if err := s.MarkRead("p1", "missing"); err == nil {
		t.Error("Expected error for unknown notification")
	}
	if err := s.MarkRead("p2", entries[0].ID); err == nil {
		t.Error("Expected error for wrong patient")
	}
}
